package rbac

import "errors"

var (
	// ErrGroupNotFound is returned when a public group id resolves to no group.
	ErrGroupNotFound = errors.New("group not found")
)
