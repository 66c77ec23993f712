package login

import "github.com/pkg/errors"

var (
	// ErrInvalidCredentials is returned on a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountInactive is returned when the account exists but is deactivated.
	ErrAccountInactive = errors.New("this account has been deactivated")

	// ErrInvalidFormData is returned when the login form cannot be parsed.
	ErrInvalidFormData = errors.New("invalid form data")
)
