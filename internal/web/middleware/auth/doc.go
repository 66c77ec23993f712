// Package auth provides the session based authentication middleware for the
// web service.
package auth
