// Package apperr defines the error taxonomy shared between services, stores
// and HTTP handlers. Handlers translate these into status codes; everything
// else is logged and surfaced as a generic internal failure.
package apperr

import (
	"errors"
	"strings"
)

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidToken        = errors.New("invalid token")
	ErrMissingToken        = errors.New("missing token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInsufficientRole    = errors.New("insufficient role")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInternal            = errors.New("internal error")
)

// ValidationError carries the individual rules the input failed, structured
// enough for a client to render a per-rule checklist.
type ValidationError struct {
	Field string
	Rules []string
}

func (e *ValidationError) Error() string {
	if len(e.Rules) == 0 {
		return "validation failed: " + e.Field
	}
	return "validation failed: " + e.Field + ": " + strings.Join(e.Rules, "; ")
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
