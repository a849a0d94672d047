// Package apperr holds the domain error taxonomy shared by the repo,
// service and transport layers. Handlers return these as-is; the single
// echo HTTPErrorHandler in internal/httpx translates them to statuses.
package apperr

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateIdentity  = errors.New("user with this email or username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized request")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenReuse         = errors.New("refresh token is expired or already used")
)

// ValidationError carries per-field problems back to the client.
type ValidationError struct {
	Problems []string
}

func Validation(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Problems, "; ")
}
