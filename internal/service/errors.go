package service

import (
	"errors"
	"fmt"

	"github.com/Varun5711/contatos/internal/auth"
)

var (
	ErrContactNotFound    = errors.New("contact not found")
	ErrInvalidOffset      = errors.New("skip must be greater than or equal to 0")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized wraps auth.ErrInvalidToken so middleware can tell a
	// rejected token apart from a store failure.
	ErrUnauthorized = fmt.Errorf("%w: unknown user or expired token", auth.ErrInvalidToken)
)

// ValidationError marks input rejected before reaching the store.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error) error {
	return &ValidationError{Err: err}
}
