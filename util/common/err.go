// Package common holds the error taxonomy shared by services and handlers.
package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Romankivs/Lab1Istp/logger"
)

var (
	// ErrNotFound is returned when a key lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConstraint is returned when the store rejects a write because of a
	// duplicate key, a dangling foreign key or a row that is still referenced.
	ErrConstraint = errors.New("constraint violation")
	// ErrEmailNotFound is returned by a login attempt with an unknown email.
	ErrEmailNotFound = errors.New("email not found")
	// ErrWrongPassword is returned by a login attempt with a known email and
	// a mismatched password.
	ErrWrongPassword = errors.New("wrong password")
)

// ValidationError reports malformed form input. It is raised before any
// write reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given form field.
func NewValidationError(field, format string, a ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ConstraintError wraps a store error as ErrConstraint while keeping the
// driver message for the logs.
func ConstraintError(err error) error {
	return fmt.Errorf("%w: %v", ErrConstraint, err)
}

// LooksLikeConstraint matches driver messages for integrity violations when
// the dialect did not translate the error itself.
func LooksLikeConstraint(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "violates unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

// Combine joins the non-nil errors into one.
func Combine(errs ...error) error {
	return errors.Join(errs...)
}

func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
