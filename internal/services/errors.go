package services

import (
	"errors"

	"github.com/practicstudio/devtrack/internal/validation"
)

// Failure classes surfaced by the service layer. Handlers map these to
// HTTP status codes; internally they stay distinguishable so tests can
// tell "exists but not yours" (ErrForbidden) from "does not exist"
// (ErrNotFound).
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidResetToken  = errors.New("invalid reset token")
	ErrResetTokenExpired  = errors.New("reset token expired")
)

// ValidationError carries per-field violations from input validation.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return "validation failed" }

func NewValidationError(v validation.Violations) *ValidationError {
	return &ValidationError{Violations: v}
}
