package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")

	// ErrAuthenticationRequired: the operation needs a known identity.
	ErrAuthenticationRequired = errors.New("authentication required")

	// Lifecycle violations. Never retried, surfaced to the caller as-is.
	ErrAlreadyPublished = errors.New("product is already published")
	ErrEditNotAllowed   = errors.New("cannot edit published products")

	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrReviewNotFound  = errors.New("review not found")

	// ErrNotProductFounder: only the product's founder may perform this.
	ErrNotProductFounder = errors.New("caller is not the product founder")

	// ErrDuplicateReview: one review per (reviewer, product) pair. The
	// check is a query, not a storage constraint.
	ErrDuplicateReview = errors.New("product already reviewed by this user")
)

// ValidationError reports malformed or incomplete input. Surfaced
// synchronously, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
