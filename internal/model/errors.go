package model

import (
	"errors"
	"net/http"

	"campus/pkg/apierror"
)

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Resource errors
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError reports a missing (or soft-deleted) record as a 404 while staying
// matchable with errors.Is(err, ErrNotFound).
func NotFoundError(resource string) error {
	return apierror.Wrap(ErrNotFound, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// ForbiddenError reports an authenticated caller acting outside its rights.
func ForbiddenError(message string) error {
	return apierror.Wrap(ErrForbidden, "FORBIDDEN", message, http.StatusForbidden)
}

func ConflictError(message string) error {
	return apierror.Wrap(ErrAlreadyExists, "ALREADY_EXISTS", message, http.StatusConflict)
}

func InvalidInputError(message string) error {
	return apierror.Wrap(ErrInvalidInput, "BAD_REQUEST", message, http.StatusBadRequest)
}
