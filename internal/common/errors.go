package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Handlers branch on these with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal server error")
)

// Business logic errors
var (
	// Membership errors
	ErrRelationExists = newKindError(ErrConflict, "relation already exists")
	ErrMemberNotFound = newKindError(ErrNotFound, "member not found")
	ErrNoCandidates   = newKindError(ErrNotFound, "no users without conversation found")
	ErrSelfRelation   = newKindError(ErrInvalidInput, "cannot start a conversation with yourself")

	// Message errors
	ErrMessageNotFound         = newKindError(ErrNotFound, "message not found")
	ErrInvalidStatusTransition = newKindError(ErrInvalidInput, "invalid status transition")
	ErrNotRecipient            = newKindError(ErrForbidden, "only the recipient can update message status")

	// Auth errors
	ErrInvalidCredentials = newKindError(ErrUnauthorized, "invalid email or password")
	ErrInvalidToken       = newKindError(ErrUnauthorized, "invalid token")
	ErrExpiredToken       = newKindError(ErrUnauthorized, "expired token")
	ErrUserNotFound       = newKindError(ErrNotFound, "user not found")
	ErrUserAlreadyExists  = newKindError(ErrConflict, "user already exists")
	ErrPhoneAlreadyExists = newKindError(ErrConflict, "phone number already in use")
)

// kindError is a message tagged with one of the error kinds above
type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Invalidf returns a validation error with a descriptive message
func Invalidf(format string, args ...interface{}) error {
	return newKindError(ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Internal wraps a persistence failure as a server fault, keeping the cause
func Internal(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrInternal, err))
}

// StatusFor maps an error to its HTTP status
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
