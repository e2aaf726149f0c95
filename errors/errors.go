// Package errors defines the sentinel errors shared across the relay and
// their mapping to transport-level responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Authentication / identity
	ErrUnauthenticated    = fmt.Errorf("authentication required")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")

	// Authorization
	ErrForbidden = fmt.Errorf("insufficient permissions")
	ErrNotJoined = fmt.Errorf("%w: not in this room", ErrForbidden)

	// Lookups
	ErrRoomNotFound    = fmt.Errorf("room not found")
	ErrMessageNotFound = fmt.Errorf("message not found")
	ErrUserNotFound    = fmt.Errorf("user not found")

	// Payload validation
	ErrValidation        = fmt.Errorf("invalid payload")
	ErrEmptyContent      = fmt.Errorf("%w: message content is required", ErrValidation)
	ErrContentTooLong    = fmt.Errorf("%w: message content exceeds maximum length", ErrValidation)
	ErrInvalidRole       = fmt.Errorf("%w: invalid role", ErrValidation)
	ErrInvalidAttachment = fmt.Errorf("%w: unsupported attachment", ErrValidation)

	// Conflicts
	ErrRoomFull      = fmt.Errorf("room is full")
	ErrRoomNameTaken = fmt.Errorf("room name already exists")
	ErrAlreadyMember = fmt.Errorf("already a member of this room")

	// Infrastructure
	ErrStore         = fmt.Errorf("storage failure")
	ErrWorkerPanic   = fmt.Errorf("worker panic")
	ErrEmptyWordList = fmt.Errorf("no censored words have been found")
)

// HTTPStatus maps a relay error to the status code the API layer answers with.
// Unknown errors are treated as internal failures.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrMessageNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoomFull), errors.Is(err, ErrRoomNameTaken),
		errors.Is(err, ErrAlreadyMember), errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Is re-exports the stdlib matcher so callers need a single errors import.
func Is(err, target error) bool { return errors.Is(err, target) }
