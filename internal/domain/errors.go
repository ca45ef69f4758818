// Package domain holds the error taxonomy shared by the core services.
// These are recoverable-by-caller conditions surfaced verbatim to the
// transport layer, never used for process-level failure.
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrEventClosed           = errors.New("event closed")
	ErrDeadlinePassed        = errors.New("registration deadline passed")
	ErrAlreadyRegistered     = errors.New("already registered")
	ErrNotEligibleDepartment = errors.New("department not eligible")
	ErrNotEligibleYear       = errors.New("year not eligible")
	ErrNotRegistered         = errors.New("not registered")
)

// InvalidPayloadError names the first offending field of a request.
type InvalidPayloadError struct {
	Field string
	Msg   string
}

func (e InvalidPayloadError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("invalid payload: %s", e.Field)
	}
	return fmt.Sprintf("invalid payload: %s: %s", e.Field, e.Msg)
}

// InvalidPayload builds an InvalidPayloadError.
func InvalidPayload(field, msg string) error {
	return InvalidPayloadError{Field: field, Msg: msg}
}
