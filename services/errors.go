package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAdNotFound          = errors.New("advertisement not found")

	// ErrRoomUnavailable covers rooms disabled or placed under an
	// administrative hold; date availability is irrelevant for them.
	ErrRoomUnavailable = errors.New("room is not open for reservations")

	// ErrTransientStore marks store failures that are safe to retry.
	// Handlers map it to 503; a fabricated success is never returned.
	ErrTransientStore = errors.New("data store unavailable")
)

// ValidationError reports a malformed or missing request field. Nothing is
// persisted when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports a date overlap with an existing non-cancelled
// reservation, carrying the conflicting period so clients can re-render
// blocked dates.
type ConflictError struct {
	RoomID        uint
	ConflictStart time.Time
	ConflictEnd   time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room %d already reserved from %s to %s",
		e.RoomID,
		e.ConflictStart.Format("2006-01-02"),
		e.ConflictEnd.Format("2006-01-02"))
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrTransientStore, err)
}
