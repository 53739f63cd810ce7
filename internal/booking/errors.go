// Package booking implements the admission, pricing and lifecycle rules
// for reservations.  The error values defined here form the taxonomy the
// HTTP layer maps onto status codes; storage implementations translate
// their driver errors into these values.
package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrValidation is returned for malformed or missing required input.
	ErrValidation = errors.New("invalid booking input")

	// ErrServiceNotFound is returned when the requested service id does
	// not resolve to a catalog entry.
	ErrServiceNotFound = errors.New("service not found")

	// ErrOptionNotFound is returned when a supplied option id does not
	// belong to the requested service.
	ErrOptionNotFound = errors.New("service option not found")

	// ErrNotFound is returned when a booking id does not resolve.
	ErrNotFound = errors.New("booking not found")
)

// ConflictError reports that an active reservation already occupies an
// overlapping window on the same service.  The conflicting booking's id
// and window are carried so the client can suggest alternatives.
type ConflictError struct {
	BookingID uint64    `json:"id"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Status    string    `json:"status"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict with booking %d (%s - %s)",
		e.BookingID, e.StartAt.Format(time.RFC3339), e.EndAt.Format(time.RFC3339))
}

// MaintenanceError reports that the system-wide booking flag is closed.
// Message carries the admin-configured maintenance text.
type MaintenanceError struct {
	Message string
}

func (e *MaintenanceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "booking is temporarily closed"
}

// InvalidStateError reports a lifecycle transition attempted from a
// status that does not allow it.  The message names the current status,
// which the HTTP layer forwards verbatim.
type InvalidStateError struct {
	Action string
	Status string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s booking with status: %s", e.Action, e.Status)
}
