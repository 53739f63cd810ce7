package repository

import (
	"errors"
	"strings"
)

// Sentinel errors shared across repositories.  Handlers translate
// these into HTTP responses; booking-engine errors live in the booking
// package and are returned directly by the booking and service
// repositories where the engine contracts require them.
var (
	// ErrEmailExists is returned when registering an email that is
	// already taken.
	ErrEmailExists = errors.New("email already exists")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a uniqueness constraint rejects an
	// insert (e.g. a media asset URL registered twice).
	ErrDuplicate = errors.New("duplicate record")
)

// isDuplicateKey reports whether the driver error is a MySQL duplicate
// key violation (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
