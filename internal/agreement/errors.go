package agreement

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a template, instance, audit entry or
	// publication does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPersistence wraps failures of the backing store.
	ErrPersistence = errors.New("persistence failure")

	// ErrConflict is returned when a write was based on a stale version.
	ErrConflict = errors.New("version conflict")

	// ErrInvalidTransition is returned for a lifecycle event that is not
	// allowed from the instance's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInstanceLocked is returned for edits to an accepted instance.
	ErrInstanceLocked = errors.New("instance is locked")
)

// storeErr wraps a backend error so that it matches ErrPersistence.
// Conflicts are passed through so callers can tell them apart.
func storeErr(op string, err error) error {
	if errors.Is(err, ErrConflict) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
