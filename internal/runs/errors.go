package runs

import "errors"

// Sentinel errors for the runs package.
var (
	// ErrNotFound is returned when a run or item is not in the database.
	ErrNotFound = errors.New("run not found")

	// ErrInvalidTransition is returned when an item status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
)
