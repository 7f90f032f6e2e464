package entities

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Lookup misses. Callers branch on these, they are not failures.
	ErrNotFound        = errors.New("not found")
	ErrMeetingNotFound = fmt.Errorf("meeting %w", ErrNotFound)
	ErrActionNotFound  = fmt.Errorf("action item %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)

	// Storage engine failures (I/O, corruption, constraint violation)
	ErrStorage = errors.New("storage error")

	// Validation errors
	ErrInvalidStatus = errors.New("invalid action status: must be one of open, done, blocked, cancelled")
	ErrInvalidDate   = errors.New("invalid meeting date: expected YYYY-MM-DD")
)
