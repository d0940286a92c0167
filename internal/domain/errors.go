package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no listing rows exist for the requested city.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration means every importance in play is zero, so the
	// score divisor is zero.
	ErrConfiguration = errors.New("configuration error: at least one nonzero importance is required")
	ErrInvalidInput  = errors.New("invalid input")
)

// ProcessingError wraps an unexpected failure while building a city's
// aggregate record.
type ProcessingError struct {
	City string
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing %s: %v", e.City, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
