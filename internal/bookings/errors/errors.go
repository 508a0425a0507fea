package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusChanged means a status update lost the race: the booking no
	// longer holds the status the caller observed.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)
