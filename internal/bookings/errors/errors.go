package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrInvalidInterval = errors.New("invalid booking interval")

	ErrConflict = errors.New("booking conflicts with an existing booking")

	ErrLocked = errors.New("resource is locked by another booking request")

	ErrPersistence = errors.New("booking store failure")
)

const (
	ConflictMessage = "Booking conflicts with another booking (including buffer time)."
	LockedMessage   = "This resource is currently being booked by another request. Please try again."
)
