package domain

import "errors"

var (
	// ErrModelNotFound is returned when no active model matches an id or slug
	ErrModelNotFound = errors.New("domain: model not found")

	// ErrUnknownLocationType is returned for location values outside the known set
	ErrUnknownLocationType = errors.New("domain: unknown location type")

	// ErrInvalidBookingStatus is returned for unknown booking statuses
	ErrInvalidBookingStatus = errors.New("domain: invalid booking status")

	// ErrBackendUnavailable is reported when the scheduling backend gave no usable answer
	ErrBackendUnavailable = errors.New("domain: scheduling backend unavailable")
)
