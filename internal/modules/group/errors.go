package group

import "errors"

var (
	ErrValidation = errors.New("validation error")

	// ErrTooFewParticipants routes sub-group requests back to the
	// ordinary single-booking endpoint.
	ErrTooFewParticipants = errors.New("group bookings need at least 2 participants")
)
