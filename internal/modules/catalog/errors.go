package catalog

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("experience not found")
	ErrForbidden  = errors.New("forbidden")

	// ErrCapacityBelowBooked refuses shrinking a slot under its
	// current booked count; that would break the slot invariant.
	ErrCapacityBelowBooked = errors.New("capacity cannot drop below booked count")
)
