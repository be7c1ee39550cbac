package waitlist

import "errors"

var (
	ErrValidation = errors.New("validation error")

	// ErrAlreadyWaiting rejects a second waiting entry for the same
	// slot by the same user.
	ErrAlreadyWaiting = errors.New("already on the waitlist for this slot")

	ErrSlotNotFound = errors.New("slot not found")
	ErrNotFound     = errors.New("waitlist entry not found")

	// ErrOfferExpired means the 24h acceptance window has passed; the
	// entry is now terminal and the user must re-join.
	ErrOfferExpired = errors.New("waitlist offer expired")
)
