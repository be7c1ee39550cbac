package reservation

import "errors"

var (
	ErrValidation = errors.New("validation error")

	// ErrSlotNotFound means the slot reference is bad, not that the
	// slot is full.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrInsufficientCapacity is the fast-fail answer when the read
	// already shows no room for the requested quantity.
	ErrInsufficientCapacity = errors.New("not enough seats left")

	// ErrConcurrentConflict means the conditional increment lost the
	// race: a prior read suggested room but another request took it.
	// Callers may retry; ErrInsufficientCapacity callers should not.
	ErrConcurrentConflict = errors.New("reservation lost a concurrent race")

	ErrNotFound         = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrForbidden        = errors.New("forbidden")
)
