package waitlist

import (
	"context"
	"time"

	"trailbook/internal/domain"
	"trailbook/internal/modules/reservation"
)

type WaitlistRepository interface {
	Create(ctx context.Context, e *domain.WaitlistEntry) error
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	HasWaiting(ctx context.Context, slotID, userID int64) (bool, error)
	WaitingBySlot(ctx context.Context, slotID int64) ([]domain.WaitlistEntry, error)
	MarkOffered(ctx context.Context, id int64, expiresAt time.Time) (bool, error)
	MarkBooked(ctx context.Context, id, bookingID int64) (bool, error)
	MarkExpired(ctx context.Context, id int64) (bool, error)
	DeleteWaiting(ctx context.Context, id, userID int64) (bool, error)
	DueOffers(ctx context.Context, now time.Time) ([]domain.WaitlistEntry, error)
}

type SlotReader interface {
	FindSlot(ctx context.Context, ref domain.SlotRef) (*domain.Slot, error)
	GetSlotByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// BookingPlacer is how an accepted offer becomes a booking: the same
// coordinator every other reservation goes through, so capacity is
// re-validated at accept time.
type BookingPlacer interface {
	PlaceBooking(ctx context.Context, in reservation.PlaceBookingInput) (*domain.Booking, error)
}

type Dispatcher interface {
	WaitlistOffer(ctx context.Context, e *domain.WaitlistEntry) error
}
