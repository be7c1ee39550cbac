package reservation

import (
	"context"

	"trailbook/internal/domain"
)

type SlotReader interface {
	FindSlot(ctx context.Context, ref domain.SlotRef) (*domain.Slot, error)
	GetSlotByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// InventoryStore is the single owner of slot capacity. Reserve returns
// false when the conditional write matched no row.
type InventoryStore interface {
	Reserve(ctx context.Context, slotID int64, qty int) (bool, error)
	Release(ctx context.Context, slotID int64, qty int) (int, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	MarkCancelled(ctx context.Context, id int64) (bool, error)
}

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type PriceProvider interface {
	UnitPrice(ctx context.Context, slot *domain.Slot) (float64, error)
}

// Dispatcher receives best-effort side effects after commit. Errors
// are logged by the caller and never change the operation's outcome.
type Dispatcher interface {
	BookingCreated(ctx context.Context, b *domain.Booking) error
	BookingCancelled(ctx context.Context, b *domain.Booking) error
	CapacityChanged(ctx context.Context, slotID int64, bookedCount int) error
}

// WaitlistPromoter re-offers freed capacity after a cancellation.
type WaitlistPromoter interface {
	Promote(ctx context.Context, slotID int64, availableSeats int) error
}
