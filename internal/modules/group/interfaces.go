package group

import (
	"context"

	"trailbook/internal/domain"
	"trailbook/internal/modules/reservation"
)

type SlotReader interface {
	FindSlot(ctx context.Context, ref domain.SlotRef) (*domain.Slot, error)
}

type PriceProvider interface {
	UnitPrice(ctx context.Context, slot *domain.Slot) (float64, error)
}

type BookingPlacer interface {
	PlaceBooking(ctx context.Context, in reservation.PlaceBookingInput) (*domain.Booking, error)
}
