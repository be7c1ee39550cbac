package pricing

import (
	"context"

	"trailbook/internal/domain"
)

// Provider supplies the unit price for a slot. The booking core treats
// the result as an opaque number; dynamic pricing lives behind this
// interface.
type Provider interface {
	UnitPrice(ctx context.Context, slot *domain.Slot) (float64, error)
}

type basePriceReader interface {
	BasePrice(ctx context.Context, experienceID int64) (float64, error)
}

// SlotPriceProvider is the default collaborator: the slot's own
// override when set, the experience base price otherwise.
type SlotPriceProvider struct {
	experiences basePriceReader
}

func NewSlotPriceProvider(experiences basePriceReader) *SlotPriceProvider {
	return &SlotPriceProvider{experiences: experiences}
}

func (p *SlotPriceProvider) UnitPrice(ctx context.Context, slot *domain.Slot) (float64, error) {
	if slot.PriceOverride > 0 {
		return slot.PriceOverride, nil
	}
	return p.experiences.BasePrice(ctx, slot.ExperienceID)
}
