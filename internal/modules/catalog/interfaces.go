package catalog

import (
	"context"

	"trailbook/internal/domain"
)

type ExperienceRepository interface {
	Create(ctx context.Context, e *domain.Experience) error
	GetByID(ctx context.Context, id int64) (*domain.Experience, error)
	List(ctx context.Context, limit, offset int) ([]domain.Experience, error)
	GetSlotByID(ctx context.Context, id int64) (*domain.Slot, error)
	AddSlot(ctx context.Context, s *domain.Slot) error
	UpdateSlotCapacity(ctx context.Context, slotID int64, capacity int) (bool, error)
}

type Dispatcher interface {
	CapacityChanged(ctx context.Context, slotID int64, bookedCount int) error
}
