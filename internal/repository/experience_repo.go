package repository

import (
	"context"
	"time"

	"trailbook/internal/domain"

	"gorm.io/gorm"
)

type ExperienceRepository struct {
	db *gorm.DB
}

func NewExperienceRepository(db *gorm.DB) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

func (r *ExperienceRepository) Create(ctx context.Context, e *domain.Experience) error {
	return conn(ctx, r.db).Create(e).Error
}

func (r *ExperienceRepository) GetByID(ctx context.Context, id int64) (*domain.Experience, error) {
	var e domain.Experience
	tx := conn(ctx, r.db).Preload("Slots").First(&e, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &e, nil
}

func (r *ExperienceRepository) List(ctx context.Context, limit, offset int) ([]domain.Experience, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []domain.Experience
	tx := conn(ctx, r.db).
		Preload("Slots").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&out)
	return out, tx.Error
}

func (r *ExperienceRepository) BasePrice(ctx context.Context, experienceID int64) (float64, error) {
	var e domain.Experience
	tx := conn(ctx, r.db).Select("base_price").First(&e, experienceID)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return e.BasePrice, nil
}

// FindSlot locates a slot by its natural identity (experience, date,
// start time). The date is compared on the day only.
func (r *ExperienceRepository) FindSlot(ctx context.Context, ref domain.SlotRef) (*domain.Slot, error) {
	day := time.Date(ref.Date.Year(), ref.Date.Month(), ref.Date.Day(), 0, 0, 0, 0, time.UTC)
	var slot domain.Slot
	tx := conn(ctx, r.db).
		Where("experience_id = ? AND date = ? AND start_time = ?", ref.ExperienceID, day, ref.StartTime).
		First(&slot)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &slot, nil
}

func (r *ExperienceRepository) GetSlotByID(ctx context.Context, id int64) (*domain.Slot, error) {
	var slot domain.Slot
	if err := conn(ctx, r.db).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *ExperienceRepository) AddSlot(ctx context.Context, s *domain.Slot) error {
	s.Date = time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, time.UTC)
	return conn(ctx, r.db).Create(s).Error
}

// UpdateSlotCapacity adjusts capacity, refusing values below the
// current booked count so the slot invariant survives host edits.
// Returns false when the conditional update matched nothing.
func (r *ExperienceRepository) UpdateSlotCapacity(ctx context.Context, slotID int64, capacity int) (bool, error) {
	tx := conn(ctx, r.db).
		Model(&domain.Slot{}).
		Where("id = ? AND booked_count <= ?", slotID, capacity).
		UpdateColumn("capacity", capacity)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}
