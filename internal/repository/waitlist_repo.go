package repository

import (
	"context"
	"time"

	"trailbook/internal/domain"

	"gorm.io/gorm"
)

type WaitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

func (r *WaitlistRepository) Create(ctx context.Context, e *domain.WaitlistEntry) error {
	return conn(ctx, r.db).Create(e).Error
}

func (r *WaitlistRepository) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	var e domain.WaitlistEntry
	if err := conn(ctx, r.db).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *WaitlistRepository) HasWaiting(ctx context.Context, slotID, userID int64) (bool, error) {
	var cnt int64
	tx := conn(ctx, r.db).
		Model(&domain.WaitlistEntry{}).
		Where("slot_id = ? AND user_id = ? AND status = ?", slotID, userID, domain.WaitlistWaiting).
		Count(&cnt)
	return cnt > 0, tx.Error
}

// WaitingBySlot returns waiting entries in promotion order: highest
// priority first, strict FIFO within equal priority.
func (r *WaitlistRepository) WaitingBySlot(ctx context.Context, slotID int64) ([]domain.WaitlistEntry, error) {
	var out []domain.WaitlistEntry
	tx := conn(ctx, r.db).
		Where("slot_id = ? AND status = ?", slotID, domain.WaitlistWaiting).
		Order("priority DESC, created_at ASC, id ASC").
		Find(&out)
	return out, tx.Error
}

// MarkOffered moves a waiting entry to offered with the given expiry.
// Conditional on the current status so two promoters cannot offer the
// same entry twice.
func (r *WaitlistRepository) MarkOffered(ctx context.Context, id int64, expiresAt time.Time) (bool, error) {
	tx := conn(ctx, r.db).
		Model(&domain.WaitlistEntry{}).
		Where("id = ? AND status = ?", id, domain.WaitlistWaiting).
		Updates(map[string]any{
			"status":     domain.WaitlistOffered,
			"expires_at": expiresAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *WaitlistRepository) MarkBooked(ctx context.Context, id, bookingID int64) (bool, error) {
	tx := conn(ctx, r.db).
		Model(&domain.WaitlistEntry{}).
		Where("id = ? AND status = ?", id, domain.WaitlistOffered).
		Updates(map[string]any{
			"status":     domain.WaitlistBooked,
			"booking_id": bookingID,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *WaitlistRepository) MarkExpired(ctx context.Context, id int64) (bool, error) {
	tx := conn(ctx, r.db).
		Model(&domain.WaitlistEntry{}).
		Where("id = ? AND status = ?", id, domain.WaitlistOffered).
		Update("status", domain.WaitlistExpired)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// DeleteWaiting removes a user's own entry, only while still waiting.
func (r *WaitlistRepository) DeleteWaiting(ctx context.Context, id, userID int64) (bool, error) {
	tx := conn(ctx, r.db).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, domain.WaitlistWaiting).
		Delete(&domain.WaitlistEntry{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// DueOffers lists offered entries whose expiry has passed.
func (r *WaitlistRepository) DueOffers(ctx context.Context, now time.Time) ([]domain.WaitlistEntry, error) {
	var out []domain.WaitlistEntry
	tx := conn(ctx, r.db).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", domain.WaitlistOffered, now).
		Order("expires_at ASC").
		Find(&out)
	return out, tx.Error
}
