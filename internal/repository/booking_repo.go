package repository

import (
	"context"
	"time"

	"trailbook/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking together with any attached participants
// and payment splits in one go; inside a TxManager transaction the
// whole graph commits or rolls back with the slot increment.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return conn(ctx, r.db).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	tx := conn(ctx, r.db).
		Preload("Participants").
		Preload("PaymentSplits").
		First(&b, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []domain.Booking
	tx := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out)
	return out, tx.Error
}

// MarkCancelled flips a confirmed booking to cancelled. The status
// predicate makes a second cancellation (or a concurrent one) report
// false instead of double-releasing capacity.
func (r *BookingRepository) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	now := time.Now()
	tx := conn(ctx, r.db).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, domain.BookingConfirmed).
		Updates(map[string]any{
			"status":         domain.BookingCancelled,
			"payment_status": domain.PaymentRefunded,
			"cancelled_at":   now,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}
