package repository

import (
	"context"
	"errors"

	"trailbook/internal/domain"

	"gorm.io/gorm"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// InventoryRepository owns the capacity truth of every slot. The only
// mutating primitives are Reserve and Release; both are single
// conditional writes, so the database linearizes concurrent callers
// and no application-level lock is needed.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Reserve increments booked_count by qty only if the slot still has
// room at the moment of the write. Returns false when the conditional
// update matched no row because the slot is full or another caller won
// the race; a missing slot is reported as gorm.ErrRecordNotFound.
func (r *InventoryRepository) Reserve(ctx context.Context, slotID int64, qty int) (bool, error) {
	if qty <= 0 {
		return false, ErrInvalidQuantity
	}

	tx := conn(ctx, r.db).
		Model(&domain.Slot{}).
		Where("id = ? AND booked_count + ? <= capacity", slotID, qty).
		UpdateColumn("booked_count", gorm.Expr("booked_count + ?", qty))
	if tx.Error != nil {
		return false, tx.Error
	}
	if tx.RowsAffected == 1 {
		return true, nil
	}

	// distinguish "full" from "no such slot"
	var cnt int64
	if err := conn(ctx, r.db).Model(&domain.Slot{}).Where("id = ?", slotID).Count(&cnt).Error; err != nil {
		return false, err
	}
	if cnt == 0 {
		return false, gorm.ErrRecordNotFound
	}
	return false, nil
}

// Release decrements booked_count by qty, floored at zero, and returns
// the resulting count.
func (r *InventoryRepository) Release(ctx context.Context, slotID int64, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}

	tx := conn(ctx, r.db).
		Model(&domain.Slot{}).
		Where("id = ?", slotID).
		UpdateColumn("booked_count", gorm.Expr(
			"CASE WHEN booked_count < ? THEN 0 ELSE booked_count - ? END", qty, qty,
		))
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var slot domain.Slot
	if err := conn(ctx, r.db).Select("booked_count").First(&slot, slotID).Error; err != nil {
		return 0, err
	}
	return slot.BookedCount, nil
}
