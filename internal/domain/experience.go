package domain

import "time"

type Experience struct {
	ID          int64   `json:"id"`
	HostID      int64   `json:"host_id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description,omitempty" gorm:"type:text"`
	Location    string  `json:"location,omitempty"`
	BasePrice   float64 `json:"base_price" validate:"gte=0"`

	Slots []Slot `json:"slots,omitempty" gorm:"foreignKey:ExperienceID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slot is a single bookable date+time instance of an experience.
// Identity is (experience_id, date, start_time). BookedCount never
// exceeds Capacity as observed by any committed transaction.
type Slot struct {
	ID           int64     `json:"id"`
	ExperienceID int64     `json:"experience_id" gorm:"uniqueIndex:idx_slot_identity"`
	Date         time.Time `json:"date" gorm:"type:date;uniqueIndex:idx_slot_identity"`
	StartTime    string    `json:"start_time" gorm:"size:5;uniqueIndex:idx_slot_identity"` // "15:04"
	Capacity     int       `json:"capacity" validate:"gte=0"`
	BookedCount  int       `json:"booked_count"`

	// PriceOverride replaces the experience base price when > 0.
	PriceOverride float64 `json:"price_override,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Slot) SeatsLeft() int {
	left := s.Capacity - s.BookedCount
	if left < 0 {
		return 0
	}
	return left
}

// SlotRef addresses a slot by its natural identity.
type SlotRef struct {
	ExperienceID int64     `json:"experience_id"`
	Date         time.Time `json:"date"`
	StartTime    string    `json:"start_time"`
}
