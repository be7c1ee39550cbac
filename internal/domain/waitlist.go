package domain

import "time"

type WaitlistStatus string

const (
	WaitlistWaiting WaitlistStatus = "waiting"
	WaitlistOffered WaitlistStatus = "offered"
	WaitlistBooked  WaitlistStatus = "booked"
	WaitlistExpired WaitlistStatus = "expired"
)

// WaitlistEntry queues demand for a full slot. waiting -> offered ->
// {booked | expired}; booked and expired are terminal, a user re-joins
// with a fresh entry.
type WaitlistEntry struct {
	ID     int64 `json:"id"`
	SlotID int64 `json:"slot_id" gorm:"index"`
	UserID int64 `json:"user_id" gorm:"index"`

	Quantity int `json:"quantity" validate:"gte=1"`
	Priority int `json:"priority"` // higher is served first

	Status    WaitlistStatus `json:"status" gorm:"size:12;index"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"` // set while offered
	BookingID *int64         `json:"booking_id,omitempty"` // set once booked

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
