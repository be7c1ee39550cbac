package domain

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference" gorm:"size:36;uniqueIndex"`

	SlotID       int64 `json:"slot_id" validate:"required"`
	ExperienceID int64 `json:"experience_id" validate:"required"`
	UserID       int64 `json:"user_id" validate:"required"`

	Quantity       int     `json:"quantity" validate:"gte=1"`
	UnitPrice      float64 `json:"unit_price" validate:"gte=0"`
	DiscountAmount float64 `json:"discount_amount,omitempty"`
	TotalPrice     float64 `json:"total_price" validate:"gte=0"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	IsGroupBooking bool           `json:"is_group_booking,omitempty"`
	Participants   []Participant  `json:"participants,omitempty" gorm:"foreignKey:BookingID"`
	PaymentSplits  []PaymentSplit `json:"payment_splits,omitempty" gorm:"foreignKey:BookingID"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

type Participant struct {
	ID          int64  `json:"id"`
	BookingID   int64  `json:"booking_id" gorm:"index"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone,omitempty"`
	IsOrganizer bool   `json:"is_organizer"`
}

type PaymentSplit struct {
	ID               int64         `json:"id"`
	BookingID        int64         `json:"booking_id" gorm:"index"`
	ParticipantEmail string        `json:"participant_email"`
	Amount           float64       `json:"amount" validate:"gte=0"`
	Status           PaymentStatus `json:"status"`
}
