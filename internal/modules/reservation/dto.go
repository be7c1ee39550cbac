package reservation

import (
	"time"

	"trailbook/internal/domain"
)

type PlaceBookingRequest struct {
	ExperienceID int64     `json:"experience_id" binding:"required"`
	Date         time.Time `json:"date" binding:"required"`
	StartTime    string    `json:"start_time" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,gte=1"`
}

// PlaceBookingInput is the coordinator's full contract; the group
// module fills the discount/participant fields, plain bookings leave
// them zero.
type PlaceBookingInput struct {
	Ref            domain.SlotRef
	Quantity       int
	UserID         int64
	DiscountAmount float64
	IsGroup        bool
	Participants   []domain.Participant
	PaymentSplits  []domain.PaymentSplit
}
