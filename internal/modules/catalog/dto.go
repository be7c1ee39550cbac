package catalog

import "time"

type SlotInput struct {
	Date          time.Time `json:"date" binding:"required"`
	StartTime     string    `json:"start_time" binding:"required"`
	Capacity      int       `json:"capacity" binding:"gte=0"`
	PriceOverride float64   `json:"price_override" binding:"gte=0"`
}

type CreateExperienceRequest struct {
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	BasePrice   float64     `json:"base_price" binding:"gte=0"`
	Slots       []SlotInput `json:"slots" binding:"dive"`
}

type AddSlotRequest struct {
	SlotInput
}

type AdjustCapacityRequest struct {
	Capacity int `json:"capacity" binding:"gte=0"`
}

// SlotAvailability is the browsing view of one slot.
type SlotAvailability struct {
	SlotID      int64     `json:"slot_id"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"start_time"`
	Capacity    int       `json:"capacity"`
	BookedCount int       `json:"booked_count"`
	SeatsLeft   int       `json:"seats_left"`
	UnitPrice   float64   `json:"unit_price"`
}
