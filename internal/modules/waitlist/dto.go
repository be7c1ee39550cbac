package waitlist

import "time"

type JoinRequest struct {
	ExperienceID int64     `json:"experience_id" binding:"required"`
	Date         time.Time `json:"date" binding:"required"`
	StartTime    string    `json:"start_time" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,gte=1"`
	Priority     int       `json:"priority"`
}
