package group

import "time"

type ParticipantInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type CreateGroupBookingRequest struct {
	ExperienceID int64              `json:"experience_id" binding:"required"`
	Date         time.Time          `json:"date" binding:"required"`
	StartTime    string             `json:"start_time" binding:"required"`
	Participants []ParticipantInput `json:"participants" binding:"required,dive"`
}
