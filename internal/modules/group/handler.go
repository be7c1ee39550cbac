package group

import (
	"errors"
	"net/http"

	"trailbook/internal/modules/reservation"
	"trailbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/bookings/group", h.CreateGroupBooking)
}

func (h *Handler) CreateGroupBooking(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req CreateGroupBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateGroupBooking(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooFewParticipants):
			response.Error(c, http.StatusBadRequest, "TOO_FEW_PARTICIPANTS", "Use the regular booking endpoint for fewer than 2 participants")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid participant data")
		case errors.Is(err, reservation.ErrSlotNotFound):
			response.Error(c, http.StatusNotFound, "SLOT_NOT_FOUND", "Slot does not exist")
		case errors.Is(err, reservation.ErrInsufficientCapacity):
			response.Error(c, http.StatusConflict, "SLOT_FULL", "Not enough seats left for the whole group")
		case errors.Is(err, reservation.ErrConcurrentConflict):
			response.Error(c, http.StatusConflict, "CONCURRENT_CONFLICT", "Lost a race for the last seats, please retry")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create group booking")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}
