package waitlist

import (
	"errors"
	"net/http"
	"strconv"

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
	g := protected.Group("/waitlist")
	{
		g.POST("", h.Join)
		g.GET("/:id", h.GetEntry)
		g.DELETE("/:id", h.Leave)
		g.POST("/:id/accept", h.Accept)
		g.POST("/:id/decline", h.Decline)
	}
}

func (h *Handler) Join(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	e, err := h.service.Join(c.Request.Context(), req, userID)
	if err != nil {
		writeWaitlistError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"entry": e})
}

func (h *Handler) GetEntry(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, ok := entryID(c)
	if !ok {
		return
	}

	e, err := h.service.GetEntry(c.Request.Context(), id, userID)
	if err != nil {
		writeWaitlistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entry": e})
}

func (h *Handler) Leave(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, ok := entryID(c)
	if !ok {
		return
	}

	if err := h.service.Leave(c.Request.Context(), id, userID); err != nil {
		writeWaitlistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "left"})
}

func (h *Handler) Accept(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, ok := entryID(c)
	if !ok {
		return
	}

	b, err := h.service.Accept(c.Request.Context(), id, userID)
	if err != nil {
		writeWaitlistError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) Decline(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, ok := entryID(c)
	if !ok {
		return
	}

	if err := h.service.Decline(c.Request.Context(), id, userID); err != nil {
		writeWaitlistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "declined"})
}

func entryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid waitlist entry ID")
		return 0, false
	}
	return id, true
}

func writeWaitlistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid waitlist request")
	case errors.Is(err, ErrSlotNotFound), errors.Is(err, reservation.ErrSlotNotFound):
		response.Error(c, http.StatusNotFound, "SLOT_NOT_FOUND", "Slot does not exist")
	case errors.Is(err, ErrAlreadyWaiting):
		response.Error(c, http.StatusConflict, "ALREADY_WAITING", "You already have a waiting entry for this slot")
	case errors.Is(err, ErrOfferExpired):
		response.Error(c, http.StatusGone, "OFFER_EXPIRED", "The offer window has passed, join the waitlist again")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Waitlist entry not found")
	case errors.Is(err, reservation.ErrInsufficientCapacity):
		response.Error(c, http.StatusConflict, "SLOT_FULL", "No seats left for this slot")
	case errors.Is(err, reservation.ErrConcurrentConflict):
		response.Error(c, http.StatusConflict, "CONCURRENT_CONFLICT", "Capacity changed since the offer, please retry")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process waitlist request")
	}
}
