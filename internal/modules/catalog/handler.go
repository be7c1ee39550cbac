package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"trailbook/internal/domain"
	"trailbook/internal/middleware"
	"trailbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/experiences", h.ListExperiences)
	public.GET("/experiences/:id", h.GetExperience)
	public.GET("/experiences/:id/availability", h.GetAvailability)

	host := protected.Group("/", middleware.RequireRole(string(domain.RoleHost)))
	host.POST("/experiences", h.CreateExperience)
	host.POST("/experiences/:id/slots", h.AddSlot)
	host.PATCH("/slots/:id/capacity", h.AdjustSlotCapacity)
}

func (h *Handler) CreateExperience(c *gin.Context) {
	hostID := c.GetInt64("user_id")
	if hostID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req CreateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	exp, err := h.service.CreateExperience(c.Request.Context(), req, hostID)
	if err != nil {
		h.writeCatalogError(c, err, "Failed to create experience")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"experience": exp})
}

func (h *Handler) ListExperiences(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	experiences, err := h.service.ListExperiences(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list experiences")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"experiences": experiences})
}

func (h *Handler) GetExperience(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid experience ID")
		return
	}

	exp, err := h.service.GetExperience(c.Request.Context(), id)
	if err != nil {
		h.writeCatalogError(c, err, "Failed to load experience")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"experience": exp})
}

func (h *Handler) GetAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid experience ID")
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), id)
	if err != nil {
		h.writeCatalogError(c, err, "Failed to load availability")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slots": slots})
}

func (h *Handler) AddSlot(c *gin.Context) {
	hostID := c.GetInt64("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid experience ID")
		return
	}

	var req AddSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	slot, err := h.service.AddSlot(c.Request.Context(), id, req, hostID)
	if err != nil {
		h.writeCatalogError(c, err, "Failed to add slot")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"slot": slot})
}

func (h *Handler) AdjustSlotCapacity(c *gin.Context) {
	hostID := c.GetInt64("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid slot ID")
		return
	}

	var req AdjustCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	slot, err := h.service.AdjustSlotCapacity(c.Request.Context(), id, req.Capacity, hostID)
	if err != nil {
		h.writeCatalogError(c, err, "Failed to adjust capacity")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slot": slot})
}

func (h *Handler) writeCatalogError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this experience")
	case errors.Is(err, ErrCapacityBelowBooked):
		response.Error(c, http.StatusConflict, "CAPACITY_BELOW_BOOKED", "Capacity cannot drop below the current booked count")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
