package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"trailbook/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	experiences ExperienceRepository
	prices      PriceLister
	dispatcher  Dispatcher
}

// PriceLister resolves the effective per-seat price for a slot.
type PriceLister interface {
	UnitPrice(ctx context.Context, slot *domain.Slot) (float64, error)
}

func NewService(experiences ExperienceRepository, prices PriceLister, dispatcher Dispatcher) *Service {
	return &Service{experiences: experiences, prices: prices, dispatcher: dispatcher}
}

func (s *Service) CreateExperience(ctx context.Context, req CreateExperienceRequest, hostID int64) (*domain.Experience, error) {
	if req.Title == "" || req.BasePrice < 0 {
		return nil, ErrValidation
	}

	slots := make([]domain.Slot, 0, len(req.Slots))
	for _, in := range req.Slots {
		slot, err := slotFromInput(in)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}

	exp := &domain.Experience{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		BasePrice:   req.BasePrice,
		HostID:      hostID,
		Slots:       slots,
	}

	if err := s.experiences.Create(ctx, exp); err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}
	return exp, nil
}

func (s *Service) ListExperiences(ctx context.Context, limit, offset int) ([]domain.Experience, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.experiences.List(ctx, limit, offset)
}

func (s *Service) GetExperience(ctx context.Context, id int64) (*domain.Experience, error) {
	exp, err := s.experiences.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return exp, nil
}

// GetAvailability returns the per-slot seats-left view used by browsing
// travelers. Prices are resolved through the same provider bookings use,
// so the quoted price always matches what checkout will charge.
func (s *Service) GetAvailability(ctx context.Context, experienceID int64) ([]SlotAvailability, error) {
	exp, err := s.GetExperience(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	out := make([]SlotAvailability, 0, len(exp.Slots))
	for i := range exp.Slots {
		slot := &exp.Slots[i]
		price, err := s.prices.UnitPrice(ctx, slot)
		if err != nil {
			return nil, err
		}
		out = append(out, SlotAvailability{
			SlotID:      slot.ID,
			Date:        slot.Date,
			StartTime:   slot.StartTime,
			Capacity:    slot.Capacity,
			BookedCount: slot.BookedCount,
			SeatsLeft:   slot.SeatsLeft(),
			UnitPrice:   price,
		})
	}
	return out, nil
}

func (s *Service) AddSlot(ctx context.Context, experienceID int64, req AddSlotRequest, hostID int64) (*domain.Slot, error) {
	exp, err := s.GetExperience(ctx, experienceID)
	if err != nil {
		return nil, err
	}
	if exp.HostID != hostID {
		return nil, ErrForbidden
	}

	slot, err := slotFromInput(req.SlotInput)
	if err != nil {
		return nil, err
	}
	slot.ExperienceID = experienceID

	if err := s.experiences.AddSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("add slot: %w", err)
	}
	return slot, nil
}

// AdjustSlotCapacity lets the host grow or shrink a slot. Shrinking
// below the current booked count is rejected rather than cancelling
// anyone's seats.
func (s *Service) AdjustSlotCapacity(ctx context.Context, slotID int64, capacity int, hostID int64) (*domain.Slot, error) {
	if capacity < 0 {
		return nil, ErrValidation
	}

	slot, err := s.experiences.GetSlotByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	exp, err := s.GetExperience(ctx, slot.ExperienceID)
	if err != nil {
		return nil, err
	}
	if exp.HostID != hostID {
		return nil, ErrForbidden
	}

	ok, err := s.experiences.UpdateSlotCapacity(ctx, slotID, capacity)
	if err != nil {
		return nil, fmt.Errorf("update capacity: %w", err)
	}
	if !ok {
		return nil, ErrCapacityBelowBooked
	}

	slot, err = s.experiences.GetSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}

	if err := s.dispatcher.CapacityChanged(ctx, slot.ID, slot.BookedCount); err != nil {
		log.Printf("dispatch capacity change for slot %d: %v", slot.ID, err)
	}
	return slot, nil
}

func slotFromInput(in SlotInput) (*domain.Slot, error) {
	if _, err := time.Parse("15:04", in.StartTime); err != nil {
		return nil, ErrValidation
	}
	if in.Capacity < 0 || in.PriceOverride < 0 {
		return nil, ErrValidation
	}
	day := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, time.UTC)
	return &domain.Slot{
		Date:          day,
		StartTime:     in.StartTime,
		Capacity:      in.Capacity,
		PriceOverride: in.PriceOverride,
	}, nil
}
