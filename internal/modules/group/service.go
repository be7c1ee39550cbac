package group

import (
	"context"
	"errors"
	"math"

	"trailbook/internal/domain"
	"trailbook/internal/modules/reservation"

	"gorm.io/gorm"
)

type Service struct {
	slots  SlotReader
	prices PriceProvider
	placer BookingPlacer
}

func NewService(slots SlotReader, prices PriceProvider, placer BookingPlacer) *Service {
	return &Service{slots: slots, prices: prices, placer: placer}
}

// DiscountPercent is the tiered group schedule, inclusive thresholds.
func DiscountPercent(quantity int) float64 {
	switch {
	case quantity >= 10:
		return 15
	case quantity >= 5:
		return 10
	case quantity >= 3:
		return 5
	default:
		return 0
	}
}

// CreateGroupBooking books one slot for the whole party in a single
// coordinator call, so the group either gets all its seats or none.
// The first participant is the organizer and their split starts paid.
func (s *Service) CreateGroupBooking(ctx context.Context, req CreateGroupBookingRequest, userID int64) (*domain.Booking, error) {
	qty := len(req.Participants)
	if qty < 2 {
		return nil, ErrTooFewParticipants
	}
	for _, p := range req.Participants {
		if p.Name == "" || p.Email == "" {
			return nil, ErrValidation
		}
	}

	ref := domain.SlotRef{
		ExperienceID: req.ExperienceID,
		Date:         req.Date,
		StartTime:    req.StartTime,
	}

	slot, err := s.slots.FindSlot(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservation.ErrSlotNotFound
		}
		return nil, err
	}

	unitPrice, err := s.prices.UnitPrice(ctx, slot)
	if err != nil {
		return nil, err
	}

	gross := unitPrice * float64(qty)
	discount := round2(gross * DiscountPercent(qty) / 100)
	finalTotal := round2(gross - discount)

	participants := make([]domain.Participant, 0, qty)
	for i, p := range req.Participants {
		participants = append(participants, domain.Participant{
			Name:        p.Name,
			Email:       p.Email,
			Phone:       p.Phone,
			IsOrganizer: i == 0,
		})
	}

	// equal split; any rounding remainder lands on the organizer so
	// the splits sum to the final total exactly
	perShare := round2(finalTotal / float64(qty))
	organizerShare := round2(finalTotal - perShare*float64(qty-1))

	splits := make([]domain.PaymentSplit, 0, qty)
	for i, p := range req.Participants {
		split := domain.PaymentSplit{
			ParticipantEmail: p.Email,
			Amount:           perShare,
			Status:           domain.PaymentPending,
		}
		if i == 0 {
			split.Amount = organizerShare
			split.Status = domain.PaymentPaid
		}
		splits = append(splits, split)
	}

	return s.placer.PlaceBooking(ctx, reservation.PlaceBookingInput{
		Ref:            ref,
		Quantity:       qty,
		UserID:         userID,
		DiscountAmount: discount,
		IsGroup:        true,
		Participants:   participants,
		PaymentSplits:  splits,
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
