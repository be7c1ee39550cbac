package waitlist

import (
	"context"
	"errors"
	"log"
	"time"

	"trailbook/internal/domain"
	"trailbook/internal/modules/reservation"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const defaultOfferTTL = 24 * time.Hour

type Service struct {
	entries WaitlistRepository
	slots   SlotReader
	placer  BookingPlacer
	notifs  Dispatcher

	offerTTL time.Duration
	now      func() time.Time
}

func NewService(
	entries WaitlistRepository,
	slots SlotReader,
	placer BookingPlacer,
	notifs Dispatcher,
	offerTTL time.Duration,
) *Service {
	if offerTTL <= 0 {
		offerTTL = defaultOfferTTL
	}
	return &Service{
		entries:  entries,
		slots:    slots,
		placer:   placer,
		notifs:   notifs,
		offerTTL: offerTTL,
		now:      time.Now,
	}
}

func (s *Service) Join(ctx context.Context, req JoinRequest, userID int64) (*domain.WaitlistEntry, error) {
	if req.Quantity < 1 {
		return nil, ErrValidation
	}

	slot, err := s.slots.FindSlot(ctx, domain.SlotRef{
		ExperienceID: req.ExperienceID,
		Date:         req.Date,
		StartTime:    req.StartTime,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	has, err := s.entries.HasWaiting(ctx, slot.ID, userID)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, ErrAlreadyWaiting
	}

	e := &domain.WaitlistEntry{
		SlotID:   slot.ID,
		UserID:   userID,
		Quantity: req.Quantity,
		Priority: req.Priority,
		Status:   domain.WaitlistWaiting,
	}
	if err := s.entries.Create(ctx, e); err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			// the partial unique index caught a concurrent join
			return nil, ErrAlreadyWaiting
		}
		return nil, err
	}
	return e, nil
}

func (s *Service) Leave(ctx context.Context, entryID, userID int64) error {
	ok, err := s.entries.DeleteWaiting(ctx, entryID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Promote offers freed capacity to waiting entries: highest priority
// first, FIFO within equal priority, greedy one entry at a time. An
// entry asking for more seats than remain is skipped, never partially
// granted. Offering does not reserve capacity; Accept re-validates.
func (s *Service) Promote(ctx context.Context, slotID int64, availableSeats int) error {
	if availableSeats <= 0 {
		return nil
	}

	waiting, err := s.entries.WaitingBySlot(ctx, slotID)
	if err != nil {
		return err
	}

	remaining := availableSeats
	for i := range waiting {
		if remaining == 0 {
			break
		}
		e := waiting[i]
		if e.Quantity > remaining {
			continue
		}

		expiresAt := s.now().Add(s.offerTTL)
		ok, err := s.entries.MarkOffered(ctx, e.ID, expiresAt)
		if err != nil {
			return err
		}
		if !ok {
			// another promoter or a leave got here first
			continue
		}
		remaining -= e.Quantity

		e.Status = domain.WaitlistOffered
		e.ExpiresAt = &expiresAt
		if s.notifs != nil {
			if err := s.notifs.WaitlistOffer(ctx, &e); err != nil {
				log.Printf("waitlist entry %d: offer notification failed: %v", e.ID, err)
			}
		}
	}
	return nil
}

// Accept turns an offer into a booking through the reservation
// coordinator, which re-checks capacity with the same conditional
// increment as any other booking. If capacity evaporated since the
// offer the coordinator's error propagates and the entry stays
// offered.
func (s *Service) Accept(ctx context.Context, entryID, userID int64) (*domain.Booking, error) {
	e, err := s.getOwn(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}
	if e.Status != domain.WaitlistOffered {
		return nil, ErrNotFound
	}
	if e.ExpiresAt != nil && s.now().After(*e.ExpiresAt) {
		if _, err := s.entries.MarkExpired(ctx, e.ID); err != nil {
			return nil, err
		}
		return nil, ErrOfferExpired
	}

	slot, err := s.slots.GetSlotByID(ctx, e.SlotID)
	if err != nil {
		return nil, err
	}

	b, err := s.placer.PlaceBooking(ctx, reservation.PlaceBookingInput{
		Ref: domain.SlotRef{
			ExperienceID: slot.ExperienceID,
			Date:         slot.Date,
			StartTime:    slot.StartTime,
		},
		Quantity: e.Quantity,
		UserID:   e.UserID,
	})
	if err != nil {
		return nil, err
	}

	if ok, err := s.entries.MarkBooked(ctx, e.ID, b.ID); err != nil || !ok {
		// the booking is committed either way; only the entry state is off
		log.Printf("waitlist entry %d: mark booked failed (ok=%v err=%v)", e.ID, ok, err)
	}
	return b, nil
}

// Decline expires the offer and cascades the freed seats to the next
// waiting candidate.
func (s *Service) Decline(ctx context.Context, entryID, userID int64) error {
	e, err := s.getOwn(ctx, entryID, userID)
	if err != nil {
		return err
	}

	ok, err := s.entries.MarkExpired(ctx, e.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	if err := s.Promote(ctx, e.SlotID, e.Quantity); err != nil {
		log.Printf("slot %d: cascade promotion after decline failed: %v", e.SlotID, err)
	}
	return nil
}

// SweepExpired expires every overdue offer and re-offers the freed
// seats per slot. Runs from the periodic job; returns the number of
// entries expired.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	due, err := s.entries.DueOffers(ctx, s.now())
	if err != nil {
		return 0, err
	}

	expired := 0
	freed := make(map[int64]int)
	for _, e := range due {
		ok, err := s.entries.MarkExpired(ctx, e.ID)
		if err != nil {
			return expired, err
		}
		if !ok {
			continue // accepted or declined since the query
		}
		expired++
		freed[e.SlotID] += e.Quantity
	}

	for slotID, seats := range freed {
		if err := s.Promote(ctx, slotID, seats); err != nil {
			log.Printf("slot %d: cascade promotion after sweep failed: %v", slotID, err)
		}
	}
	return expired, nil
}

func (s *Service) GetEntry(ctx context.Context, entryID, userID int64) (*domain.WaitlistEntry, error) {
	return s.getOwn(ctx, entryID, userID)
}

func (s *Service) getOwn(ctx context.Context, entryID, userID int64) (*domain.WaitlistEntry, error) {
	e, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if e.UserID != userID {
		return nil, ErrNotFound
	}
	return e, nil
}
