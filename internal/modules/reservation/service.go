package reservation

import (
	"context"
	"errors"
	"log"
	"math"

	"trailbook/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	slots     SlotReader
	inventory InventoryStore
	bookings  BookingRepository
	prices    PriceProvider
	txm       TxManager
	notifs    Dispatcher
	waitlist  WaitlistPromoter
}

func NewService(
	slots SlotReader,
	inventory InventoryStore,
	bookings BookingRepository,
	prices PriceProvider,
	txm TxManager,
	notifs Dispatcher,
) *Service {
	return &Service{
		slots:     slots,
		inventory: inventory,
		bookings:  bookings,
		prices:    prices,
		txm:       txm,
		notifs:    notifs,
	}
}

// AttachWaitlist wires the promoter after construction; the waitlist
// service needs this service to place accepted bookings, so one side
// of the pair is attached late.
func (s *Service) AttachWaitlist(w WaitlistPromoter) {
	s.waitlist = w
}

// PlaceBooking reserves capacity and creates the booking in one
// transaction. The read-time seat check only fast-fails; the
// conditional increment inside the transaction is the real arbiter,
// so a stale read can still lose with ErrConcurrentConflict.
func (s *Service) PlaceBooking(ctx context.Context, in PlaceBookingInput) (*domain.Booking, error) {
	if in.Quantity < 1 {
		return nil, ErrValidation
	}

	slot, err := s.slots.FindSlot(ctx, in.Ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	if slot.SeatsLeft() < in.Quantity {
		return nil, ErrInsufficientCapacity
	}

	unitPrice, err := s.prices.UnitPrice(ctx, slot)
	if err != nil {
		return nil, err
	}

	total := round2(unitPrice*float64(in.Quantity) - in.DiscountAmount)
	if total < 0 {
		return nil, ErrValidation
	}

	b := &domain.Booking{
		Reference:      uuid.NewString(),
		SlotID:         slot.ID,
		ExperienceID:   slot.ExperienceID,
		UserID:         in.UserID,
		Quantity:       in.Quantity,
		UnitPrice:      unitPrice,
		DiscountAmount: in.DiscountAmount,
		TotalPrice:     total,
		Status:         domain.BookingConfirmed,
		PaymentStatus:  domain.PaymentPending,
		IsGroupBooking: in.IsGroup,
		Participants:   in.Participants,
		PaymentSplits:  in.PaymentSplits,
	}

	err = s.txm.RunInTx(ctx, func(ctx context.Context) error {
		ok, err := s.inventory.Reserve(ctx, slot.ID, in.Quantity)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if !ok {
			return ErrConcurrentConflict
		}
		return s.bookings.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.dispatchPlaced(ctx, b, slot.ID)
	return b, nil
}

func (s *Service) dispatchPlaced(ctx context.Context, b *domain.Booking, slotID int64) {
	if s.notifs == nil {
		return
	}
	if err := s.notifs.BookingCreated(ctx, b); err != nil {
		log.Printf("booking %d: notify created failed: %v", b.ID, err)
	}
	if slot, err := s.slots.GetSlotByID(ctx, slotID); err == nil {
		if err := s.notifs.CapacityChanged(ctx, slotID, slot.BookedCount); err != nil {
			log.Printf("slot %d: capacity broadcast failed: %v", slotID, err)
		}
	}
}

// CancelBooking flips the booking to cancelled, releases the seats and
// asks the waitlist to re-offer them. callerID 0 skips the ownership
// check for internal callers.
func (s *Service) CancelBooking(ctx context.Context, bookingID, callerID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if callerID != 0 && b.UserID != callerID {
		return nil, ErrForbidden
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}
	if b.Status == domain.BookingCompleted {
		return nil, ErrValidation
	}

	var newCount int
	err = s.txm.RunInTx(ctx, func(ctx context.Context) error {
		ok, err := s.bookings.MarkCancelled(ctx, bookingID)
		if err != nil {
			return err
		}
		if !ok {
			// another cancel won between our read and this write
			return ErrAlreadyCancelled
		}
		newCount, err = s.inventory.Release(ctx, b.SlotID, b.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	b.Status = domain.BookingCancelled
	b.PaymentStatus = domain.PaymentRefunded

	if s.notifs != nil {
		if err := s.notifs.BookingCancelled(ctx, b); err != nil {
			log.Printf("booking %d: notify cancelled failed: %v", b.ID, err)
		}
		if err := s.notifs.CapacityChanged(ctx, b.SlotID, newCount); err != nil {
			log.Printf("slot %d: capacity broadcast failed: %v", b.SlotID, err)
		}
	}

	if s.waitlist != nil {
		if err := s.waitlist.Promote(ctx, b.SlotID, b.Quantity); err != nil {
			log.Printf("slot %d: waitlist promotion failed: %v", b.SlotID, err)
		}
	}

	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID, callerID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if callerID != 0 && b.UserID != callerID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.GetByUserID(ctx, userID, limit, offset)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
