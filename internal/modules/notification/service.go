package notification

import (
	"context"
	"fmt"

	"trailbook/internal/domain"
	"trailbook/internal/modules/realtime"
	"trailbook/internal/repository"
)

// Service is the side-effect dispatcher: it records in-app
// notifications and pushes them over the websocket hub. Callers treat
// every method as fire-and-forget; a failure here must never affect a
// committed booking.
type Service struct {
	repo *repository.NotificationRepository
	hub  *realtime.Hub
}

func NewService(repo *repository.NotificationRepository, hub *realtime.Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

func (s *Service) Create(ctx context.Context, userID int64, t domain.NotificationType, title, message string, data map[string]any) error {
	n := &domain.Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
		IsRead:  false,
		Data:    data,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.hub != nil {
		_ = s.hub.SendToUser(userID, n)
	}
	return nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) BookingCreated(ctx context.Context, b *domain.Booking) error {
	return s.Create(
		ctx,
		b.UserID,
		domain.NotifBookingCreated,
		"Booking confirmed",
		fmt.Sprintf("Your booking %s for %d seat(s) is confirmed", b.Reference, b.Quantity),
		map[string]any{
			"booking_id":    b.ID,
			"experience_id": b.ExperienceID,
			"slot_id":       b.SlotID,
		},
	)
}

func (s *Service) BookingCancelled(ctx context.Context, b *domain.Booking) error {
	return s.Create(
		ctx,
		b.UserID,
		domain.NotifBookingCancelled,
		"Booking cancelled",
		fmt.Sprintf("Your booking %s was cancelled", b.Reference),
		map[string]any{
			"booking_id":    b.ID,
			"experience_id": b.ExperienceID,
			"slot_id":       b.SlotID,
		},
	)
}

func (s *Service) WaitlistOffer(ctx context.Context, e *domain.WaitlistEntry) error {
	msg := "A spot opened up for a slot you are waiting on"
	if e.ExpiresAt != nil {
		msg = fmt.Sprintf("A spot opened up for a slot you are waiting on. Accept before %s", e.ExpiresAt.Format("02 Jan 2006 15:04"))
	}
	return s.Create(
		ctx,
		e.UserID,
		domain.NotifWaitlistOffer,
		"Waitlist offer",
		msg,
		map[string]any{
			"entry_id": e.ID,
			"slot_id":  e.SlotID,
			"quantity": e.Quantity,
		},
	)
}

// CapacityChanged is broadcast only; browsing clients refresh their
// availability view, nobody gets a stored notification row.
func (s *Service) CapacityChanged(ctx context.Context, slotID int64, bookedCount int) error {
	if s.hub != nil {
		s.hub.BroadcastAll(map[string]any{
			"type":         domain.NotifCapacityChanged,
			"slot_id":      slotID,
			"booked_count": bookedCount,
		})
	}
	return nil
}
