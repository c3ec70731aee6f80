package reminders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goldendragon/restaurant/internal/reservations"
	"github.com/goldendragon/restaurant/pkg/logger"
)

// Reminders go out when a reservation starts more than 1.5 hours and at
// most 2.5 hours from now. With a worker interval well under an hour every
// booking falls into the window exactly once; reminder_sent_at guards
// against repeats.
const (
	windowMin = 90 * time.Minute
	windowMax = 150 * time.Minute
)

// ReservationStore is the subset of the reservation repository the worker needs.
type ReservationStore interface {
	GetConfirmedForDate(ctx context.Context, date string) ([]*reservations.Reservation, error)
	MarkReminderSent(ctx context.Context, reservationID uuid.UUID) error
}

// Notifier sends reminders and renders their content.
type Notifier interface {
	SendSMS(ctx context.Context, to, body string) error
	SendEmail(ctx context.Context, to, subject, body string) error
	ReservationReminderEmail(name, slot string, partySize int) (subject, body string)
	ReservationReminderSMS(name, slot string, partySize int) string
}

// Service sends upcoming-reservation reminders.
type Service struct {
	store    ReservationStore
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewService creates a reminder service. loc is the restaurant's timezone.
func NewService(store ReservationStore, notifier Notifier, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, notifier: notifier, loc: loc, now: time.Now}
}

// RunOnce processes today's confirmed reservations and reminds the ones
// inside the send window. It returns the number of reservations reminded.
// A channel failure is logged and tolerated; the reservation is marked as
// reminded as long as one channel went through.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	now := s.now().In(s.loc)
	today := now.Format("2006-01-02")

	pending, err := s.store.GetConfirmedForDate(ctx, today)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to load today's reservations", zap.Error(err))
		return 0, err
	}

	reminded := 0
	for _, reservation := range pending {
		startsAt, err := reservation.StartsAt(s.loc)
		if err != nil {
			logger.WithContext(ctx).Warn("Skipping reservation with unparsable slot",
				zap.String("reservation_id", reservation.ID.String()),
				zap.String("date", reservation.Date),
				zap.String("time", reservation.Time))
			continue
		}

		until := startsAt.Sub(now)
		if until <= windowMin || until > windowMax {
			continue
		}

		if s.remind(ctx, reservation, startsAt) {
			reminded++
		}
	}

	logger.WithContext(ctx).Info("Reminder pass complete",
		zap.String("date", today),
		zap.Int("candidates", len(pending)),
		zap.Int("reminded", reminded))

	return reminded, nil
}

// RunForever runs reminder passes on the given interval until ctx is done.
func (s *Service) RunForever(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error("Reminder pass failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) remind(ctx context.Context, reservation *reservations.Reservation, startsAt time.Time) bool {
	slot := startsAt.Format("3:04 PM")
	delivered := false

	if reservation.Email != "" {
		subject, body := s.notifier.ReservationReminderEmail(reservation.Name, slot, reservation.PartySize)
		if err := s.notifier.SendEmail(ctx, reservation.Email, subject, body); err != nil {
			logger.WithContext(ctx).Warn("Failed to send reminder email",
				zap.String("reservation_id", reservation.ID.String()),
				zap.Error(err))
		} else {
			delivered = true
		}
	}

	if reservation.Phone != "" {
		body := s.notifier.ReservationReminderSMS(reservation.Name, slot, reservation.PartySize)
		if err := s.notifier.SendSMS(ctx, reservation.Phone, body); err != nil {
			logger.WithContext(ctx).Warn("Failed to send reminder SMS",
				zap.String("reservation_id", reservation.ID.String()),
				zap.Error(err))
		} else {
			delivered = true
		}
	}

	if !delivered {
		return false
	}

	if err := s.store.MarkReminderSent(ctx, reservation.ID); err != nil {
		logger.WithContext(ctx).Error("Failed to mark reminder as sent",
			zap.String("reservation_id", reservation.ID.String()),
			zap.Error(err))
	}

	return true
}
