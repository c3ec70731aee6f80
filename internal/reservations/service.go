package reservations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goldendragon/restaurant/pkg/common"
	"github.com/goldendragon/restaurant/pkg/logger"
)

// ReservationRepository defines the data access interface for reservations
type ReservationRepository interface {
	Create(ctx context.Context, reservation *Reservation) error
	GetByID(ctx context.Context, reservationID uuid.UUID) (*Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Reservation, int64, error)
	ListByDate(ctx context.Context, date string) ([]*Reservation, error)
	GetConfirmedForDate(ctx context.Context, date string) ([]*Reservation, error)
	UpdateStatus(ctx context.Context, reservationID uuid.UUID, status Status) error
	MarkReminderSent(ctx context.Context, reservationID uuid.UUID) error
}

// Service implements reservation business logic
type Service struct {
	repo ReservationRepository
	loc  *time.Location
	now  func() time.Time
}

// NewService creates a new reservation service. loc is the restaurant's
// timezone, used to reject bookings in the past.
func NewService(repo ReservationRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

// CreateReservation books a table for the authenticated user. New bookings
// start pending and are confirmed by a host.
func (s *Service) CreateReservation(ctx context.Context, userID uuid.UUID, req *CreateReservationRequest) (*Reservation, error) {
	startsAt, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, s.loc)
	if err != nil {
		return nil, common.NewBadRequestError("invalid date or time", err)
	}
	if startsAt.Before(s.now().In(s.loc)) {
		return nil, common.NewBadRequestError("reservation time is in the past", nil)
	}

	now := s.now().UTC()
	reservation := &Reservation{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Date:            req.Date,
		Time:            req.Time,
		PartySize:       req.PartySize,
		Status:          StatusPending,
		SpecialRequests: req.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		logger.WithContext(ctx).Error("Failed to create reservation", zap.Error(err))
		return nil, common.NewInternalServerError("failed to create reservation")
	}

	logger.WithContext(ctx).Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("date", reservation.Date),
		zap.String("time", reservation.Time),
		zap.Int("party_size", reservation.PartySize))

	return reservation, nil
}

// ListReservationsForUser lists the requesting user's reservations
func (s *Service) ListReservationsForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Reservation, int64, error) {
	reservations, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to list reservations", zap.Error(err))
		return nil, 0, common.NewInternalServerError("failed to list reservations")
	}
	return reservations, total, nil
}

// ListReservationsForDate lists every reservation on a day, for hosts
func (s *Service) ListReservationsForDate(ctx context.Context, date string) ([]*Reservation, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, common.NewBadRequestError("invalid date", err)
	}

	reservations, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to list reservations", zap.Error(err))
		return nil, common.NewInternalServerError("failed to list reservations")
	}
	return reservations, nil
}

// UpdateStatus moves a reservation to a new state. Customers may only cancel
// their own pending or confirmed bookings; hosts can set any status.
func (s *Service) UpdateStatus(ctx context.Context, reservationID, requesterID uuid.UUID, isHost bool, next Status) (*Reservation, error) {
	if !next.Valid() {
		return nil, common.NewBadRequestError("unknown reservation status", nil)
	}

	reservation, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, common.NewNotFoundError("reservation not found", err)
	}

	if !isHost {
		if reservation.UserID != requesterID {
			return nil, common.NewForbiddenError("not allowed to modify this reservation")
		}
		if next != StatusCancelled {
			return nil, common.NewForbiddenError("customers can only cancel reservations")
		}
		if reservation.Status == StatusCompleted || reservation.Status == StatusCancelled {
			return nil, common.NewConflictError("reservation can no longer be cancelled", nil)
		}
	}

	if err := s.repo.UpdateStatus(ctx, reservationID, next); err != nil {
		logger.WithContext(ctx).Error("Failed to update reservation status", zap.Error(err))
		return nil, common.NewInternalServerError("failed to update reservation status")
	}

	reservation.Status = next
	reservation.UpdatedAt = s.now().UTC()
	return reservation, nil
}
