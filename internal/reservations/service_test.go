package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goldendragon/restaurant/pkg/common"
)

type mockReservationRepository struct {
	mock.Mock
}

func (m *mockReservationRepository) Create(ctx context.Context, reservation *Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *mockReservationRepository) GetByID(ctx context.Context, reservationID uuid.UUID) (*Reservation, error) {
	args := m.Called(ctx, reservationID)
	reservation, _ := args.Get(0).(*Reservation)
	return reservation, args.Error(1)
}

func (m *mockReservationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Reservation, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	reservations, _ := args.Get(0).([]*Reservation)
	return reservations, args.Get(1).(int64), args.Error(2)
}

func (m *mockReservationRepository) ListByDate(ctx context.Context, date string) ([]*Reservation, error) {
	args := m.Called(ctx, date)
	reservations, _ := args.Get(0).([]*Reservation)
	return reservations, args.Error(1)
}

func (m *mockReservationRepository) GetConfirmedForDate(ctx context.Context, date string) ([]*Reservation, error) {
	args := m.Called(ctx, date)
	reservations, _ := args.Get(0).([]*Reservation)
	return reservations, args.Error(1)
}

func (m *mockReservationRepository) UpdateStatus(ctx context.Context, reservationID uuid.UUID, status Status) error {
	args := m.Called(ctx, reservationID, status)
	return args.Error(0)
}

func (m *mockReservationRepository) MarkReminderSent(ctx context.Context, reservationID uuid.UUID) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func newTestService(t *testing.T, repo *mockReservationRepository) *Service {
	service := NewService(repo, testLocation(t))
	service.now = func() time.Time {
		return time.Date(2024, 5, 14, 10, 0, 0, 0, testLocation(t))
	}
	return service
}

func TestCreateReservationStartsPending(t *testing.T) {
	ctx := context.Background()
	repo := new(mockReservationRepository)
	service := newTestService(t, repo)
	userID := uuid.New()

	repo.On("Create", ctx, mock.AnythingOfType("*reservations.Reservation")).Return(nil)

	reservation, err := service.CreateReservation(ctx, userID, &CreateReservationRequest{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "212-555-0198",
		Date:      "2024-05-20",
		Time:      "19:00",
		PartySize: 4,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, reservation.Status)
	assert.Equal(t, userID, reservation.UserID)
	assert.Nil(t, reservation.ReminderSentAt)
	repo.AssertExpectations(t)
}

func TestCreateReservationRejectsPastSlot(t *testing.T) {
	ctx := context.Background()
	repo := new(mockReservationRepository)
	service := newTestService(t, repo)

	_, err := service.CreateReservation(ctx, uuid.New(), &CreateReservationRequest{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Date:      "2024-05-14",
		Time:      "09:00",
		PartySize: 2,
	})

	require.Error(t, err)
	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestUpdateStatusCustomerCanCancelOwnBooking(t *testing.T) {
	ctx := context.Background()
	repo := new(mockReservationRepository)
	service := newTestService(t, repo)
	reservationID := uuid.New()
	userID := uuid.New()

	repo.On("GetByID", ctx, reservationID).Return(&Reservation{
		ID:     reservationID,
		UserID: userID,
		Status: StatusConfirmed,
	}, nil)
	repo.On("UpdateStatus", ctx, reservationID, StatusCancelled).Return(nil)

	reservation, err := service.UpdateStatus(ctx, reservationID, userID, false, StatusCancelled)

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, reservation.Status)
	repo.AssertExpectations(t)
}

func TestUpdateStatusCustomerCannotConfirm(t *testing.T) {
	ctx := context.Background()
	repo := new(mockReservationRepository)
	service := newTestService(t, repo)
	reservationID := uuid.New()
	userID := uuid.New()

	repo.On("GetByID", ctx, reservationID).Return(&Reservation{
		ID:     reservationID,
		UserID: userID,
		Status: StatusPending,
	}, nil)

	_, err := service.UpdateStatus(ctx, reservationID, userID, false, StatusConfirmed)

	require.Error(t, err)
	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Code)
}

func TestUpdateStatusCustomerCannotTouchOthersBooking(t *testing.T) {
	ctx := context.Background()
	repo := new(mockReservationRepository)
	service := newTestService(t, repo)
	reservationID := uuid.New()

	repo.On("GetByID", ctx, reservationID).Return(&Reservation{
		ID:     reservationID,
		UserID: uuid.New(),
		Status: StatusPending,
	}, nil)

	_, err := service.UpdateStatus(ctx, reservationID, uuid.New(), false, StatusCancelled)

	require.Error(t, err)
	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Code)
}

func TestUpdateStatusHostConfirmsPending(t *testing.T) {
	ctx := context.Background()
	repo := new(mockReservationRepository)
	service := newTestService(t, repo)
	reservationID := uuid.New()

	repo.On("GetByID", ctx, reservationID).Return(&Reservation{
		ID:     reservationID,
		UserID: uuid.New(),
		Status: StatusPending,
	}, nil)
	repo.On("UpdateStatus", ctx, reservationID, StatusConfirmed).Return(nil)

	reservation, err := service.UpdateStatus(ctx, reservationID, uuid.New(), true, StatusConfirmed)

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, reservation.Status)
	repo.AssertExpectations(t)
}

func TestListReservationsForDateValidatesDate(t *testing.T) {
	service := newTestService(t, new(mockReservationRepository))

	_, err := service.ListReservationsForDate(context.Background(), "not-a-date")

	require.Error(t, err)
	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
}

func TestReservationStartsAt(t *testing.T) {
	loc := testLocation(t)
	reservation := &Reservation{Date: "2024-05-20", Time: "19:30"}

	startsAt, err := reservation.StartsAt(loc)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 20, 19, 30, 0, 0, loc), startsAt)
}
