package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldendragon/restaurant/internal/reservations"
)

type fakeStore struct {
	reservations []*reservations.Reservation
	listErr      error
	marked       []uuid.UUID
	markErr      error
}

func (f *fakeStore) GetConfirmedForDate(ctx context.Context, date string) ([]*reservations.Reservation, error) {
	return f.reservations, f.listErr
}

func (f *fakeStore) MarkReminderSent(ctx context.Context, reservationID uuid.UUID) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, reservationID)
	return nil
}

type fakeNotifier struct {
	emails   []string
	sms      []string
	emailErr error
	smsErr   error
}

func (f *fakeNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	if f.emailErr != nil {
		return f.emailErr
	}
	f.emails = append(f.emails, to)
	return nil
}

func (f *fakeNotifier) SendSMS(ctx context.Context, to, body string) error {
	if f.smsErr != nil {
		return f.smsErr
	}
	f.sms = append(f.sms, to)
	return nil
}

func (f *fakeNotifier) ReservationReminderEmail(name, slot string, partySize int) (string, string) {
	return "Reservation Reminder", "see you at " + slot
}

func (f *fakeNotifier) ReservationReminderSMS(name, slot string, partySize int) string {
	return "see you at " + slot
}

func nyLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

// newTestService pins "now" to 17:00 so a 19:00 slot is exactly two hours out.
func newTestService(t *testing.T, store *fakeStore, notifier *fakeNotifier) *Service {
	loc := nyLocation(t)
	service := NewService(store, notifier, loc)
	service.now = func() time.Time {
		return time.Date(2024, 5, 14, 17, 0, 0, 0, loc)
	}
	return service
}

func booking(slot string) *reservations.Reservation {
	return &reservations.Reservation{
		ID:        uuid.New(),
		Name:      "Jane",
		Email:     "jane@example.com",
		Phone:     "+12125550198",
		Date:      "2024-05-14",
		Time:      slot,
		PartySize: 4,
		Status:    reservations.StatusConfirmed,
	}
}

func TestRunOnceRemindsBookingsInsideWindow(t *testing.T) {
	inside := booking("19:00")
	store := &fakeStore{reservations: []*reservations.Reservation{
		inside,
		booking("17:30"), // one hour closer than the window allows
		booking("21:00"), // too far out
	}}
	notifier := &fakeNotifier{}
	service := newTestService(t, store, notifier)

	reminded, err := service.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, reminded)
	assert.Equal(t, []string{"jane@example.com"}, notifier.emails)
	assert.Equal(t, []string{"+12125550198"}, notifier.sms)
	assert.Equal(t, []uuid.UUID{inside.ID}, store.marked)
}

func TestRunOnceWindowBoundaries(t *testing.T) {
	tests := []struct {
		slot     string
		reminded int
	}{
		{"18:30", 0}, // exactly 1.5h out, lower bound is exclusive
		{"18:31", 1}, // just past the lower bound
		{"19:30", 1}, // exactly 2.5h out, upper bound is inclusive
		{"19:31", 0},
	}

	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			store := &fakeStore{reservations: []*reservations.Reservation{booking(tt.slot)}}
			service := newTestService(t, store, &fakeNotifier{})

			reminded, err := service.RunOnce(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.reminded, reminded)
		})
	}
}

func TestRunOnceToleratesOneFailedChannel(t *testing.T) {
	inside := booking("19:00")
	store := &fakeStore{reservations: []*reservations.Reservation{inside}}
	notifier := &fakeNotifier{emailErr: errors.New("smtp down")}
	service := newTestService(t, store, notifier)

	reminded, err := service.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, reminded)
	assert.Empty(t, notifier.emails)
	assert.Equal(t, []string{"+12125550198"}, notifier.sms)
	assert.Equal(t, []uuid.UUID{inside.ID}, store.marked)
}

func TestRunOnceDoesNotMarkWhenAllChannelsFail(t *testing.T) {
	store := &fakeStore{reservations: []*reservations.Reservation{booking("19:00")}}
	notifier := &fakeNotifier{emailErr: errors.New("smtp down"), smsErr: errors.New("twilio down")}
	service := newTestService(t, store, notifier)

	reminded, err := service.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Zero(t, reminded)
	assert.Empty(t, store.marked)
}

func TestRunOnceSkipsContactlessChannels(t *testing.T) {
	inside := booking("19:00")
	inside.Phone = ""
	store := &fakeStore{reservations: []*reservations.Reservation{inside}}
	notifier := &fakeNotifier{}
	service := newTestService(t, store, notifier)

	reminded, err := service.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, reminded)
	assert.Empty(t, notifier.sms)
	assert.Len(t, notifier.emails, 1)
}

func TestRunOnceSurfacesStoreErrors(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection refused")}
	service := newTestService(t, store, &fakeNotifier{})

	_, err := service.RunOnce(context.Background())

	assert.Error(t, err)
}
