package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldendragon/restaurant/pkg/config"
)

type fakeSMS struct {
	sent []string
	err  error
}

func (f *fakeSMS) SendSMS(to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+": "+body)
	return nil
}

type fakeEmail struct {
	sent []string
	err  error
}

func (f *fakeEmail) SendEmail(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+" | "+subject)
	return nil
}

func reminderConfig() config.ReminderConfig {
	return config.ReminderConfig{
		RestaurantName:  "Golden Dragon Restaurant",
		RestaurantPhone: "(555) 123-4567",
		Address:         "123 Main Street, New York, NY 10001",
	}
}

func TestSendOrderConfirmationEmail(t *testing.T) {
	email := &fakeEmail{}
	service := NewService(nil, email, reminderConfig())

	err := service.SendOrderConfirmationEmail(context.Background(), "jane@example.com", "Jane", 45.5)

	require.NoError(t, err)
	require.Len(t, email.sent, 1)
	assert.Equal(t, "jane@example.com | Golden Dragon Restaurant - Order Confirmed", email.sent[0])
}

func TestSendEmailWithoutClientFails(t *testing.T) {
	service := NewService(&fakeSMS{}, nil, reminderConfig())

	err := service.SendEmail(context.Background(), "jane@example.com", "subject", "body")

	assert.Error(t, err)
}

func TestSendSMSPropagatesClientError(t *testing.T) {
	sms := &fakeSMS{err: errors.New("twilio unavailable")}
	service := NewService(sms, nil, reminderConfig())

	err := service.SendSMS(context.Background(), "+12125550198", "hello")

	assert.ErrorContains(t, err, "twilio unavailable")
}

func TestReservationReminderTemplates(t *testing.T) {
	service := NewService(nil, nil, reminderConfig())

	subject, body := service.ReservationReminderEmail("Jane", "7:00 PM", 4)
	assert.Equal(t, "Golden Dragon Restaurant - Reservation Reminder", subject)
	assert.Contains(t, body, "Hi Jane,")
	assert.Contains(t, body, "today at 7:00 PM for 4 guests")
	assert.Contains(t, body, "(555) 123-4567")

	sms := service.ReservationReminderSMS("Jane", "7:00 PM", 4)
	assert.Contains(t, sms, "reminder of your reservation today at 7:00 PM for 4 guests")
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "****0198", maskPhone("+12125550198"))
	assert.Equal(t, "****", maskPhone("123"))
}
