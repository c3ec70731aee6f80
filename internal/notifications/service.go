package notifications

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goldendragon/restaurant/pkg/config"
	"github.com/goldendragon/restaurant/pkg/i18n"
	"github.com/goldendragon/restaurant/pkg/logger"
)

// Service sends customer-facing messages through the configured channels.
// Either client may be nil; the corresponding channel is then reported as
// unavailable rather than panicking.
type Service struct {
	sms      SMSClient
	email    EmailClient
	reminder config.ReminderConfig
}

// NewService creates a notification service
func NewService(sms SMSClient, email EmailClient, reminder config.ReminderConfig) *Service {
	return &Service{sms: sms, email: email, reminder: reminder}
}

// SendSMS sends a text message through the SMS channel
func (s *Service) SendSMS(ctx context.Context, to, body string) error {
	if s.sms == nil {
		return fmt.Errorf("sms client not initialized")
	}
	if err := s.sms.SendSMS(to, body); err != nil {
		return err
	}
	logger.WithContext(ctx).Info("SMS sent", zap.String("to", maskPhone(to)))
	return nil
}

// SendEmail sends an email through the email channel
func (s *Service) SendEmail(ctx context.Context, to, subject, body string) error {
	if s.email == nil {
		return fmt.Errorf("email client not initialized")
	}
	if err := s.email.SendEmail(to, subject, body); err != nil {
		return err
	}
	logger.WithContext(ctx).Info("Email sent", zap.String("subject", subject))
	return nil
}

// SendOrderConfirmationEmail tells a customer their order is being prepared
func (s *Service) SendOrderConfirmationEmail(ctx context.Context, to, customerName string, total float64) error {
	subject := i18n.Translate("notification.order.confirmed.subject", s.reminder.Language, s.reminder.RestaurantName)
	body := i18n.Translate("notification.order.confirmed.body", s.reminder.Language,
		customerName, i18n.FormatAmount(total, "USD"), s.reminder.RestaurantPhone,
		s.reminder.RestaurantName, s.reminder.Address)
	return s.SendEmail(ctx, to, subject, body)
}

// ReservationReminderEmail builds the reminder email subject and body
func (s *Service) ReservationReminderEmail(name, slot string, partySize int) (subject, body string) {
	subject = i18n.Translate("notification.reservation.reminder.subject", s.reminder.Language, s.reminder.RestaurantName)
	body = i18n.Translate("notification.reservation.reminder.body", s.reminder.Language,
		name, slot, partySize, s.reminder.RestaurantPhone,
		s.reminder.RestaurantName, s.reminder.Address)
	return subject, body
}

// ReservationReminderSMS builds the reminder text message
func (s *Service) ReservationReminderSMS(name, slot string, partySize int) string {
	return i18n.Translate("notification.reservation.reminder.sms", s.reminder.Language,
		s.reminder.RestaurantName, name, slot, partySize, s.reminder.RestaurantPhone)
}

// maskPhone hides all but the last four digits in log output.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}
