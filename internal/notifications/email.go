package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/goldendragon/restaurant/pkg/config"
	"github.com/goldendragon/restaurant/pkg/resilience"
)

// EmailClient sends an email to a single recipient.
type EmailClient interface {
	SendEmail(to, subject, body string) error
}

var _ EmailClient = (*SMTPClient)(nil)

// SMTPClient sends plain-text email over SMTP.
type SMTPClient struct {
	addr     string
	auth     smtp.Auth
	from     string
	retryCfg resilience.RetryConfig
}

// NewSMTPClient creates an SMTP email client. Auth is skipped when no
// username is configured, for local relays.
func NewSMTPClient(cfg config.SMTPConfig) *SMTPClient {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPClient{
		addr:     cfg.Host + ":" + cfg.Port,
		auth:     auth,
		from:     cfg.FromAddress,
		retryCfg: resilience.ConservativeRetryConfig(),
	}
}

// SendEmail sends a plain-text email
func (c *SMTPClient) SendEmail(to, subject, body string) error {
	var msg strings.Builder
	msg.WriteString("From: " + c.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	_, err := resilience.Retry(context.Background(), c.retryCfg,
		func(ctx context.Context) (interface{}, error) {
			return nil, smtp.SendMail(c.addr, c.auth, c.from, []string{to}, []byte(msg.String()))
		})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
