package notifications

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/goldendragon/restaurant/pkg/config"
	"github.com/goldendragon/restaurant/pkg/resilience"
)

// SMSClient sends a text message to a phone number.
type SMSClient interface {
	SendSMS(to, body string) error
}

var _ SMSClient = (*TwilioClient)(nil)

// TwilioClient sends SMS through the Twilio messaging API.
type TwilioClient struct {
	client   *twilio.RestClient
	from     string
	breaker  *resilience.CircuitBreaker
	retryCfg resilience.RetryConfig
}

// NewTwilioClient creates a Twilio SMS client
func NewTwilioClient(cfg config.TwilioConfig) *TwilioClient {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioClient{
		client:   client,
		from:     cfg.FromNumber,
		breaker:  resilience.NewCircuitBreaker(resilience.BuildSettings("twilio", 0, 0, 0, 0), resilience.GracefulDegradation("twilio")),
		retryCfg: resilience.ConservativeRetryConfig(),
	}
}

// SendSMS sends a text message
func (c *TwilioClient) SendSMS(to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	_, err := resilience.RetryWithBreaker(context.Background(), c.retryCfg, c.breaker,
		func(ctx context.Context) (interface{}, error) {
			return c.client.Api.CreateMessage(params)
		})
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	return nil
}
