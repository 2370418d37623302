package notifications

import (
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/you/accountsvc/domain"
)

// TwilioServiceImpl implements domain.NotificationService over SMS for
// deployments where the account contact is a phone number. Only the text
// body is delivered; subject, HTML body and priority have no SMS mapping.
type TwilioServiceImpl struct {
	client     *twilio.RestClient
	fromNumber string
	logger     *slog.Logger
}

// NewTwilioService creates a new Twilio notification service
func NewTwilioService(accountSID, authToken, fromNumber string, logger *slog.Logger) domain.NotificationService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioServiceImpl{
		client:     client,
		fromNumber: fromNumber,
		logger:     logger,
	}
}

// Send implements domain.NotificationService
func (t *TwilioServiceImpl) Send(recipient, subject, textBody, htmlBody string, priority domain.NotificationPriority) error {
	// If credentials are not configured, log instead of sending
	if t.fromNumber == "" {
		t.logger.Info("mock sms",
			slog.String("to", recipient),
			slog.String("message", textBody),
		)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(t.fromNumber)
	params.SetBody(textBody)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	return nil
}
