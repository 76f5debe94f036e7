package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/staffsync/attendance-backend-go/internal/config"
)

// requestTimeout bounds the SDK's HTTP round trip. The SDK call itself is
// not context-aware, so the bound is set once on the underlying client.
const requestTimeout = 15 * time.Second

// Client wraps the official Twilio SDK for WhatsApp delivery. It satisfies
// notification.Sender: one attempt per call, any error is terminal for the
// entry being delivered.
type Client struct {
	sdk  *twilio.RestClient
	from string
}

// NewClient creates a Twilio-backed WhatsApp client. When credentials are
// missing the client is still constructed; Send then fails with
// ErrNotConfigured so every attempt is accounted for in the queue.
func NewClient(cfg config.TwilioConfig) *Client {
	var sdk *twilio.RestClient
	if cfg.AccountSID != "" && cfg.AuthToken != "" {
		sdk = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		sdk.Client.SetTimeout(requestTimeout)
	}

	return &Client{
		sdk:  sdk,
		from: whatsappAddress(cfg.WhatsAppNumber),
	}
}

// ErrNotConfigured is returned by Send when Twilio credentials are absent.
var ErrNotConfigured = fmt.Errorf("whatsapp channel is not configured")

// Send delivers one message to a phone number in E.164 form. The context is
// honored up front; once the request is handed to the SDK the client-level
// timeout takes over.
func (c *Client) Send(ctx context.Context, address, message string) error {
	if c.sdk == nil {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(whatsappAddress(address))
	params.SetFrom(c.from)
	params.SetBody(message)

	if _, err := c.sdk.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}

	return nil
}

func whatsappAddress(phone string) string {
	if phone == "" || strings.HasPrefix(phone, "whatsapp:") {
		return phone
	}
	return "whatsapp:" + phone
}
