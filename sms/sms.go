// Package sms sends phone verification codes. The gateway sits behind the
// Sender interface so handlers never touch the Twilio SDK directly.
package sms

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers a single text message. Implementations must respect ctx.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// DefaultSender is wired at startup; nil means SMS is not configured.
var DefaultSender Sender

// SendTimeout bounds every call to the SMS gateway.
const SendTimeout = 10 * time.Second

type twilioSender struct {
	client              *twilio.RestClient
	messagingServiceSid string
}

// Init builds the Twilio-backed sender from environment credentials.
func Init() {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	if sid == "" || token == "" {
		log.Println("Warning: Twilio credentials not set, phone verification disabled")
		return
	}

	client := twilio.NewRestClientWithParams(twilio.RestClientParams{
		Username: sid,
		Password: token,
	})

	DefaultSender = &twilioSender{
		client:              client,
		messagingServiceSid: os.Getenv("TWILIO_MESSAGING_SERVICE_SID"),
	}
}

func (s *twilioSender) Send(ctx context.Context, to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetMessagingServiceSid(s.messagingServiceSid)
	params.SetTo(to)
	params.SetBody(body)

	done := make(chan error, 1)
	go func() {
		_, err := s.client.ApiV2010.CreateMessage(params)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("sms gateway: %w", ctx.Err())
	}
}
