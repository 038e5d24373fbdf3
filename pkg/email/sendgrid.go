package email

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a single outbound email.
type Message struct {
	To        string
	ToName    string
	Subject   string
	PlainBody string
}

// Sender delivers messages through a mail provider.
type Sender interface {
	Send(msg Message) error
}

// SendGridSender delivers mail through the SendGrid API.
type SendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *SendGridSender) Send(msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(msg.ToName, msg.To)

	message := mail.NewSingleEmail(from, msg.Subject, recipient, msg.PlainBody, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

// NopSender discards messages. Used when no API key is configured.
type NopSender struct{}

func (NopSender) Send(Message) error { return nil }
