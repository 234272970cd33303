package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender отправляет письма через SendGrid API
type SendGridSender struct {
	client    sendGridAPI
	fromEmail string
	fromName  string
	log       Logger
}

// NewSendGridSender создает отправителя SendGrid
func NewSendGridSender(apiKey, fromEmail, fromName string, log Logger) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		log:       log,
	}
}

// Send отправляет письмо
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)

	text := msg.Body
	if text == "" {
		text = msg.Subject
	}
	message := mail.NewSingleEmail(from, msg.Subject, to, text, msg.HTML)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: sendgrid: %v", ErrSend, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: sendgrid returned status %d: %s", ErrRejected, resp.StatusCode, resp.Body)
	}

	s.log.Info("Email sent via SendGrid: to=%s, subject=%q, status=%d", msg.To, msg.Subject, resp.StatusCode)
	return nil
}
