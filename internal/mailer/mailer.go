// Package mailer delivers transactional email. The identity service only
// depends on the Mailer interface; SendGrid is the production transport.
package mailer

import (
	"errors"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"carteira/internal/logger"
)

// Mailer sends a single email.
type Mailer interface {
	Send(toEmail, subject, plainText, htmlContent string) error
}

type sendGridMailer struct {
	client      *sendgrid.Client
	senderEmail string
	senderName  string
}

// NewSendGrid creates a Mailer backed by the SendGrid API.
func NewSendGrid(apiKey, senderEmail, senderName string) Mailer {
	return &sendGridMailer{
		client:      sendgrid.NewSendClient(apiKey),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (m *sendGridMailer) Send(toEmail, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(m.senderName, m.senderEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	response, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return errors.New("sendgrid rejected the message")
	}
	return nil
}

type logMailer struct{}

// NewLogOnly creates a Mailer that logs instead of sending. Used in
// development when no SendGrid key is configured.
func NewLogOnly() Mailer {
	return logMailer{}
}

func (logMailer) Send(toEmail, subject, plainText, _ string) error {
	logger.Get().Infow("mail (log only)", "to", toEmail, "subject", subject, "body", plainText)
	return nil
}
