package notifications

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/you/accountsvc/domain"
)

// SMTPMailer implements domain.NotificationService over SMTP. Only the email
// channel is real here; SMS is the Twilio service's job.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendEmail implements domain.NotificationService
func (m *SMTPMailer) SendEmail(to, subject, htmlBody string) error {
	// Without credentials, log instead of sending (local development).
	if m.from == "" {
		fmt.Printf("[MOCK EMAIL] To: %s, Subject: %s\n", to, subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendSMS implements domain.NotificationService
func (m *SMTPMailer) SendSMS(to, message string) error {
	return fmt.Errorf("sms not supported by smtp mailer")
}

var _ domain.NotificationService = (*SMTPMailer)(nil)
