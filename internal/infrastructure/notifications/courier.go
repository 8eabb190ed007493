package notifications

import "github.com/you/accountsvc/domain"

// Courier routes each channel to its transport: email to the SMTP mailer, SMS
// to Twilio. Callers keep talking to a single NotificationService.
type Courier struct {
	mail domain.NotificationService
	sms  domain.NotificationService
}

// NewCourier creates a new channel-routing notification service
func NewCourier(mail, sms domain.NotificationService) *Courier {
	return &Courier{mail: mail, sms: sms}
}

// SendEmail implements domain.NotificationService
func (c *Courier) SendEmail(to, subject, htmlBody string) error {
	return c.mail.SendEmail(to, subject, htmlBody)
}

// SendSMS implements domain.NotificationService
func (c *Courier) SendSMS(to, message string) error {
	return c.sms.SendSMS(to, message)
}

var _ domain.NotificationService = (*Courier)(nil)
