package mocks

import (
	"sync"

	"github.com/you/accountsvc/domain"
)

// MockNotificationService implements domain.NotificationService for testing.
// Sent messages are recorded so tests can capture delivered OTP codes.
type MockNotificationService struct {
	SendEmailFunc func(to, subject, htmlBody string) error
	SendSMSFunc   func(to, message string) error

	mu     sync.Mutex
	Emails []SentEmail
	SMSes  []SentSMS
}

type SentEmail struct {
	To      string
	Subject string
	Body    string
}

type SentSMS struct {
	To      string
	Message string
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendEmail(to, subject, htmlBody string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, htmlBody)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Emails = append(m.Emails, SentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SMSes = append(m.SMSes, SentSMS{To: to, Message: message})
	return nil
}

// LastEmail returns the most recently recorded email, if any.
func (m *MockNotificationService) LastEmail() (SentEmail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Emails) == 0 {
		return SentEmail{}, false
	}
	return m.Emails[len(m.Emails)-1], true
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
