package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/you/accountsvc/domain"
)

// OTPServiceImpl implements domain.OTPService. The challenge lives on the user
// record itself; issuing persists through the user repository and then hands
// the code to the notification service for delivery.
type OTPServiceImpl struct {
	userRepo        domain.UserRepository
	notificationSvc domain.NotificationService
	config          OTPConfig
	now             func() time.Time
}

type OTPConfig struct {
	TTL        time.Duration
	SMSEnabled bool
}

// NewOTPService creates a new OTP service
func NewOTPService(userRepo domain.UserRepository, notificationSvc domain.NotificationService, config OTPConfig) *OTPServiceImpl {
	return &OTPServiceImpl{
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		config:          config,
		now:             time.Now,
	}
}

// IssueChallenge implements domain.OTPService. It refuses to issue while a
// prior challenge is unexpired; the resend and forgot paths deliberately skip
// this guard via ReissueChallenge.
func (s *OTPServiceImpl) IssueChallenge(ctx context.Context, user *domain.User) error {
	if user.HasActiveChallenge(s.now()) {
		return domain.ErrOTPAlreadyActive
	}
	return s.issue(ctx, user, domain.OTPPurposeChange)
}

// ReissueChallenge implements domain.OTPService, overwriting any prior challenge.
func (s *OTPServiceImpl) ReissueChallenge(ctx context.Context, user *domain.User, purpose domain.OTPPurpose) error {
	return s.issue(ctx, user, purpose)
}

func (s *OTPServiceImpl) issue(ctx context.Context, user *domain.User, purpose domain.OTPPurpose) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate otp code: %w", err)
	}

	expiresAt := s.now().Add(s.config.TTL)
	user.OTPCode = code
	user.OTPExpiresAt = &expiresAt

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store otp challenge: %w", err)
	}

	// The challenge stays persisted even when delivery fails; the caller gets
	// a delivery error and the user can retry via resend.
	subject, body := buildOTPEmail(purpose, code, s.config.TTL)
	if err := s.notificationSvc.SendEmail(user.Email, subject, body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	if s.config.SMSEnabled && user.Phone != "" {
		message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
		if err := s.notificationSvc.SendSMS(user.Phone, message); err != nil {
			log.Printf("otp: sms delivery to %s failed: %v", user.Phone, err)
		}
	}

	return nil
}

// VerifyChallenge implements domain.OTPService. Expiry is a pure function of
// wall-clock time; the stored values are not erased here.
func (s *OTPServiceImpl) VerifyChallenge(user *domain.User, code string) error {
	if user.OTPCode == "" || user.OTPExpiresAt == nil || user.OTPExpiresAt.Before(s.now()) {
		return domain.ErrOTPExpired
	}
	if code != user.OTPCode {
		return domain.ErrOTPInvalid
	}
	return nil
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
