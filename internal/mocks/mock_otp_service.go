package mocks

import (
	"context"
	"time"

	"github.com/you/accountsvc/domain"
)

// MockOTPService implements domain.OTPService for testing
type MockOTPService struct {
	IssueChallengeFunc   func(ctx context.Context, user *domain.User) error
	ReissueChallengeFunc func(ctx context.Context, user *domain.User, purpose domain.OTPPurpose) error
	VerifyChallengeFunc  func(user *domain.User, code string) error
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) IssueChallenge(ctx context.Context, user *domain.User) error {
	if m.IssueChallengeFunc != nil {
		return m.IssueChallengeFunc(ctx, user)
	}
	return nil
}

func (m *MockOTPService) ReissueChallenge(ctx context.Context, user *domain.User, purpose domain.OTPPurpose) error {
	if m.ReissueChallengeFunc != nil {
		return m.ReissueChallengeFunc(ctx, user, purpose)
	}
	return nil
}

func (m *MockOTPService) VerifyChallenge(user *domain.User, code string) error {
	if m.VerifyChallengeFunc != nil {
		return m.VerifyChallengeFunc(user, code)
	}
	// Default behavior: the stored code must match and still be live
	if user.OTPCode == "" || user.OTPExpiresAt == nil || !user.OTPExpiresAt.After(time.Now()) {
		return domain.ErrOTPExpired
	}
	if user.OTPCode != code {
		return domain.ErrOTPInvalid
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
