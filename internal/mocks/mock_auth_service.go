package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/you/accountsvc/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	RegisterFunc              func(ctx context.Context, username, name, email, password, phone string) (*domain.AuthResult, error)
	LoginFunc                 func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	RequestPasswordChangeFunc func(ctx context.Context, userID uuid.UUID) error
	ChangePasswordFunc        func(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, otp string) error
	ResendOTPFunc             func(ctx context.Context, userID uuid.UUID) error
	ForgotPasswordFunc        func(ctx context.Context, email string) error
	ResetPasswordFunc         func(ctx context.Context, email, newPassword, otp string) error
	UpdateProfileFunc         func(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) error
	DeleteAccountFunc         func(ctx context.Context, userID uuid.UUID) error
	GetProfileFunc            func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(ctx context.Context, username, name, email, password, phone string) (*domain.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, name, email, password, phone)
	}
	return &domain.AuthResult{Token: "token"}, nil
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &domain.AuthResult{Token: "token"}, nil
}

func (m *MockAuthService) RequestPasswordChange(ctx context.Context, userID uuid.UUID) error {
	if m.RequestPasswordChangeFunc != nil {
		return m.RequestPasswordChangeFunc(ctx, userID)
	}
	return nil
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, otp string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, oldPassword, newPassword, otp)
	}
	return nil
}

func (m *MockAuthService) ResendOTP(ctx context.Context, userID uuid.UUID) error {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx, userID)
	}
	return nil
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, newPassword, otp string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, newPassword, otp)
	}
	return nil
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, update)
	}
	return nil
}

func (m *MockAuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, userID)
	}
	return nil
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
