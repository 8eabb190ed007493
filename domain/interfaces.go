package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines user data access operations. Uniqueness of username,
// email, name and phone is ultimately enforced by the store's unique indexes;
// the FindBy lookups exist so callers can fail fast with a field-level error.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByName(ctx context.Context, name string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthService defines the account state machine
type AuthService interface {
	Register(ctx context.Context, username, name, email, password, phone string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RequestPasswordChange(ctx context.Context, userID uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, otp string) error
	ResendOTP(ctx context.Context, userID uuid.UUID) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, newPassword, otp string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*User, error)
}

// OTPService defines the OTP challenge lifecycle
type OTPService interface {
	// IssueChallenge issues a challenge and delivers the code. It fails with
	// ErrOTPAlreadyActive while a prior challenge is unexpired.
	IssueChallenge(ctx context.Context, user *User) error
	// ReissueChallenge issues a new challenge unconditionally, overwriting any
	// prior one, and delivers the code with the given purpose template.
	ReissueChallenge(ctx context.Context, user *User, purpose OTPPurpose) error
	// VerifyChallenge checks the supplied code against the user's stored
	// challenge. It does not clear the challenge; callers clear and persist.
	VerifyChallenge(user *User, code string) error
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines bearer token operations
type TokenService interface {
	Generate(userID uuid.UUID) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// NotificationService defines delivery channels for OTP codes
type NotificationService interface {
	SendEmail(to, subject, htmlBody string) error
	SendSMS(to, message string) error
}

// RateLimiter caps requests per key within a time window
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
