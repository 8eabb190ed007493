package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account record. The OTP challenge is embedded: OTPCode and
// OTPExpiresAt are either both set (a challenge was issued) or both empty.
type User struct {
	ID           uuid.UUID
	Username     string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	OTPCode      string
	OTPExpiresAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasActiveChallenge reports whether an issued OTP challenge is still unexpired.
func (u *User) HasActiveChallenge(now time.Time) bool {
	return u.OTPCode != "" && u.OTPExpiresAt != nil && u.OTPExpiresAt.After(now)
}

// ClearChallenge drops the OTP state. Every consumption path must clear before
// persisting, otherwise a code could be replayed.
func (u *User) ClearChallenge() {
	u.OTPCode = ""
	u.OTPExpiresAt = nil
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User      *User
	Token     string
	ExpiresIn int64
}

// ProfileUpdate carries the optional fields of an update-details request.
// An empty string means the field was not supplied.
type ProfileUpdate struct {
	Username string
	Name     string
	Email    string
	Phone    string
}

// OTPPurpose selects the delivery template for an issued challenge.
type OTPPurpose string

const (
	OTPPurposeChange OTPPurpose = "change"
	OTPPurposeResend OTPPurpose = "resend"
	OTPPurposeReset  OTPPurpose = "reset"
)

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	IssuedAt  int64     `json:"iat"`
	ExpiresAt int64     `json:"exp"`
}
