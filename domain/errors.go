package domain

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBadOldPassword     = errors.New("invalid current password")
	ErrSameAsOldPassword  = errors.New("new password cannot be the same as the current password")
)

// Uniqueness conflicts, checked in registration order
var (
	ErrUsernameTaken   = errors.New("username already exists")
	ErrEmailTaken      = errors.New("user with this email already exists")
	ErrNameTaken       = errors.New("user with this name already exists")
	ErrPhoneTaken      = errors.New("user with this phone number already exists")
	ErrDuplicateRecord = errors.New("duplicate record")
)

// OTP errors
var (
	ErrOTPExpired       = errors.New("otp has expired")
	ErrOTPInvalid       = errors.New("invalid otp code")
	ErrOTPAlreadyActive = errors.New("an otp challenge is already active")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Delivery and throttling errors
var (
	ErrRateLimited    = errors.New("too many requests")
	ErrDeliveryFailed = errors.New("otp delivery failed")
)

// ValidationError reports a structural input violation before any mutation runs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
