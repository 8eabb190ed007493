package domain

import (
	"testing"
	"time"
)

func TestUser_HasActiveChallenge(t *testing.T) {
	now := time.Now()
	future := now.Add(10 * time.Minute)
	past := now.Add(-time.Minute)

	tests := []struct {
		name        string
		code        string
		expiresAt   *time.Time
		expectActive bool
		description string
	}{
		{
			name:         "unexpired challenge",
			code:         "123456",
			expiresAt:    &future,
			expectActive: true,
			description:  "challenge within its window is active",
		},
		{
			name:         "expired challenge",
			code:         "123456",
			expiresAt:    &past,
			expectActive: false,
			description:  "stale values are invalidated by the expiry check, not erased",
		},
		{
			name:         "no challenge issued",
			code:         "",
			expiresAt:    nil,
			expectActive: false,
			description:  "fresh user holds no challenge",
		},
		{
			name:         "expiry without code",
			code:         "",
			expiresAt:    &future,
			expectActive: false,
			description:  "code and expiry are both present or both absent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{OTPCode: tt.code, OTPExpiresAt: tt.expiresAt}
			if got := u.HasActiveChallenge(now); got != tt.expectActive {
				t.Errorf("HasActiveChallenge() = %v, want %v (%s)", got, tt.expectActive, tt.description)
			}
		})
	}
}

func TestUser_ClearChallenge(t *testing.T) {
	expiry := time.Now().Add(10 * time.Minute)
	u := &User{OTPCode: "654321", OTPExpiresAt: &expiry}

	u.ClearChallenge()

	if u.OTPCode != "" {
		t.Errorf("expected OTP code to be cleared, got %q", u.OTPCode)
	}
	if u.OTPExpiresAt != nil {
		t.Error("expected OTP expiry to be cleared")
	}
	if u.HasActiveChallenge(time.Now()) {
		t.Error("cleared challenge must not be active")
	}
}
