package mocks

import (
	"time"

	"github.com/google/uuid"

	"github.com/you/accountsvc/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	GenerateFunc func(userID uuid.UUID) (string, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Generate(userID uuid.UUID) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(userID)
	}
	return "token_" + userID.String(), nil
}

func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// ValidateAs wires ValidateFunc to accept exactly one token for one user.
func (m *MockTokenService) ValidateAs(expectedToken string, userID uuid.UUID) {
	m.ValidateFunc = func(token string) (*domain.TokenClaims, error) {
		if token != expectedToken {
			return nil, domain.ErrTokenInvalid
		}
		now := time.Now()
		return &domain.TokenClaims{
			UserID:    userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Hour).Unix(),
		}, nil
	}
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
