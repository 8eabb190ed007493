package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/you/accountsvc/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
	tokenTTL    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	tokenTTL time.Duration,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
		tokenTTL:    tokenTTL,
	}
}

// Register implements domain.AuthService. Uniqueness pre-checks run in order
// username, email, name, phone and short-circuit on the first conflict; the
// store's unique indexes remain the backstop against concurrent registration.
func (s *AuthServiceImpl) Register(ctx context.Context, username, name, email, password, phone string) (*domain.AuthResult, error) {
	if err := ValidateRegistration(username, name, email, password, phone); err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, username, email, name, phone); err != nil {
		return nil, err
	}

	hashed, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hashed,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			// Lost the race against a concurrent registration.
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if err := ValidateLogin(email, password); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// RequestPasswordChange implements domain.AuthService. The active-challenge
// guard applies only here; resend and forgot overwrite unconditionally.
func (s *AuthServiceImpl) RequestPasswordChange(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.otpSvc.IssueChallenge(ctx, user)
}

// ChangePassword implements domain.AuthService
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, otp string) error {
	if err := ValidateNewPassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.otpSvc.VerifyChallenge(user, otp); err != nil {
		return err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, oldPassword) {
		return domain.ErrBadOldPassword
	}
	if s.passwordSvc.Verify(user.PasswordHash, newPassword) {
		return domain.ErrSameAsOldPassword
	}

	hashed, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// New hash and challenge clear go out in one update so the code cannot be
	// replayed after the password changed.
	user.PasswordHash = hashed
	user.ClearChallenge()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ResendOTP implements domain.AuthService
func (s *AuthServiceImpl) ResendOTP(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.otpSvc.ReissueChallenge(ctx, user, domain.OTPPurposeResend)
}

// ForgotPassword implements domain.AuthService
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.otpSvc.ReissueChallenge(ctx, user, domain.OTPPurposeReset)
}

// ResetPassword implements domain.AuthService. Unlike ChangePassword it does
// not compare the new password against the current one: reset exists for
// forgotten passwords, so the caller cannot be assumed to know the old value.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email, newPassword, otp string) error {
	if err := ValidateNewPassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.otpSvc.VerifyChallenge(user, otp); err != nil {
		return err
	}

	hashed, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hashed
	user.ClearChallenge()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

// UpdateProfile implements domain.AuthService. Every supplied field is checked
// for conflicts before any of them is applied (all-or-nothing validation).
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) error {
	if err := ValidateProfileUpdate(update); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if update.Username != "" && update.Username != user.Username {
		if s.fieldTaken(ctx, s.userRepo.FindByUsername, update.Username) {
			return domain.ErrUsernameTaken
		}
	}
	if update.Name != "" && update.Name != user.Name {
		if s.fieldTaken(ctx, s.userRepo.FindByName, update.Name) {
			return domain.ErrNameTaken
		}
	}
	if update.Email != "" && update.Email != user.Email {
		if s.fieldTaken(ctx, s.userRepo.FindByEmail, update.Email) {
			return domain.ErrEmailTaken
		}
	}
	if update.Phone != "" && update.Phone != user.Phone {
		if s.fieldTaken(ctx, s.userRepo.FindByPhone, update.Phone) {
			return domain.ErrPhoneTaken
		}
	}

	if update.Username != "" {
		user.Username = update.Username
	}
	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	if update.Phone != "" {
		user.Phone = update.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return domain.ErrDuplicateRecord
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteAccount implements domain.AuthService
func (s *AuthServiceImpl) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthServiceImpl) issueToken(user *domain.User) (*domain.AuthResult, error) {
	token, err := s.tokenSvc.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &domain.AuthResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}

func (s *AuthServiceImpl) checkUnique(ctx context.Context, username, email, name, phone string) error {
	if s.fieldTaken(ctx, s.userRepo.FindByUsername, username) {
		return domain.ErrUsernameTaken
	}
	if s.fieldTaken(ctx, s.userRepo.FindByEmail, email) {
		return domain.ErrEmailTaken
	}
	if s.fieldTaken(ctx, s.userRepo.FindByName, name) {
		return domain.ErrNameTaken
	}
	if s.fieldTaken(ctx, s.userRepo.FindByPhone, phone) {
		return domain.ErrPhoneTaken
	}
	return nil
}

func (s *AuthServiceImpl) fieldTaken(ctx context.Context, find func(context.Context, string) (*domain.User, error), value string) bool {
	existing, err := find(ctx, value)
	return err == nil && existing != nil
}
