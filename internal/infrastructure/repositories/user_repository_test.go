package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/accountsvc/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&DBUser{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, repo domain.UserRepository) *domain.User {
	t.Helper()

	user := &domain.User{
		Username:     "johndoe",
		Name:         "John Doe",
		Email:        "john@example.com",
		Phone:        "1234567890",
		PasswordHash: "$2a$10$fakehash",
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestUserRepositoryImpl_Create(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	user := seedUser(t, repo)

	if user.ID == uuid.Nil {
		t.Error("expected an id to be assigned on create")
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected created_at to be populated")
	}

	found, err := repo.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Email != user.Email {
		t.Errorf("expected %s, got %s", user.Email, found.Email)
	}
}

func TestUserRepositoryImpl_Create_DuplicateKey(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(u *domain.User)
	}{
		{"duplicate username", func(u *domain.User) { u.Username = "johndoe" }},
		{"duplicate name", func(u *domain.User) { u.Name = "John Doe" }},
		{"duplicate email", func(u *domain.User) { u.Email = "john@example.com" }},
		{"duplicate phone", func(u *domain.User) { u.Phone = "1234567890" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewUserRepository(setupTestDB(t))
			seedUser(t, repo)

			dup := &domain.User{
				Username:     "otheruser",
				Name:         "Other User",
				Email:        "other@example.com",
				Phone:        "0987654321",
				PasswordHash: "$2a$10$fakehash",
			}
			tt.mutate(dup)

			err := repo.Create(context.Background(), dup)
			if !errors.Is(err, domain.ErrDuplicateRecord) {
				t.Fatalf("expected ErrDuplicateRecord, got %v", err)
			}
		})
	}
}

func TestUserRepositoryImpl_FindBy(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	user := seedUser(t, repo)

	tests := []struct {
		name string
		find func(ctx context.Context) (*domain.User, error)
	}{
		{"by email", func(ctx context.Context) (*domain.User, error) { return repo.FindByEmail(ctx, user.Email) }},
		{"by username", func(ctx context.Context) (*domain.User, error) { return repo.FindByUsername(ctx, user.Username) }},
		{"by name", func(ctx context.Context) (*domain.User, error) { return repo.FindByName(ctx, user.Name) }},
		{"by phone", func(ctx context.Context) (*domain.User, error) { return repo.FindByPhone(ctx, user.Phone) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := tt.find(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if found.ID != user.ID {
				t.Errorf("expected id %s, got %s", user.ID, found.ID)
			}
		})
	}
}

func TestUserRepositoryImpl_FindBy_NotFound(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	if _, err := repo.FindByID(context.Background(), uuid.New()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("FindByID: expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByEmail(context.Background(), "missing@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("FindByEmail: expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByUsername(context.Background(), "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("FindByUsername: expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryImpl_Update(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	user := seedUser(t, repo)

	user.Phone = "5556667778"
	user.PasswordHash = "$2a$10$newhash"
	if err := repo.Update(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Phone != "5556667778" {
		t.Errorf("expected updated phone, got %s", found.Phone)
	}
	if found.PasswordHash != "$2a$10$newhash" {
		t.Errorf("expected updated hash, got %s", found.PasswordHash)
	}
}

func TestUserRepositoryImpl_Update_ClearsChallenge(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	user := seedUser(t, repo)

	expiry := time.Now().Add(10 * time.Minute)
	user.OTPCode = "123456"
	user.OTPExpiresAt = &expiry
	if err := repo.Update(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.OTPCode != "123456" || found.OTPExpiresAt == nil {
		t.Fatal("expected challenge to round-trip")
	}

	// Zero values must overwrite; a challenge clear is a real write, not a
	// skipped field.
	found.ClearChallenge()
	if err := repo.Update(context.Background(), found); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err = repo.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.OTPCode != "" || found.OTPExpiresAt != nil {
		t.Errorf("expected challenge cleared, got code=%q expiry=%v", found.OTPCode, found.OTPExpiresAt)
	}
}

func TestUserRepositoryImpl_Update_DuplicateKey(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	seedUser(t, repo)

	second := &domain.User{
		Username:     "otheruser",
		Name:         "Other User",
		Email:        "other@example.com",
		Phone:        "0987654321",
		PasswordHash: "$2a$10$fakehash",
	}
	if err := repo.Create(context.Background(), second); err != nil {
		t.Fatalf("failed to create second user: %v", err)
	}

	second.Email = "john@example.com"
	err := repo.Update(context.Background(), second)
	if !errors.Is(err, domain.ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord, got %v", err)
	}
}

func TestUserRepositoryImpl_Delete(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	user := seedUser(t, repo)

	if err := repo.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Hard delete: the record is gone, not soft-deleted.
	if _, err := repo.FindByID(context.Background(), user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got %v", err)
	}

	// The identity is free for re-registration.
	again := &domain.User{
		Username:     user.Username,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		PasswordHash: "$2a$10$fakehash",
	}
	if err := repo.Create(context.Background(), again); err != nil {
		t.Errorf("expected re-registration after delete to succeed, got %v", err)
	}
}

func TestUserRepositoryImpl_Delete_NotFound(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	err := repo.Delete(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
