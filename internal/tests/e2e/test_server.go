package e2e

import (
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	httpx "github.com/you/accountsvc/internal/http"
	"github.com/you/accountsvc/internal/http/handlers"
	"github.com/you/accountsvc/internal/http/middleware"
	"github.com/you/accountsvc/internal/infrastructure/auth"
	"github.com/you/accountsvc/internal/infrastructure/ratelimit"
	"github.com/you/accountsvc/internal/infrastructure/repositories"
	"github.com/you/accountsvc/internal/mocks"
	"github.com/you/accountsvc/internal/services"
)

// TestServer runs the full HTTP surface against an in-memory store and an
// in-process redis, with outbound mail captured instead of delivered.
type TestServer struct {
	Router *gin.Engine
	Mailer *mocks.MockNotificationService
	Redis  *miniredis.Miniredis
	DB     *gorm.DB
}

// NewTestServer assembles the service the way the production container does,
// substituting only the storage backends and the mail transport.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&repositories.DBUser{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	mailer := mocks.NewMockNotificationService()

	userRepo := repositories.NewUserRepository(db)
	passwordSvc := auth.NewPasswordService()
	tokenSvc := auth.NewJWTService("e2e-test-secret", "accountsvc", time.Hour)
	otpSvc := services.NewOTPService(userRepo, mailer, services.OTPConfig{TTL: 10 * time.Minute})
	authSvc := services.NewAuthService(userRepo, passwordSvc, tokenSvc, otpSvc, time.Hour)
	limiter := ratelimit.NewRedisLimiter(redisClient, 5*time.Minute, 2)

	router := httpx.BuildRouter(
		handlers.NewAuthHandlers(authSvc),
		middleware.NewAuthMW(tokenSvc),
		middleware.NewRateLimitMW(limiter),
	)

	return &TestServer{
		Router: router,
		Mailer: mailer,
		Redis:  mr,
		DB:     db,
	}
}

var otpCodeRe = regexp.MustCompile(`>([0-9]{6})<`)

// LastOTPCode extracts the code from the most recently captured email.
func (ts *TestServer) LastOTPCode(t *testing.T) string {
	t.Helper()

	email, ok := ts.Mailer.LastEmail()
	if !ok {
		t.Fatal("no email was delivered")
	}
	m := otpCodeRe.FindStringSubmatch(email.Body)
	if m == nil {
		t.Fatalf("no OTP code found in email body:\n%s", email.Body)
	}
	return m[1]
}
