package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/accountsvc/internal/http/handlers"
	"github.com/you/accountsvc/internal/http/middleware"
)

// BuildRouter wires the account endpoints. The two OTP-issuing routes carry
// independent per-address rate limiters in front of authentication.
func BuildRouter(ah *handlers.AuthHandlers, jwtmw *middleware.AuthMW, rl *middleware.RateLimitMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/api/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/forget-pass-word", ah.ForgotPassword)
	auth.PUT("/reset-password", ah.ResetPassword)

	auth.POST("/request-change-password", rl.Limit("request-change-password"), jwtmw.WithJWT(), ah.RequestChangePassword)
	auth.POST("/resend-otp", rl.Limit("resend-otp"), jwtmw.WithJWT(), ah.ResendOTP)

	protected := auth.Group("").Use(jwtmw.WithJWT())
	protected.PUT("/change-password", ah.ChangePassword)
	protected.DELETE("/delete-user", ah.DeleteUser)
	protected.PUT("/update-details", ah.UpdateDetails)
	protected.GET("/get-user-details", ah.GetUserDetails)

	return r
}
