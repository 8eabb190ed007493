package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/http/middleware"
)

// AuthHandlers handles the account HTTP surface
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents the OTP-gated password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
}

// UpdateDetailsRequest carries the optional profile fields
type UpdateDetailsRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// ForgotPasswordRequest represents the unauthenticated reset initiation
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest represents the unauthenticated reset completion
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": result.Token})
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// A login against an unknown email reads as bad credentials, same as a
		// wrong password; the email is not confirmed to exist here.
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials, enter a valid email"})
			return
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials, enter a valid password"})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": result.Token, "msg": "Logged in successfully"})
}

// RequestChangePassword issues an OTP challenge for an authenticated password change
func (h *AuthHandlers) RequestChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.authSvc.RequestPasswordChange(c.Request.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrOTPAlreadyActive) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "You have already requested an OTP. Please wait before requesting a new one."})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "OTP sent to your email"})
}

// ChangePassword consumes the OTP challenge and rotates the password
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword, req.OTP); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Password updated successfully"})
}

// ResendOTP issues a fresh challenge unconditionally
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.authSvc.ResendOTP(c.Request.Context(), userID); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "New OTP sent to your email"})
}

// DeleteUser removes the authenticated account permanently
func (h *AuthHandlers) DeleteUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.authSvc.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "User deleted successfully"})
}

// UpdateDetails updates only the supplied profile fields
func (h *AuthHandlers) UpdateDetails(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	update := domain.ProfileUpdate{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := h.authSvc.UpdateProfile(c.Request.Context(), userID, update); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "User details updated successfully"})
}

// ForgotPassword initiates the unauthenticated reset flow
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "OTP sent to your email for password reset"})
}

// ResetPassword completes the unauthenticated reset flow
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Email, req.NewPassword, req.OTP); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Password reset successfully"})
}

// GetUserDetails returns the authenticated user's record minus the password hash
func (h *AuthHandlers) GetUserDetails(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
		"email":    user.Email,
		"phone":    user.Phone,
	})
}

// writeError maps domain failures to responses. Unexpected errors surface as a
// generic server error; internals are logged, never leaked.
func (h *AuthHandlers) writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrNameTaken),
		errors.Is(err, domain.ErrPhoneTaken),
		errors.Is(err, domain.ErrDuplicateRecord):
		c.JSON(http.StatusBadRequest, gin.H{"msg": conflictMessage(err)})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
	case errors.Is(err, domain.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "OTP has expired"})
	case errors.Is(err, domain.ErrOTPInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid OTP"})
	case errors.Is(err, domain.ErrBadOldPassword):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid current password"})
	case errors.Is(err, domain.ErrSameAsOldPassword):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "New password cannot be the same as the current password. Please choose a different one."})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials"})
	case errors.Is(err, domain.ErrDeliveryFailed):
		log.Printf("otp delivery failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Failed to deliver OTP"})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		return "Username already exists, try another one!"
	case errors.Is(err, domain.ErrEmailTaken):
		return "User with this email already exists!"
	case errors.Is(err, domain.ErrNameTaken):
		return "User with this name already exists!"
	case errors.Is(err, domain.ErrPhoneTaken):
		return "User with this phone number already exists!"
	default:
		return "Record already exists"
	}
}

// currentUserID pulls the authenticated user id set by the JWT middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User ID not found in context"})
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid user ID"})
		return uuid.Nil, false
	}
	return userID, true
}
