package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planora-app/planora/internal/config"
	"github.com/planora-app/planora/internal/middleware"
	"github.com/planora-app/planora/internal/models"
	"github.com/planora-app/planora/internal/repository"
)

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[!@#$%^&*]`)
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	users *repository.UserRepository
	cfg   *config.Config
	log   *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users *repository.UserRepository, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, cfg: cfg, log: log}
}

// SignupRequest is the registration payload.
type SignupRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// validatePassword enforces the account password policy.
func validatePassword(password string) string {
	switch {
	case len(password) < 8:
		return "Password must be at least 8 characters long"
	case !upperRe.MatchString(password):
		return "Password must contain at least one uppercase letter"
	case !lowerRe.MatchString(password):
		return "Password must contain at least one lowercase letter"
	case !digitRe.MatchString(password):
		return "Password must contain at least one number"
	case !specialRe.MatchString(password):
		return "Password must contain at least one special character (!@#$%^&*)"
	}
	return ""
}

// Signup registers a new account.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	user := &models.User{
		FullName:   req.FullName,
		Username:   req.Username,
		Email:      req.Email,
		Phone:      req.Phone,
		DailyQuota: h.cfg.DefaultDailyQuota,
	}

	if err := h.users.Create(c.Request.Context(), user, req.Password); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully! Please login.",
		"user_id": user.ID.Hex(),
	})
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.log.Error("login lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}
	if user == nil || !h.users.ValidatePassword(user, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := middleware.IssueToken(h.cfg, user.ID.Hex(), user.Username)
	if err != nil {
		h.log.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":                token,
		"user_id":              user.ID.Hex(),
		"username":             user.Username,
		"onboarding_completed": user.OnboardingCompleted,
		"expires_at":           time.Now().Add(h.cfg.JWTTTL).UTC(),
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error("profile lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":              user.ID.Hex(),
		"full_name":            user.FullName,
		"username":             user.Username,
		"email":                user.Email,
		"phone":                user.Phone,
		"onboarding_completed": user.OnboardingCompleted,
		"tokens_used":          user.TokensUsed,
		"daily_quota":          user.DailyQuota,
		"qna":                  user.QnA,
	})
}
