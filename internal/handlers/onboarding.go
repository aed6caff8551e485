package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/planora-app/planora/internal/middleware"
	"github.com/planora-app/planora/internal/models"
	"github.com/planora-app/planora/internal/repository"
)

// OnboardingHandler records the signup questionnaire.
type OnboardingHandler struct {
	users *repository.UserRepository
	prefs *repository.PreferenceRepository
	log   *zap.Logger
}

// NewOnboardingHandler creates a new onboarding handler.
func NewOnboardingHandler(users *repository.UserRepository, prefs *repository.PreferenceRepository, log *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{users: users, prefs: prefs, log: log}
}

// QuestionnaireRequest is the onboarding payload.
type QuestionnaireRequest struct {
	Age                  int      `json:"age" binding:"required"`
	Subjects             []string `json:"subjects" binding:"required,min=1"`
	SleepSchedule        string   `json:"sleep_schedule"`
	MorningEveningPerson string   `json:"morning_evening_person"`
	Motivation           string   `json:"motivation"`
	Difficulties         []string `json:"difficulties"`
}

// Submit stores the questionnaire answers and marks onboarding complete.
func (h *OnboardingHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req QuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	qna := &models.QnA{
		Age:                  req.Age,
		Subjects:             req.Subjects,
		SleepSchedule:        req.SleepSchedule,
		MorningEveningPerson: req.MorningEveningPerson,
		Motivation:           req.Motivation,
		Difficulties:         req.Difficulties,
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	now := time.Now().UTC()
	pref := &models.Preference{
		UserID:               oid,
		Age:                  req.Age,
		Subjects:             req.Subjects,
		SleepSchedule:        req.SleepSchedule,
		MorningEveningPerson: req.MorningEveningPerson,
		Motivation:           req.Motivation,
		Difficulties:         req.Difficulties,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := h.prefs.Insert(c.Request.Context(), pref); err != nil {
		h.log.Error("preference insert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	if err := h.users.CompleteOnboarding(c.Request.Context(), userID, qna); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error("onboarding update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Onboarding completed successfully!"})
}
