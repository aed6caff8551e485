package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planora-app/planora/internal/analytics"
	"github.com/planora-app/planora/internal/middleware"
)

// AnalyticsHandler serves the study-pattern queries.
type AnalyticsHandler struct {
	svc *analytics.Service
	log *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(svc *analytics.Service, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: log}
}

// BestTime returns the user's most productive time-of-day window.
func (h *AnalyticsHandler) BestTime(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.svc.BestTime(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("best-time query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}
	c.JSON(http.StatusOK, result)
}

// PrioritySubject returns which subject to study next and why.
func (h *AnalyticsHandler) PrioritySubject(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rec, err := h.svc.PrioritySubject(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("priority-subject query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Streak returns the current-month daily streak.
func (h *AnalyticsHandler) Streak(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.svc.Streak(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("streak query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Hourly returns the most productive hours of the day over a recent window.
func (h *AnalyticsHandler) Hourly(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	days := 30
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}

	slots, total, err := h.svc.HourlyProductivity(c.Request.Context(), userID, days)
	if err != nil {
		h.log.Error("hourly report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period_days":    days,
		"total_sessions": total,
		"top_hours":      slots,
	})
}
