package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planora-app/planora/internal/config"
	"github.com/planora-app/planora/internal/middleware"
	"github.com/planora-app/planora/internal/repository"
)

// allTimeFloor is the date filter used for the "all" range; no session
// predates the product.
const allTimeFloor = "2020-01-01"

// InsightsHandler serves the study-insights charts.
type InsightsHandler struct {
	sessions *repository.SessionRepository
	cfg      *config.Config
	log      *zap.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(sessions *repository.SessionRepository, cfg *config.Config, log *zap.Logger) *InsightsHandler {
	return &InsightsHandler{sessions: sessions, cfg: cfg, log: log}
}

// rangeStart maps a named range to its inclusive start date in the
// configured zone.
func (h *InsightsHandler) rangeStart(name string, now time.Time) (string, bool) {
	today := now.In(h.cfg.Location)
	switch name {
	case "day", "":
		return today.Format("2006-01-02"), true
	case "week":
		return today.AddDate(0, 0, -7).Format("2006-01-02"), true
	case "month":
		return today.AddDate(0, -1, 0).Format("2006-01-02"), true
	case "all":
		return allTimeFloor, true
	}
	return "", false
}

// HoursBySubject returns effective study hours per subject for a named range.
func (h *InsightsHandler) HoursBySubject(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rangeName := c.DefaultQuery("range", "week")
	from, ok := h.rangeStart(rangeName, time.Now())
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be day, week, month or all"})
		return
	}

	hours, err := h.sessions.HoursBySubject(c.Request.Context(), userID, from)
	if err != nil {
		h.log.Error("hours-by-subject failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"range": rangeName, "subjects": hours})
}

// progressPoint is one day on the progress chart.
type progressPoint struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// Progress returns daily study hours for the last 30 days, zero-filled so
// every day appears.
func (h *InsightsHandler) Progress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	today := time.Now().In(h.cfg.Location)
	from := today.AddDate(0, 0, -30).Format("2006-01-02")

	days, err := h.sessions.HoursByDay(c.Request.Context(), userID, from)
	if err != nil {
		h.log.Error("progress chart failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	byDate := make(map[string]float64, len(days))
	for _, d := range days {
		byDate[d.Date] = d.TotalHours
	}

	points := make([]progressPoint, 0, 31)
	for i := 30; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		points = append(points, progressPoint{Date: date, Hours: byDate[date]})
	}

	c.JSON(http.StatusOK, gin.H{"progress": points})
}

// Summary returns headline numbers: total study hours, current streak and
// session count.
func (h *InsightsHandler) Summary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	minutes, err := h.sessions.TotalEffectiveMinutes(ctx, userID)
	if err != nil {
		h.log.Error("summary totals failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	count, err := h.sessions.Count(ctx, userID)
	if err != nil {
		h.log.Error("summary count failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	today := time.Now().In(h.cfg.Location)
	from := today.AddDate(0, 0, -365).Format("2006-01-02")
	dates, err := h.sessions.DatesSince(ctx, userID, from)
	if err != nil {
		h.log.Error("summary streak failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_hours":    math.Round(float64(minutes)/60*10) / 10,
		"current_streak": consecutiveDays(dates, today),
		"total_sessions": count,
	})
}

// consecutiveDays counts backwards from today while every day is studied.
func consecutiveDays(studied []string, today time.Time) int {
	set := make(map[string]struct{}, len(studied))
	for _, d := range studied {
		set[d] = struct{}{}
	}

	streak := 0
	for day := today; ; day = day.AddDate(0, 0, -1) {
		if _, ok := set[day.Format("2006-01-02")]; !ok {
			break
		}
		streak++
	}
	return streak
}
