package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planora-app/planora/internal/config"
	"github.com/planora-app/planora/internal/middleware"
	"github.com/planora-app/planora/internal/models"
	"github.com/planora-app/planora/internal/repository"
)

// SessionHandler records and reads study sessions.
type SessionHandler struct {
	sessions *repository.SessionRepository
	users    *repository.UserRepository
	stats    *repository.StatsRepository
	cfg      *config.Config
	log      *zap.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *repository.SessionRepository, users *repository.UserRepository, stats *repository.StatsRepository, cfg *config.Config, log *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, users: users, stats: stats, cfg: cfg, log: log}
}

// SaveSessionRequest is the finalized-session payload sent by the timer.
type SaveSessionRequest struct {
	Subject             string `json:"subject" binding:"required"`
	StartTime           string `json:"start_time" binding:"required"`
	EndTime             string `json:"end_time" binding:"required"`
	TotalTime           int    `json:"total_time"`
	NoOfCyclesDecided   int    `json:"no_of_cycles_decided"`
	NoOfCyclesCompleted int    `json:"no_of_cycles_completed"`
	BreakTime           int    `json:"break_time"`
	PauseCount          int    `json:"pause_count"`
	TimerPerCycle       int    `json:"timer_per_cycle"`
	CompletionStatus    string `json:"completion_status" binding:"required"`
}

// parseClock reads a wall-clock timestamp without a zone offset and pins it
// to the given location.
func parseClock(value string, loc *time.Location) (time.Time, error) {
	value = strings.Replace(strings.TrimSpace(value), " ", "T", 1)
	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		time.RFC3339,
	} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func (req *SaveSessionRequest) validate() string {
	switch {
	case !models.ValidCompletionStatus(req.CompletionStatus):
		return "completion_status must be Completed, Not Completed or Partially Completed"
	case req.TotalTime < 0:
		return "total_time cannot be negative"
	case req.NoOfCyclesDecided < 1:
		return "no_of_cycles_decided must be at least 1"
	case req.NoOfCyclesCompleted < 0:
		return "no_of_cycles_completed cannot be negative"
	case req.NoOfCyclesCompleted > req.NoOfCyclesDecided:
		return "no_of_cycles_completed cannot exceed no_of_cycles_decided"
	case req.BreakTime < 0:
		return "break_time cannot be negative"
	case req.PauseCount < 0:
		return "pause_count cannot be negative"
	case req.TimerPerCycle < 0:
		return "timer_per_cycle cannot be negative"
	}
	return ""
}

// Save records a finished session and folds it into the running stats.
func (h *SessionHandler) Save(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	start, err := parseClock(req.StartTime, h.cfg.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time is not a valid timestamp"})
		return
	}
	end, err := parseClock(req.EndTime, h.cfg.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time is not a valid timestamp"})
		return
	}
	if !end.After(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error("user lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}
	if subjects := user.Subjects(); len(subjects) > 0 && !containsFold(subjects, req.Subject) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject is not in your study subjects"})
		return
	}

	// The calendar day is always the user's wall clock, even when the raw
	// timestamps are stored in UTC.
	date := start.Format("2006-01-02")
	if h.cfg.StoreUTC {
		start = start.UTC()
		end = end.UTC()
	}

	session := &models.Session{
		UserID:              userID,
		Subject:             req.Subject,
		StartTime:           start,
		EndTime:             end,
		TotalTime:           req.TotalTime,
		NoOfCyclesDecided:   req.NoOfCyclesDecided,
		NoOfCyclesCompleted: req.NoOfCyclesCompleted,
		BreakTime:           req.BreakTime,
		PauseCount:          req.PauseCount,
		TimerPerCycle:       req.TimerPerCycle,
		CompletionStatus:    req.CompletionStatus,
		Date:                date,
		CreatedAt:           time.Now().UTC(),
	}

	if err := h.sessions.Insert(c.Request.Context(), session); err != nil {
		h.log.Error("session insert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	// Running stats and the last-study marker are best effort; the session
	// itself is already durable.
	now := time.Now().UTC()
	completed := req.CompletionStatus == models.StatusCompleted
	if err := h.stats.ApplySession(c.Request.Context(), userID, req.TotalTime, req.NoOfCyclesCompleted, completed, now); err != nil {
		h.log.Warn("stats update failed", zap.String("user_id", userID), zap.Error(err))
	}
	if err := h.users.TouchLastStudy(c.Request.Context(), userID, now); err != nil {
		h.log.Warn("last-study update failed", zap.String("user_id", userID), zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"session_id": session.ID.Hex(),
		"message":    "Session saved successfully",
	})
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// sessionView is the display shape of one session row.
type sessionView struct {
	ID               string `json:"id"`
	Subject          string `json:"subject"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	StudiedTime      string `json:"studied_time"`
	Cycles           string `json:"cycles"`
	BreakTime        int    `json:"break_time"`
	PauseCount       int    `json:"pause_count"`
	CompletionStatus string `json:"completion_status"`
}

// formatDuration renders minutes as "2h 15m" (or "45m" under an hour).
func formatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func (h *SessionHandler) view(s models.Session) sessionView {
	return sessionView{
		ID:               s.ID.Hex(),
		Subject:          s.Subject,
		Date:             s.Date,
		StartTime:        s.StartTime.In(h.cfg.Location).Format("3:04 PM"),
		EndTime:          s.EndTime.In(h.cfg.Location).Format("3:04 PM"),
		StudiedTime:      formatDuration(s.TotalTime),
		Cycles:           fmt.Sprintf("%d/%d", s.NoOfCyclesCompleted, s.NoOfCyclesDecided),
		BreakTime:        s.BreakTime,
		PauseCount:       s.PauseCount,
		CompletionStatus: s.CompletionStatus,
	}
}

// List returns the user's sessions, optionally filtered by date, month, year
// or subject.
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	filter := repository.ListFilter{
		Date:    c.Query("date"),
		Subject: c.Query("subject"),
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
			return
		}
		filter.Month = m
	}
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
			return
		}
		filter.Year = y
	}

	sessions, err := h.sessions.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.log.Error("session list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, h.view(s))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views, "count": len(views)})
}

// Recent returns the latest sessions, newest first.
func (h *SessionHandler) Recent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := int64(10)
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	sessions, err := h.sessions.Recent(c.Request.Context(), userID, limit)
	if err != nil {
		h.log.Error("recent sessions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, h.view(s))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

// periodDays reads the ?days= query, default 7, capped at 365.
func periodDays(c *gin.Context) int {
	days := 7
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}
	return days
}

// Stats returns aggregate counters for the recent period.
func (h *SessionHandler) Stats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	days := periodDays(c)
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	stats, err := h.sessions.Stats(c.Request.Context(), userID, cutoff)
	if err != nil {
		h.log.Error("session stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"period_days": days, "stats": stats})
}

// Breakdown returns per-subject totals for the recent period.
func (h *SessionHandler) Breakdown(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	days := periodDays(c)
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	breakdown, err := h.sessions.BreakdownBySubject(c.Request.Context(), userID, cutoff)
	if err != nil {
		h.log.Error("subject breakdown failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"period_days": days, "subjects": breakdown})
}
