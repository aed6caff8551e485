package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planora-app/planora/internal/config"
	"github.com/planora-app/planora/internal/middleware"
	"github.com/planora-app/planora/internal/models"
	"github.com/planora-app/planora/internal/repository"
)

// TaskHandler manages the user's todo list.
type TaskHandler struct {
	tasks *repository.TaskRepository
	cfg   *config.Config
	log   *zap.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(tasks *repository.TaskRepository, cfg *config.Config, log *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, cfg: cfg, log: log}
}

func validPriority(p string) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

// parseDeadline reads a deadline timestamp, with or without seconds, pinned
// to the configured zone.
func parseDeadline(value string, loc *time.Location) (time.Time, error) {
	return parseClock(value, loc)
}

// CreateTaskRequest is the new-task payload.
type CreateTaskRequest struct {
	Name     string   `json:"name" binding:"required"`
	Priority string   `json:"priority"`
	Duration *float64 `json:"duration"`
	Deadline string   `json:"deadline"`
}

// Create adds a new task.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Priority != "" && !validPriority(req.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be Low, Medium or High"})
		return
	}
	if req.Duration != nil && *req.Duration < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration cannot be negative"})
		return
	}

	task := &models.Task{
		UserID:   userID,
		Name:     req.Name,
		Priority: req.Priority,
		Duration: req.Duration,
	}
	if req.Deadline != "" {
		deadline, err := parseDeadline(req.Deadline, h.cfg.Location)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "deadline is not a valid timestamp"})
			return
		}
		task.Deadline = &deadline
	}

	if err := h.tasks.Create(c.Request.Context(), task); err != nil {
		h.log.Error("task create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Task created", "task": task})
}

// List returns all tasks for the user, pending first.
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tasks, err := h.tasks.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("task list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// Top returns the next few pending tasks for the dashboard.
func (h *TaskHandler) Top(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tasks, err := h.tasks.TopIncomplete(c.Request.Context(), userID, 3)
	if err != nil {
		h.log.Error("top tasks failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// parseTaskUpdate turns a raw JSON body into a partial update. Keys that are
// absent leave the field alone; a null duration or deadline clears it.
func parseTaskUpdate(body map[string]json.RawMessage, loc *time.Location) (repository.TaskUpdate, error) {
	var u repository.TaskUpdate

	if raw, ok := body["name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil || name == "" {
			return u, fmt.Errorf("name must be a non-empty string")
		}
		u.Name = &name
	}
	if raw, ok := body["priority"]; ok {
		var p string
		if err := json.Unmarshal(raw, &p); err != nil || !validPriority(p) {
			return u, fmt.Errorf("priority must be Low, Medium or High")
		}
		u.Priority = &p
	}
	if raw, ok := body["duration"]; ok {
		u.DurationSet = true
		if string(raw) != "null" {
			var d float64
			if err := json.Unmarshal(raw, &d); err != nil || d < 0 {
				return u, fmt.Errorf("duration must be a non-negative number")
			}
			u.Duration = &d
		}
	}
	if raw, ok := body["deadline"]; ok {
		u.DeadlineSet = true
		if string(raw) != "null" {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return u, fmt.Errorf("deadline must be a timestamp string or null")
			}
			if s != "" {
				t, err := parseDeadline(s, loc)
				if err != nil {
					return u, fmt.Errorf("deadline is not a valid timestamp")
				}
				u.Deadline = &t
			}
		}
	}
	if raw, ok := body["completed"]; ok {
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return u, fmt.Errorf("completed must be a boolean")
		}
		u.Completed = &b
	}

	return u, nil
}

// Update applies a partial edit to one task.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	update, err := parseTaskUpdate(body, h.cfg.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), c.Param("id"), userID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		case errors.Is(err, repository.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		default:
			h.log.Error("task update failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated", "task": task})
}

// Toggle flips a task's completion flag.
func (h *TaskHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := h.tasks.SetCompleted(c.Request.Context(), c.Param("id"), userID, req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		default:
			h.log.Error("task toggle failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated", "task": task})
}

// Delete removes one task.
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		default:
			h.log.Error("task delete failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
