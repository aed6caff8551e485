package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planora-app/planora/internal/chat"
	"github.com/planora-app/planora/internal/config"
	"github.com/planora-app/planora/internal/genai"
	"github.com/planora-app/planora/internal/middleware"
	"github.com/planora-app/planora/internal/models"
	"github.com/planora-app/planora/internal/quota"
)

// ChatHandler runs the study assistant conversation.
type ChatHandler struct {
	gen     *genai.Client
	history *chat.History
	quota   *quota.Tracker
	cfg     *config.Config
	log     *zap.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(gen *genai.Client, history *chat.History, tracker *quota.Tracker, cfg *config.Config, log *zap.Logger) *ChatHandler {
	return &ChatHandler{gen: gen, history: history, quota: tracker, cfg: cfg, log: log}
}

// Send takes one user message and returns the assistant's reply.
func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	ctx := c.Request.Context()
	if err := h.quota.Reserve(ctx, userID, h.cfg.ChatTokenCost); err != nil {
		if errors.Is(err, quota.ErrQuotaExceeded) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Daily token limit reached. Try again tomorrow."})
			return
		}
		h.log.Error("quota reserve failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	userMsg := models.ChatMessage{Sender: "user", Message: req.Message, SentAt: time.Now().UTC()}
	if err := h.history.Append(ctx, userID, userMsg); err != nil {
		h.log.Error("chat history append failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	recent, err := h.history.Recent(ctx, userID, h.cfg.ChatHistoryLimit)
	if err != nil {
		h.log.Error("chat history read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	reply, err := h.gen.Reply(ctx, recent)
	if err != nil {
		switch {
		case errors.Is(err, genai.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "The assistant is busy right now. Please try again in a moment."})
		case errors.Is(err, genai.ErrRateLimited):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Too many requests right now. Please wait a moment and retry."})
		default:
			h.log.Error("assistant reply failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "The assistant could not answer. Please try again."})
		}
		return
	}

	botMsg := models.ChatMessage{Sender: "bot", Message: reply, SentAt: time.Now().UTC()}
	if err := h.history.Append(ctx, userID, botMsg); err != nil {
		h.log.Warn("chat history append failed", zap.String("user_id", userID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// History returns the recent conversation, oldest first.
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	msgs, err := h.history.Recent(c.Request.Context(), userID, h.cfg.ChatHistoryLimit)
	if err != nil {
		h.log.Error("chat history read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// Clear drops the conversation.
func (h *ChatHandler) Clear(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.history.Clear(c.Request.Context(), userID); err != nil {
		h.log.Error("chat history clear failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation cleared"})
}
