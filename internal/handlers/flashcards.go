package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planora-app/planora/internal/archive"
	"github.com/planora-app/planora/internal/config"
	"github.com/planora-app/planora/internal/genai"
	"github.com/planora-app/planora/internal/middleware"
	"github.com/planora-app/planora/internal/quota"
)

// maxUploadBytes bounds the study-material upload size.
const maxUploadBytes = 1 << 20

// FlashcardHandler turns uploaded study material into flashcards.
type FlashcardHandler struct {
	gen     *genai.Client
	quota   *quota.Tracker
	archive *archive.Service
	cfg     *config.Config
	log     *zap.Logger
}

// NewFlashcardHandler creates a new flashcard handler.
func NewFlashcardHandler(gen *genai.Client, tracker *quota.Tracker, arch *archive.Service, cfg *config.Config, log *zap.Logger) *FlashcardHandler {
	return &FlashcardHandler{gen: gen, quota: tracker, archive: arch, cfg: cfg, log: log}
}

// readMaterial extracts the source text from either a multipart file upload
// or a JSON body with a "text" field.
func (h *FlashcardHandler) readMaterial(c *gin.Context) (text, filename string, errMsg string) {
	if file, err := c.FormFile("file"); err == nil {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if ext != ".txt" && ext != ".md" {
			return "", "", "only .txt and .md files are supported"
		}
		if file.Size > maxUploadBytes {
			return "", "", "file is too large (1 MB max)"
		}

		f, err := file.Open()
		if err != nil {
			return "", "", "could not read uploaded file"
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
		if err != nil || len(data) > maxUploadBytes {
			return "", "", "could not read uploaded file"
		}
		return string(data), file.Filename, ""
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return "", "", "provide a .txt/.md file or a non-empty text field"
	}
	return req.Text, "pasted-text.txt", ""
}

// Generate creates flashcards from uploaded or pasted study material.
func (h *FlashcardHandler) Generate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	text, filename, errMsg := h.readMaterial(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the uploaded file is empty"})
		return
	}

	// Archival is best effort; a storage outage should not block generation.
	if h.archive != nil {
		if key, err := h.archive.Put(c.Request.Context(), userID, filename, "text/plain", []byte(text)); err != nil {
			h.log.Warn("document archive failed", zap.String("user_id", userID), zap.Error(err))
		} else {
			h.log.Info("document archived", zap.String("user_id", userID), zap.String("key", key))
		}
	}

	if err := h.quota.Reserve(c.Request.Context(), userID, h.cfg.CardTokenCost); err != nil {
		if errors.Is(err, quota.ErrQuotaExceeded) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Daily token limit reached. Try again tomorrow."})
			return
		}
		h.log.Error("quota reserve failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	cards, err := h.gen.GenerateFlashcards(c.Request.Context(), text)
	if err != nil {
		h.respondGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"flashcards": cards, "count": len(cards)})
}

// respondGenerationError maps model-call failures onto user-facing replies.
func (h *FlashcardHandler) respondGenerationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, genai.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "The flashcard generator is busy right now. Please try again in a moment."})
	case errors.Is(err, genai.ErrRateLimited):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Too many requests right now. Please wait a moment and retry."})
	default:
		h.log.Error("flashcard generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not generate flashcards. Please try again."})
	}
}
