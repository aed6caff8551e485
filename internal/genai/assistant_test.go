package genai

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/planora-app/planora/internal/models"
)

func TestBuildAssistantPromptIncludesRules(t *testing.T) {
	prompt := BuildAssistantPrompt([]models.ChatMessage{
		{Sender: "user", Message: "What is photosynthesis?"},
	})

	assert.Contains(t, prompt, "Planora's Study Assistant")
	assert.Contains(t, prompt, "Answer only study-related questions")
	assert.True(t, strings.HasSuffix(prompt, "user: What is photosynthesis?\n"))
}

func TestBuildAssistantPromptKeepsOnlyRecentTurns(t *testing.T) {
	var history []models.ChatMessage
	for i := 0; i < 10; i++ {
		history = append(history, models.ChatMessage{
			Sender:  "user",
			Message: fmt.Sprintf("question %d", i),
		})
	}

	prompt := BuildAssistantPrompt(history)

	assert.NotContains(t, prompt, "question 3")
	for i := 4; i < 10; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("question %d", i))
	}
}

func TestBuildAssistantPromptInterleavesSenders(t *testing.T) {
	prompt := BuildAssistantPrompt([]models.ChatMessage{
		{Sender: "user", Message: "Define entropy"},
		{Sender: "bot", Message: "Entropy measures disorder."},
		{Sender: "user", Message: "Give an example"},
	})

	userIdx := strings.Index(prompt, "user: Define entropy")
	botIdx := strings.Index(prompt, "bot: Entropy measures disorder.")
	lastIdx := strings.Index(prompt, "user: Give an example")

	assert.True(t, userIdx >= 0 && botIdx > userIdx && lastIdx > botIdx)
}
