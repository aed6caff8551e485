package genai

import (
	"context"
	"strings"

	"github.com/planora-app/planora/internal/models"
)

// contextTurns is how many recent messages ride along as conversation
// context.
const contextTurns = 6

const assistantRules = `You are Planora's Study Assistant, an AI tutor. Follow these rules strictly:
Answer only study-related questions; do not discuss unrelated topics.
Keep answers concise, clear, and easy to understand.
Provide examples only if they help explain the concept.
Use simple language; avoid unnecessary jargon.
Do not answer anything beyond the scope of study help.
Maintain context of the ongoing session.

Conversation so far:
`

// BuildAssistantPrompt assembles the tutor system prompt with the tail of
// the conversation. history must already include the latest user message.
func BuildAssistantPrompt(history []models.ChatMessage) string {
	var b strings.Builder
	b.WriteString(assistantRules)

	start := 0
	if len(history) > contextTurns {
		start = len(history) - contextTurns
	}
	for _, m := range history[start:] {
		b.WriteString(m.Sender)
		b.WriteString(": ")
		b.WriteString(m.Message)
		b.WriteString("\n")
	}
	return b.String()
}

// Reply generates the assistant's answer for the given conversation tail.
func (c *Client) Reply(ctx context.Context, history []models.ChatMessage) (string, error) {
	return c.Generate(ctx, BuildAssistantPrompt(history))
}
