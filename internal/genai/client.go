// Package genai wraps the Gemini API behind the small surface the app
// needs: a single generate(prompt) call with failure modes the handlers can
// tell apart (rate-limited, temporarily unavailable, malformed response).
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Distinguishable generation failures.
var (
	ErrRateLimited = errors.New("generation rate limited")
	ErrUnavailable = errors.New("generation service unavailable")
	ErrEmptyReply  = errors.New("generation returned no text")
)

// Client calls the Gemini text-generation API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client. The API key is required.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Generate sends a prompt and returns the response text. Errors are mapped
// to the package sentinels where the upstream failure is recognizable.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", classify(err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// classify maps upstream errors onto the package sentinels by status
// markers in the message, keeping the raw cause wrapped.
func classify(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case strings.Contains(msg, "503") || strings.Contains(msg, "UNAVAILABLE"):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("generate content: %w", err)
}
