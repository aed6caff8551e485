package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// MaxFlashcards caps how many cards one generation may return.
const MaxFlashcards = 10

// Flashcard is one generated study card.
type Flashcard struct {
	Type  string `json:"type"` // "concept" or "question"
	Front string `json:"front"`
	Back  string `json:"back"`
}

const flashcardPrompt = `You are an expert at creating educational flashcards. Generate concise, high-quality flashcards from the text below. Follow these rules:

1. Types of flashcards:
- Concept card: Front shows a concept/term/title, back shows definition, explanation, formula, example, or key details.
- Question card: Front shows a question testing active recall, back shows answer, explanation, formula, or example.

2. Rules:
- Each card must be self-contained. Reading front and back alone should allow learning and recall.
- Prioritize key concepts, definitions, formulas, rules, examples, cause-effect, and comparisons.
- Keep each card concise but complete; allow up to 50 words on back if needed.
- Include simplified examples or mnemonics when helpful.
- Avoid trivial or irrelevant details.
- Generate at least one card per significant concept or section in the text.

3. Response format (strict JSON):
[
  {
    "type": "concept",
    "front": "Concept or question text",
    "back": "Definition, explanation, formula, example, or answer"
  }
]

4. Always provide output in valid JSON following this format. Do not include extra commentary, numbering, preambles, or markdown symbols.

Text: %s`

// GenerateFlashcards turns study material into at most MaxFlashcards cards.
// A syntactically broken model reply degrades to a single error card rather
// than failing the request.
func (c *Client) GenerateFlashcards(ctx context.Context, text string) ([]Flashcard, error) {
	raw, err := c.Generate(ctx, fmt.Sprintf(flashcardPrompt, text))
	if err != nil {
		return nil, err
	}
	return ParseFlashcards(raw), nil
}

// ParseFlashcards decodes the model's JSON reply, tolerating a markdown
// code fence around it.
func ParseFlashcards(raw string) []Flashcard {
	cleaned := stripCodeFence(raw)

	var cards []Flashcard
	if err := json.Unmarshal([]byte(cleaned), &cards); err != nil || len(cards) == 0 {
		return []Flashcard{{Type: "concept", Front: "Error", Back: "Could not parse flashcards"}}
	}

	if len(cards) > MaxFlashcards {
		cards = cards[:MaxFlashcards]
	}
	return cards
}

// stripCodeFence removes a surrounding ```json ... ``` fence if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
