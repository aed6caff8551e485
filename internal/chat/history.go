// Package chat keeps the study assistant's per-user conversation history in
// Redis: one capped list per user rather than process-global state, so
// history survives restarts and multiple instances see the same thread.
package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/planora-app/planora/internal/models"
)

// History is a bounded per-user conversation store.
type History struct {
	rdb *redis.Client
	max int64
}

// NewHistory creates a conversation store keeping at most max messages per
// user.
func NewHistory(rdb *redis.Client, max int) *History {
	return &History{rdb: rdb, max: int64(max)}
}

func key(userID string) string {
	return "chat:history:" + userID
}

// Append adds messages to the user's conversation, trimming the list to the
// configured bound.
func (h *History) Append(ctx context.Context, userID string, msgs ...models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal chat message: %w", err)
		}
		values = append(values, data)
	}

	pipe := h.rdb.TxPipeline()
	pipe.RPush(ctx, key(userID), values...)
	pipe.LTrim(ctx, key(userID), -h.max, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append chat history: %w", err)
	}
	return nil
}

// Recent returns up to n most recent messages in chronological order.
func (h *History) Recent(ctx context.Context, userID string, n int) ([]models.ChatMessage, error) {
	raw, err := h.rdb.LRange(ctx, key(userID), -int64(n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read chat history: %w", err)
	}

	msgs := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var m models.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Clear drops a user's conversation.
func (h *History) Clear(ctx context.Context, userID string) error {
	return h.rdb.Del(ctx, key(userID)).Err()
}
