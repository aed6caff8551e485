// Package quota tracks each user's daily token budget for AI features.
// Usage resets on the first reservation of a new UTC day, and the check and
// increment happen as one conditional store update so concurrent requests
// cannot overshoot the budget.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrQuotaExceeded means the reservation would push usage past the daily
// budget. The denial performs no mutation.
var ErrQuotaExceeded = errors.New("daily token quota exceeded")

// Store is the per-user quota state the tracker drives. Both operations
// must be atomic on the underlying store.
type Store interface {
	// ResetQuotaIfStale zeroes the usage counter and stamps the reset time,
	// but only when the stored reset date is missing or before now's day.
	ResetQuotaIfStale(ctx context.Context, userID string, now time.Time) error

	// ConsumeIfWithinQuota adds tokens to the usage counter only when the
	// result stays within the daily budget, reporting whether it did.
	ConsumeIfWithinQuota(ctx context.Context, userID string, tokens int) (bool, error)
}

// Tracker reserves tokens against users' daily quotas.
type Tracker struct {
	store Store
	now   func() time.Time
}

// NewTracker creates a quota tracker over the given store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Reserve takes tokens from the user's remaining daily budget. A stale
// usage counter is reset first; ErrQuotaExceeded is the only denial and
// leaves the counter untouched.
func (t *Tracker) Reserve(ctx context.Context, userID string, tokens int) error {
	if tokens < 0 {
		return fmt.Errorf("negative token count %d", tokens)
	}

	if err := t.store.ResetQuotaIfStale(ctx, userID, t.now()); err != nil {
		return fmt.Errorf("quota reset: %w", err)
	}

	ok, err := t.store.ConsumeIfWithinQuota(ctx, userID, tokens)
	if err != nil {
		return fmt.Errorf("quota consume: %w", err)
	}
	if !ok {
		return ErrQuotaExceeded
	}
	return nil
}
