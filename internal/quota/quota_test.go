package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore mimics the conditional store semantics in memory.
type memStore struct {
	used      int
	budget    int
	lastReset *time.Time

	resetCalls   int
	consumeCalls int
}

func (m *memStore) ResetQuotaIfStale(ctx context.Context, userID string, now time.Time) error {
	m.resetCalls++
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if m.lastReset == nil || m.lastReset.Before(dayStart) {
		m.used = 0
		m.lastReset = &now
	}
	return nil
}

func (m *memStore) ConsumeIfWithinQuota(ctx context.Context, userID string, tokens int) (bool, error) {
	m.consumeCalls++
	if m.used+tokens > m.budget {
		return false, nil
	}
	m.used += tokens
	return true, nil
}

func newTestTracker(store Store, now time.Time) *Tracker {
	t := NewTracker(store)
	t.now = func() time.Time { return now }
	return t
}

func TestReserveWithinBudget(t *testing.T) {
	store := &memStore{budget: 500}
	tracker := newTestTracker(store, time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	require.NoError(t, tracker.Reserve(context.Background(), "u1", 50))
	assert.Equal(t, 50, store.used)
}

func TestReserveFillsBudgetExactly(t *testing.T) {
	store := &memStore{budget: 500}
	tracker := newTestTracker(store, time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	for i := 0; i < 10; i++ {
		require.NoError(t, tracker.Reserve(context.Background(), "u1", 50))
	}
	assert.Equal(t, 500, store.used)

	err := tracker.Reserve(context.Background(), "u1", 1)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	// A denial must not move the counter.
	assert.Equal(t, 500, store.used)
}

func TestReserveDenialLeavesCounterUntouched(t *testing.T) {
	store := &memStore{budget: 100, used: 80}
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	store.lastReset = &now
	tracker := newTestTracker(store, now)

	err := tracker.Reserve(context.Background(), "u1", 50)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 80, store.used)

	require.NoError(t, tracker.Reserve(context.Background(), "u1", 20))
	assert.Equal(t, 100, store.used)
}

func TestReserveResetsOnNewDay(t *testing.T) {
	yesterday := time.Date(2026, 8, 30, 23, 50, 0, 0, time.UTC)
	store := &memStore{budget: 100, used: 100, lastReset: &yesterday}
	tracker := newTestTracker(store, time.Date(2026, 8, 31, 0, 5, 0, 0, time.UTC))

	require.NoError(t, tracker.Reserve(context.Background(), "u1", 60))
	assert.Equal(t, 60, store.used)
}

func TestReserveSameDayKeepsCounter(t *testing.T) {
	earlier := time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC)
	store := &memStore{budget: 100, used: 40, lastReset: &earlier}
	tracker := newTestTracker(store, time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC))

	require.NoError(t, tracker.Reserve(context.Background(), "u1", 60))
	assert.Equal(t, 100, store.used)
}

func TestReserveRejectsNegativeTokens(t *testing.T) {
	store := &memStore{budget: 100}
	tracker := newTestTracker(store, time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	err := tracker.Reserve(context.Background(), "u1", -5)
	require.Error(t, err)
	assert.Zero(t, store.resetCalls)
	assert.Zero(t, store.consumeCalls)
}

func TestReserveZeroTokensAllowed(t *testing.T) {
	store := &memStore{budget: 0}
	tracker := newTestTracker(store, time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	require.NoError(t, tracker.Reserve(context.Background(), "u1", 0))
}
