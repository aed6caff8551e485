package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora-app/planora/internal/models"
	"github.com/planora-app/planora/internal/repository"
)

type fakeUsers struct {
	user *models.User
	err  error
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.user, f.err
}

type fakeSessions struct {
	recent []models.Session
	dates  []string
}

func (f *fakeSessions) Recent(ctx context.Context, userID string, limit int64) ([]models.Session, error) {
	if int64(len(f.recent)) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeSessions) Since(ctx context.Context, userID string, cutoff time.Time) ([]models.Session, error) {
	return f.recent, nil
}

func (f *fakeSessions) CompletedDatesInRange(ctx context.Context, userID, from, to string) ([]string, error) {
	return f.dates, nil
}

func TestBestTimeInvalidUserID(t *testing.T) {
	svc := NewService(&fakeUsers{err: repository.ErrInvalidID}, &fakeSessions{}, time.UTC)

	res, err := svc.BestTime(context.Background(), "nope")
	require.NoError(t, err)
	assert.Equal(t, "Invalid user id format", res.BestTime)
}

func TestBestTimeUnknownUser(t *testing.T) {
	svc := NewService(&fakeUsers{err: repository.ErrNotFound}, &fakeSessions{}, time.UTC)

	res, err := svc.BestTime(context.Background(), "652f8a1b9c3d4e5f6a7b8c9d")
	require.NoError(t, err)
	assert.Equal(t, "No user found", res.BestTime)
}

func TestBestTimeThinHistoryFallsBack(t *testing.T) {
	user := &models.User{QnA: &models.QnA{MorningEveningPerson: "morning"}}
	sessions := &fakeSessions{recent: make([]models.Session, MinSessionsRequired-1)}
	svc := NewService(&fakeUsers{user: user}, sessions, time.UTC)

	res, err := svc.BestTime(context.Background(), "652f8a1b9c3d4e5f6a7b8c9d")
	require.NoError(t, err)
	assert.Equal(t, "Morning (6:00 AM – 10:00 AM)", res.BestTime)
}

func TestBestTimeComputesFromHistory(t *testing.T) {
	var recent []models.Session
	start := time.Date(2026, 8, 1, 7, 0, 0, 0, time.UTC)
	for i := 0; i < MinSessionsRequired; i++ {
		recent = append(recent, models.Session{
			StartTime: start.AddDate(0, 0, i),
			EndTime:   start.AddDate(0, 0, i).Add(time.Hour),
		})
	}
	svc := NewService(&fakeUsers{user: &models.User{}}, &fakeSessions{recent: recent}, time.UTC)

	res, err := svc.BestTime(context.Background(), "652f8a1b9c3d4e5f6a7b8c9d")
	require.NoError(t, err)
	assert.Equal(t, "7:00 AM to 8:00 AM", res.BestTime)
}

func TestPrioritySubjectInvalidUser(t *testing.T) {
	svc := NewService(&fakeUsers{err: repository.ErrInvalidID}, &fakeSessions{}, time.UTC)

	rec, err := svc.PrioritySubject(context.Background(), "nope")
	require.NoError(t, err)
	assert.Equal(t, "Invalid user", rec.Subject)
	assert.Equal(t, "User ID format is incorrect", rec.Reason)
}

func TestPrioritySubjectUnknownUser(t *testing.T) {
	svc := NewService(&fakeUsers{err: repository.ErrNotFound}, &fakeSessions{}, time.UTC)

	rec, err := svc.PrioritySubject(context.Background(), "652f8a1b9c3d4e5f6a7b8c9d")
	require.NoError(t, err)
	assert.Equal(t, "No user found", rec.Subject)
	assert.Equal(t, "Start using Planora to get recommendations", rec.Reason)
}

func TestStreakUsesJoinDateWithinMonth(t *testing.T) {
	now := time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)
	join := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	user := &models.User{JoinDate: &join}

	svc := NewService(&fakeUsers{user: user}, &fakeSessions{dates: []string{"2026-08-30", "2026-08-31"}}, time.UTC)
	svc.now = func() time.Time { return now }

	res, err := svc.Streak(context.Background(), "652f8a1b9c3d4e5f6a7b8c9d")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Streak)
	assert.Equal(t, 2, res.Missed)
}
