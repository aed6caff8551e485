package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/planora-app/planora/internal/models"
	"github.com/planora-app/planora/internal/repository"
)

// UserSource provides the user documents the engine needs.
type UserSource interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// SessionSource provides session history for a user.
type SessionSource interface {
	Recent(ctx context.Context, userID string, limit int64) ([]models.Session, error)
	Since(ctx context.Context, userID string, cutoff time.Time) ([]models.Session, error)
	CompletedDatesInRange(ctx context.Context, userID, from, to string) ([]string, error)
}

// BestTimeResult is the payload of the best-time query.
type BestTimeResult struct {
	BestTime string `json:"best_time"`
}

// Service answers the analytics queries by combining stored history with
// the pure calculation functions in this package.
type Service struct {
	users    UserSource
	sessions SessionSource
	loc      *time.Location
	now      func() time.Time
}

// NewService creates the analytics service. loc is the zone session
// wall-clock times are evaluated in.
func NewService(users UserSource, sessions SessionSource, loc *time.Location) *Service {
	return &Service{users: users, sessions: sessions, loc: loc, now: time.Now}
}

// BestTime computes the user's best study-time window, falling back to the
// questionnaire preference when history is too thin.
func (s *Service) BestTime(ctx context.Context, userID string) (BestTimeResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return BestTimeResult{BestTime: "Invalid user id format"}, nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			return BestTimeResult{BestTime: "No user found"}, nil
		}
		return BestTimeResult{}, fmt.Errorf("fetch user: %w", err)
	}

	sessions, err := s.sessions.Recent(ctx, userID, MaxSessionsToFetch)
	if err != nil {
		return BestTimeResult{}, fmt.Errorf("fetch sessions: %w", err)
	}

	if len(sessions) < MinSessionsRequired {
		return BestTimeResult{BestTime: PreferredTimeFallback(user.QnA)}, nil
	}

	window, ok := BestTimeWindow(s.localize(sessions))
	if !ok {
		return BestTimeResult{BestTime: PreferredTimeFallback(user.QnA)}, nil
	}
	return BestTimeResult{BestTime: window}, nil
}

// PrioritySubject recommends the next subject to study.
func (s *Service) PrioritySubject(ctx context.Context, userID string) (Recommendation, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return Recommendation{Subject: "Invalid user", Reason: "User ID format is incorrect"}, nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			return Recommendation{Subject: "No user found", Reason: "Start using Planora to get recommendations"}, nil
		}
		return Recommendation{}, fmt.Errorf("fetch user: %w", err)
	}

	sessions, err := s.sessions.Recent(ctx, userID, 15)
	if err != nil {
		return Recommendation{}, fmt.Errorf("fetch sessions: %w", err)
	}

	return PrioritySubject(sessions, user.Subjects(), s.now().In(s.loc)), nil
}

// Streak reports the user's current daily streak for this month.
func (s *Service) Streak(ctx context.Context, userID string) (StreakResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return StreakResult{Message: "Invalid user id"}, nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			return StreakResult{Message: "User not found"}, nil
		}
		return StreakResult{}, fmt.Errorf("fetch user: %w", err)
	}

	today := s.now().In(s.loc)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.loc)
	start := monthStart
	if join := user.JoinedAt().In(s.loc); join.After(monthStart) {
		start = join
	}

	dates, err := s.sessions.CompletedDatesInRange(ctx, userID,
		start.Format("2006-01-02"), today.Format("2006-01-02"))
	if err != nil {
		return StreakResult{}, fmt.Errorf("fetch session dates: %w", err)
	}

	return DailyStreak(dates, user.JoinedAt().In(s.loc), today), nil
}

// HourlyProductivity builds the top-hours report over the last `days` days.
func (s *Service) HourlyProductivity(ctx context.Context, userID string, days int) ([]HourSlot, int, error) {
	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	sessions, err := s.sessions.Since(ctx, userID, cutoff)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch sessions: %w", err)
	}
	return HourlyReport(s.localize(sessions)), len(sessions), nil
}

// localize shifts session times into the configured zone so bucket and hour
// math sees the user's wall clock regardless of how timestamps were stored.
func (s *Service) localize(sessions []models.Session) []models.Session {
	out := make([]models.Session, len(sessions))
	for i, sess := range sessions {
		sess.StartTime = sess.StartTime.In(s.loc)
		sess.EndTime = sess.EndTime.In(s.loc)
		out[i] = sess
	}
	return out
}
