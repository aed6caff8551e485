package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/planora-app/planora/internal/models"
)

// StatsRepository maintains the per-user running totals in user_stats.
type StatsRepository struct {
	stats *mongo.Collection
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(stats *mongo.Collection) *StatsRepository {
	return &StatsRepository{stats: stats}
}

// ApplySession increments the aggregate counters for one saved session.
// Counters only ever go up; they are never recomputed.
func (r *StatsRepository) ApplySession(ctx context.Context, userID string, studyTime, cyclesCompleted int, completed bool, at time.Time) error {
	completedInc := 0
	if completed {
		completedInc = 1
	}

	_, err := r.stats.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$inc": bson.M{
				"total_study_time":   studyTime,
				"total_cycles":       cyclesCompleted,
				"total_sessions":     1,
				"completed_sessions": completedInc,
			},
			"$set": bson.M{
				"last_study_date": at,
				"last_updated":    at,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update user stats: %w", err)
	}
	return nil
}

// Get returns a user's aggregate stats; a user with no sessions yet gets
// zeroed totals.
func (r *StatsRepository) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.stats.FindOne(ctx, bson.M{"user_id": userID}).Decode(&stats)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return &stats, nil
}
