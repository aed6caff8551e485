package repository

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/planora-app/planora/internal/models"
)

// countedStatuses are the completion statuses insight aggregations include.
var countedStatuses = bson.A{
	models.StatusCompleted,
	models.StatusNotCompleted,
	models.StatusPartiallyCompleted,
	models.StatusInterrupted,
}

// SessionRepository handles session document operations.
type SessionRepository struct {
	sessions *mongo.Collection
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(sessions *mongo.Collection) *SessionRepository {
	return &SessionRepository{sessions: sessions}
}

// Insert stores a finalized session.
func (r *SessionRepository) Insert(ctx context.Context, s *models.Session) error {
	res, err := r.sessions.InsertOne(ctx, s)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return nil
}

// Recent returns up to limit sessions, most recent first by start time.
func (r *SessionRepository) Recent(ctx context.Context, userID string, limit int64) ([]models.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}}).SetLimit(limit)
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

// Since returns sessions created at or after cutoff.
func (r *SessionRepository) Since(ctx context.Context, userID string, cutoff time.Time) ([]models.Session, error) {
	return r.find(ctx, bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": cutoff},
	}, nil)
}

// CompletedDatesInRange returns the distinct calendar days (YYYY-MM-DD,
// inclusive range) on which the user finished a session with status
// Completed.
func (r *SessionRepository) CompletedDatesInRange(ctx context.Context, userID, from, to string) ([]string, error) {
	values, err := r.sessions.Distinct(ctx, "date", bson.M{
		"user_id":           userID,
		"date":              bson.M{"$gte": from, "$lte": to},
		"completion_status": models.StatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session dates: %w", err)
	}

	dates := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			dates = append(dates, s)
		}
	}
	return dates, nil
}

// DatesSince returns the distinct studied days (any counted status) on or
// after the given date string.
func (r *SessionRepository) DatesSince(ctx context.Context, userID, from string) ([]string, error) {
	values, err := r.sessions.Distinct(ctx, "date", bson.M{
		"user_id":           userID,
		"date":              bson.M{"$gte": from},
		"completion_status": bson.M{"$in": countedStatuses},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session dates: %w", err)
	}

	dates := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			dates = append(dates, s)
		}
	}
	return dates, nil
}

// ListFilter narrows the session listing. Zero values mean no filtering.
type ListFilter struct {
	Date    string // exact calendar day, YYYY-MM-DD
	Month   int    // 1..12, current year
	Year    int
	Subject string // case-insensitive exact match
}

// List returns a user's sessions, most recent first, optionally filtered.
func (r *SessionRepository) List(ctx context.Context, userID string, f ListFilter) ([]models.Session, error) {
	query := bson.M{"user_id": userID}
	switch {
	case f.Date != "":
		query["date"] = f.Date
	case f.Month >= 1 && f.Month <= 12:
		year := time.Now().Year()
		from := fmt.Sprintf("%04d-%02d-01", year, f.Month)
		to := fmt.Sprintf("%04d-%02d-31", year, f.Month)
		query["date"] = bson.M{"$gte": from, "$lte": to}
	case f.Year != 0:
		query["date"] = bson.M{
			"$gte": fmt.Sprintf("%04d-01-01", f.Year),
			"$lte": fmt.Sprintf("%04d-12-31", f.Year),
		}
	}
	if f.Subject != "" {
		query["subject"] = bson.M{
			"$regex":   "^" + regexp.QuoteMeta(f.Subject) + "$",
			"$options": "i",
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})
	return r.find(ctx, query, opts)
}

func (r *SessionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Session, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.sessions.Find(ctx, filter, opts)
	} else {
		cursor, err = r.sessions.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

// PeriodStats are aggregate numbers for a recent time window.
type PeriodStats struct {
	TotalSessions      int     `bson:"total_sessions" json:"total_sessions"`
	TotalTime          int     `bson:"total_time" json:"total_time"`
	TotalCycles        int     `bson:"total_cycles" json:"total_cycles"`
	CompletedSessions  int     `bson:"completed_sessions" json:"completed_sessions"`
	TotalPauses        int     `bson:"total_pauses" json:"total_pauses"`
	AvgTimePerSession  float64 `bson:"-" json:"avg_time_per_session"`
	CompletionRate     float64 `bson:"-" json:"completion_rate"`
	AvgCyclesPerSession float64 `bson:"-" json:"avg_cycles_per_session"`
}

// Stats aggregates session counters for sessions created since cutoff.
func (r *SessionRepository) Stats(ctx context.Context, userID string, cutoff time.Time) (PeriodStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":    userID,
			"created_at": bson.M{"$gte": cutoff},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total_sessions": bson.M{"$sum": 1},
			"total_time":     bson.M{"$sum": "$total_time"},
			"total_cycles":   bson.M{"$sum": "$no_of_cycles_completed"},
			"completed_sessions": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$completion_status", models.StatusCompleted}}, 1, 0,
			}}},
			"total_pauses": bson.M{"$sum": "$pause_count"},
		}}},
	}

	var out []PeriodStats
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return PeriodStats{}, err
	}
	if len(out) == 0 {
		return PeriodStats{}, nil
	}

	stats := out[0]
	if stats.TotalSessions > 0 {
		n := float64(stats.TotalSessions)
		stats.AvgTimePerSession = round1(float64(stats.TotalTime) / n)
		stats.CompletionRate = round1(float64(stats.CompletedSessions) / n * 100)
		stats.AvgCyclesPerSession = round1(float64(stats.TotalCycles) / n)
	}
	return stats, nil
}

// SubjectBreakdown is per-subject study time over a period.
type SubjectBreakdown struct {
	Subject           string  `bson:"_id" json:"subject"`
	TotalTime         int     `bson:"total_time" json:"total_time"`
	SessionCount      int     `bson:"session_count" json:"session_count"`
	CyclesCompleted   int     `bson:"cycles_completed" json:"cycles_completed"`
	AvgTimePerSession float64 `bson:"-" json:"avg_time_per_session"`
}

// BreakdownBySubject groups session time per subject since cutoff, most
// studied first.
func (r *SessionRepository) BreakdownBySubject(ctx context.Context, userID string, cutoff time.Time) ([]SubjectBreakdown, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":    userID,
			"created_at": bson.M{"$gte": cutoff},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":              "$subject",
			"total_time":       bson.M{"$sum": "$total_time"},
			"session_count":    bson.M{"$sum": 1},
			"cycles_completed": bson.M{"$sum": "$no_of_cycles_completed"},
		}}},
		{{Key: "$sort", Value: bson.M{"total_time": -1}}},
	}

	var out []SubjectBreakdown
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].SessionCount > 0 {
			out[i].AvgTimePerSession = round1(float64(out[i].TotalTime) / float64(out[i].SessionCount))
		}
	}
	return out, nil
}

// SubjectHours is effective study hours (completed cycles x cycle length)
// per subject.
type SubjectHours struct {
	Subject    string  `bson:"_id" json:"subject"`
	TotalHours float64 `bson:"total_hours" json:"total_hours"`
}

// HoursBySubject sums effective study hours per subject for sessions on or
// after the given date string, largest first.
func (r *SessionRepository) HoursBySubject(ctx context.Context, userID, fromDate string) ([]SubjectHours, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":           userID,
			"date":              bson.M{"$gte": fromDate},
			"completion_status": bson.M{"$in": countedStatuses},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": "$subject",
			"total_minutes": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$no_of_cycles_completed", "$timer_per_cycle"},
			}},
		}}},
		{{Key: "$project", Value: bson.M{
			"total_hours": bson.M{"$divide": bson.A{"$total_minutes", 60}},
		}}},
		{{Key: "$sort", Value: bson.M{"total_hours": -1}}},
	}

	var out []SubjectHours
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].TotalHours = round2(out[i].TotalHours)
	}
	return out, nil
}

// DailyHours is effective study hours on one calendar day.
type DailyHours struct {
	Date       string  `bson:"_id" json:"date"`
	TotalHours float64 `bson:"total_hours" json:"total_hours"`
}

// HoursByDay sums effective study hours per day for sessions on or after
// the given date string, oldest first.
func (r *SessionRepository) HoursByDay(ctx context.Context, userID, fromDate string) ([]DailyHours, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":           userID,
			"date":              bson.M{"$gte": fromDate},
			"completion_status": bson.M{"$in": countedStatuses},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": "$date",
			"total_minutes": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$no_of_cycles_completed", "$timer_per_cycle"},
			}},
		}}},
		{{Key: "$project", Value: bson.M{
			"total_hours": bson.M{"$divide": bson.A{"$total_minutes", 60}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	var out []DailyHours
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].TotalHours = round2(out[i].TotalHours)
	}
	return out, nil
}

// TotalEffectiveMinutes sums completed-cycle minutes over all time.
func (r *SessionRepository) TotalEffectiveMinutes(ctx context.Context, userID string) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":           userID,
			"completion_status": bson.M{"$in": countedStatuses},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"total_minutes": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$no_of_cycles_completed", "$timer_per_cycle"},
			}},
		}}},
	}

	var out []struct {
		TotalMinutes int `bson:"total_minutes"`
	}
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].TotalMinutes, nil
}

// Count returns the number of counted-status sessions for a user.
func (r *SessionRepository) Count(ctx context.Context, userID string) (int64, error) {
	n, err := r.sessions.CountDocuments(ctx, bson.M{
		"user_id":           userID,
		"completion_status": bson.M{"$in": countedStatuses},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

func (r *SessionRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := r.sessions.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to aggregate sessions: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode aggregation: %w", err)
	}
	return nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
