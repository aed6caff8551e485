package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/planora-app/planora/internal/models"
)

// PreferenceRepository stores the onboarding questionnaire documents.
type PreferenceRepository struct {
	prefs *mongo.Collection
}

// NewPreferenceRepository creates a new preference repository.
func NewPreferenceRepository(prefs *mongo.Collection) *PreferenceRepository {
	return &PreferenceRepository{prefs: prefs}
}

// Insert stores a user's questionnaire answers.
func (r *PreferenceRepository) Insert(ctx context.Context, pref *models.Preference) error {
	now := time.Now().UTC()
	pref.CreatedAt = now
	pref.UpdatedAt = now

	res, err := r.prefs.InsertOne(ctx, pref)
	if err != nil {
		return fmt.Errorf("failed to insert preferences: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		pref.ID = oid
	}
	return nil
}

// GetForUser returns a user's questionnaire answers.
func (r *PreferenceRepository) GetForUser(ctx context.Context, userID primitive.ObjectID) (*models.Preference, error) {
	var pref models.Preference
	err := r.prefs.FindOne(ctx, bson.M{"user_id": userID}).Decode(&pref)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &pref, nil
}
