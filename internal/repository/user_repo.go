package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/planora-app/planora/internal/models"
)

// UserRepository handles user document operations.
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a new user repository.
func NewUserRepository(users *mongo.Collection) *UserRepository {
	return &UserRepository{users: users}
}

// Create registers a new user with a bcrypt-hashed password. Email and
// username must be unused.
func (r *UserRepository) Create(ctx context.Context, user *models.User, password string) error {
	if existing, err := r.findOne(ctx, bson.M{"email": user.Email}); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	} else if existing != nil {
		return fmt.Errorf("email %w", ErrDuplicate)
	}
	if existing, err := r.findOne(ctx, bson.M{"username": user.Username}); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	} else if existing != nil {
		return fmt.Errorf("username %w", ErrDuplicate)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	user.CreatedAt = time.Now().UTC()

	res, err := r.users.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// GetByID retrieves a user by hex ObjectID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ValidatePassword checks a candidate password against the stored hash.
func (r *UserRepository) ValidatePassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// CompleteOnboarding copies the questionnaire answers onto the user
// document and marks onboarding done.
func (r *UserRepository) CompleteOnboarding(ctx context.Context, id string, qna *models.QnA) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"onboarding_completed": true, "qna": qna},
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastStudy stamps the user's last study time.
func (r *UserRepository) TouchLastStudy(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	_, err = r.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"last_study_date": at},
	})
	return err
}

// ResetQuotaIfStale zeroes the token counter and stamps the reset time in a
// single conditional update that only matches when the stored reset date is
// missing or before the current day. Safe to call concurrently.
func (r *UserRepository) ResetQuotaIfStale(ctx context.Context, id string, now time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	filter := bson.M{
		"_id": oid,
		"$or": bson.A{
			bson.M{"quota_last_reset": bson.M{"$exists": false}},
			bson.M{"quota_last_reset": nil},
			bson.M{"quota_last_reset": bson.M{"$lt": dayStart}},
		},
	}
	update := bson.M{"$set": bson.M{"tokens_used": 0, "quota_last_reset": now}}

	if _, err := r.users.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to reset quota: %w", err)
	}
	return nil
}

// ConsumeIfWithinQuota increments tokens_used by tokens only when the
// result stays within daily_quota. The guard and the increment are one
// atomic update; false means the reservation was denied with no mutation.
func (r *UserRepository) ConsumeIfWithinQuota(ctx context.Context, id string, tokens int) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrInvalidID
	}

	filter := bson.M{
		"_id": oid,
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$tokens_used", 0}}, tokens}},
			bson.M{"$ifNull": bson.A{"$daily_quota", 0}},
		}},
	}
	update := bson.M{"$inc": bson.M{"tokens_used": tokens}}

	res, err := r.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to consume quota: %w", err)
	}
	return res.MatchedCount == 1, nil
}
