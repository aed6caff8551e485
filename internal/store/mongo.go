package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/planora-app/planora/internal/config"
)

// Store wraps the Mongo client and exposes the application's collections.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.MongoDatabase),
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Users() *mongo.Collection       { return s.db.Collection("users") }
func (s *Store) Sessions() *mongo.Collection    { return s.db.Collection("sessions") }
func (s *Store) Tasks() *mongo.Collection       { return s.db.Collection("tasks") }
func (s *Store) Preferences() *mongo.Collection { return s.db.Collection("user_preferences") }
func (s *Store) Stats() *mongo.Collection       { return s.db.Collection("user_stats") }
