package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStats holds running aggregate totals per user. Counters are
// incremented on every saved session, never recomputed from scratch.
type UserStats struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"user_id" json:"user_id"`
	TotalStudyTime    int                `bson:"total_study_time" json:"total_study_time"` // minutes
	TotalCycles       int                `bson:"total_cycles" json:"total_cycles"`
	TotalSessions     int                `bson:"total_sessions" json:"total_sessions"`
	CompletedSessions int                `bson:"completed_sessions" json:"completed_sessions"`
	LastStudyDate     *time.Time         `bson:"last_study_date,omitempty" json:"last_study_date,omitempty"`
	LastUpdated       time.Time          `bson:"last_updated" json:"last_updated"`
}

// ChatMessage is one turn of the study assistant conversation.
type ChatMessage struct {
	Sender  string    `json:"sender"` // "user" or "bot"
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}
