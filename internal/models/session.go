package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Completion statuses a study session can end with.
const (
	StatusCompleted          = "Completed"
	StatusNotCompleted       = "Not Completed"
	StatusPartiallyCompleted = "Partially Completed"
	StatusInterrupted        = "Interrupted"
)

// ValidCompletionStatus reports whether s is one of the accepted statuses
// for a newly recorded session.
func ValidCompletionStatus(s string) bool {
	switch s {
	case StatusCompleted, StatusNotCompleted, StatusPartiallyCompleted:
		return true
	}
	return false
}

// Session is one recorded Pomodoro study session. Immutable once the
// completion status is finalized.
type Session struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID              string             `bson:"user_id" json:"user_id"`
	Subject             string             `bson:"subject" json:"subject"`
	StartTime           time.Time          `bson:"start_time" json:"start_time"`
	EndTime             time.Time          `bson:"end_time" json:"end_time"`
	TotalTime           int                `bson:"total_time" json:"total_time"` // minutes
	NoOfCyclesDecided   int                `bson:"no_of_cycles_decided" json:"no_of_cycles_decided"`
	NoOfCyclesCompleted int                `bson:"no_of_cycles_completed" json:"no_of_cycles_completed"`
	BreakTime           int                `bson:"break_time" json:"break_time"` // minutes
	PauseCount          int                `bson:"pause_count" json:"pause_count"`
	TimerPerCycle       int                `bson:"timer_per_cycle" json:"timer_per_cycle"` // minutes
	CompletionStatus    string             `bson:"completion_status" json:"completion_status"`
	Date                string             `bson:"date" json:"date"` // YYYY-MM-DD in the configured zone
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
}
