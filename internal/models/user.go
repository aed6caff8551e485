package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QnA holds the onboarding questionnaire answers. Subjects is the
// authoritative set of valid study subjects for session validation.
type QnA struct {
	Age                  int      `bson:"age,omitempty" json:"age,omitempty"`
	Subjects             []string `bson:"subjects" json:"subjects"`
	SleepSchedule        string   `bson:"sleep_schedule,omitempty" json:"sleep_schedule,omitempty"`
	MorningEveningPerson string   `bson:"morning_evening_person,omitempty" json:"morning_evening_person,omitempty"`
	Motivation           string   `bson:"motivation,omitempty" json:"motivation,omitempty"`
	Difficulties         []string `bson:"difficulties,omitempty" json:"difficulties,omitempty"`
}

// User represents a user in the system
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName            string             `bson:"full_name" json:"full_name"`
	Username            string             `bson:"username" json:"username"`
	Email               string             `bson:"email" json:"email"`
	Phone               string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash        string             `bson:"password" json:"-"`
	OnboardingCompleted bool               `bson:"onboarding_completed" json:"onboarding_completed"`
	QnA                 *QnA               `bson:"qna,omitempty" json:"qna,omitempty"`

	TokensUsed     int        `bson:"tokens_used" json:"tokens_used"`
	DailyQuota     int        `bson:"daily_quota" json:"daily_quota"`
	QuotaLastReset *time.Time `bson:"quota_last_reset,omitempty" json:"quota_last_reset,omitempty"`

	JoinDate      *time.Time `bson:"join_date,omitempty" json:"join_date,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	LastStudyDate *time.Time `bson:"last_study_date,omitempty" json:"last_study_date,omitempty"`
}

// Subjects returns the declared subject list, or nil before onboarding.
func (u *User) Subjects() []string {
	if u.QnA == nil {
		return nil
	}
	return u.QnA.Subjects
}

// JoinedAt resolves the join date, falling back to the account creation time.
func (u *User) JoinedAt() time.Time {
	if u.JoinDate != nil {
		return *u.JoinDate
	}
	return u.CreatedAt
}

// Preference is the onboarding questionnaire document kept in the
// user_preferences collection, one per user.
type Preference struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID               primitive.ObjectID `bson:"user_id" json:"user_id"`
	Age                  int                `bson:"age" json:"age"`
	Subjects             []string           `bson:"subjects" json:"subjects"`
	SleepSchedule        string             `bson:"sleep_schedule" json:"sleep_schedule"`
	MorningEveningPerson string             `bson:"morning_evening_person" json:"morning_evening_person"`
	Motivation           string             `bson:"motivation" json:"motivation"`
	Difficulties         []string           `bson:"difficulties" json:"difficulties"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}
