package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora-app/planora/internal/models"
)

func sessionAt(t *testing.T, start, end string) models.Session {
	t.Helper()
	day := "2026-08-20T"
	st, err := time.Parse("2006-01-02T15:04", day+start)
	require.NoError(t, err)
	en, err := time.Parse("2006-01-02T15:04", day+end)
	require.NoError(t, err)
	return models.Session{StartTime: st, EndTime: en}
}

func TestBestTimeWindowDenseMorningHour(t *testing.T) {
	var sessions []models.Session
	for i := 0; i < 20; i++ {
		sessions = append(sessions, sessionAt(t, "07:00", "08:00"))
	}

	window, ok := BestTimeWindow(sessions)
	require.True(t, ok)
	assert.Equal(t, "7:00 AM to 8:00 AM", window)
}

func TestBestTimeWindowPrefersDensestCluster(t *testing.T) {
	var sessions []models.Session
	for i := 0; i < 12; i++ {
		sessions = append(sessions, sessionAt(t, "21:00", "21:30"))
	}
	// A longer but sparser afternoon block must lose to the dense evening one.
	for i := 0; i < 3; i++ {
		sessions = append(sessions, sessionAt(t, "14:00", "16:00"))
	}

	window, ok := BestTimeWindow(sessions)
	require.True(t, ok)
	assert.Equal(t, "9:00 PM to 9:30 PM", window)
}

func TestBestTimeWindowWrapsMidnight(t *testing.T) {
	var sessions []models.Session
	for i := 0; i < 10; i++ {
		sessions = append(sessions, sessionAt(t, "23:30", "23:59"))
		sessions = append(sessions, sessionAt(t, "00:00", "00:30"))
	}

	window, ok := BestTimeWindow(sessions)
	require.True(t, ok)
	assert.Equal(t, "11:30 PM to 12:30 AM", window)
}

func TestBestTimeWindowIgnoresBackwardClock(t *testing.T) {
	// A session whose wall-clock end precedes its start carries no usable
	// time mass.
	s := sessionAt(t, "23:45", "00:15")

	_, ok := BestTimeWindow([]models.Session{s})
	assert.False(t, ok)
}

func TestBestTimeWindowEmptyInput(t *testing.T) {
	_, ok := BestTimeWindow(nil)
	assert.False(t, ok)
}

func TestBestTimeWindowDeterministic(t *testing.T) {
	var sessions []models.Session
	for _, span := range [][2]string{
		{"06:00", "07:00"}, {"06:30", "07:15"}, {"18:00", "19:30"},
		{"18:15", "19:00"}, {"12:00", "12:45"},
	} {
		sessions = append(sessions, sessionAt(t, span[0], span[1]))
	}

	first, ok := BestTimeWindow(sessions)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := BestTimeWindow(sessions)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestPreferredTimeFallback(t *testing.T) {
	tests := []struct {
		name string
		qna  *models.QnA
		want string
	}{
		{"no questionnaire", nil, "Not set"},
		{"empty answer", &models.QnA{}, "Not set"},
		{"morning person", &models.QnA{MorningEveningPerson: "I'm a Morning person"}, "Morning (6:00 AM – 10:00 AM)"},
		{"evening person", &models.QnA{MorningEveningPerson: "evening"}, "Evening (5:00 PM – 9:00 PM)"},
		{"night owl", &models.QnA{MorningEveningPerson: "night owl"}, "Night (9:00 PM – 12:00 AM)"},
		{"free text", &models.QnA{MorningEveningPerson: "early afternoon mostly"}, "Early Afternoon Mostly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreferredTimeFallback(tt.qna))
		})
	}
}
