package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockFormats(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	for _, value := range []string{
		"2026-08-31T09:30:00",
		"2026-08-31T09:30",
		"2026-08-31 09:30:00",
	} {
		got, err := parseClock(value, loc)
		require.NoError(t, err, value)
		assert.Equal(t, 9, got.Hour())
		assert.Equal(t, 30, got.Minute())
		assert.Equal(t, loc, got.Location())
	}
}

func TestParseClockKeepsExplicitOffset(t *testing.T) {
	got, err := parseClock("2026-08-31T09:30:00+05:30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 31, 4, 0, 0, 0, time.UTC), got.UTC())
}

func TestParseClockRejectsGarbage(t *testing.T) {
	_, err := parseClock("yesterday evening", time.UTC)
	assert.Error(t, err)
}

func TestSaveSessionRequestValidate(t *testing.T) {
	valid := SaveSessionRequest{
		Subject:             "Math",
		StartTime:           "2026-08-31T09:00",
		EndTime:             "2026-08-31T10:00",
		TotalTime:           60,
		NoOfCyclesDecided:   4,
		NoOfCyclesCompleted: 3,
		TimerPerCycle:       25,
		CompletionStatus:    "Partially Completed",
	}
	assert.Empty(t, valid.validate())

	badStatus := valid
	badStatus.CompletionStatus = "Interrupted"
	assert.NotEmpty(t, badStatus.validate())

	overCompleted := valid
	overCompleted.NoOfCyclesCompleted = 5
	assert.Equal(t, "no_of_cycles_completed cannot exceed no_of_cycles_decided", overCompleted.validate())

	zeroCycles := valid
	zeroCycles.NoOfCyclesDecided = 0
	assert.NotEmpty(t, zeroCycles.validate())

	negativeTime := valid
	negativeTime.TotalTime = -1
	assert.NotEmpty(t, negativeTime.validate())

	negativePauses := valid
	negativePauses.PauseCount = -2
	assert.NotEmpty(t, negativePauses.validate())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", formatDuration(0))
	assert.Equal(t, "45m", formatDuration(45))
	assert.Equal(t, "1h 0m", formatDuration(60))
	assert.Equal(t, "2h 15m", formatDuration(135))
}

func TestContainsFold(t *testing.T) {
	subjects := []string{"Math", "Physics"}
	assert.True(t, containsFold(subjects, "math"))
	assert.True(t, containsFold(subjects, "PHYSICS"))
	assert.False(t, containsFold(subjects, "Biology"))
}
