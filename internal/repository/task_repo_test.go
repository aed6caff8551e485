package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora-app/planora/internal/models"
)

func TestPriorityRank(t *testing.T) {
	assert.Equal(t, 3, PriorityRank(models.PriorityHigh))
	assert.Equal(t, 2, PriorityRank(models.PriorityMedium))
	assert.Equal(t, 1, PriorityRank(models.PriorityLow))
	assert.Equal(t, 0, PriorityRank("urgent"))
}

func TestBuildSetEmptyUpdate(t *testing.T) {
	_, err := TaskUpdate{}.BuildSet(time.Now())
	assert.ErrorIs(t, err, ErrNoFields)
}

func TestBuildSetNameAndPriority(t *testing.T) {
	name := "Revise calculus"
	priority := models.PriorityHigh
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	set, err := TaskUpdate{Name: &name, Priority: &priority}.BuildSet(now)
	require.NoError(t, err)

	assert.Equal(t, "Revise calculus", set["name"])
	assert.Equal(t, models.PriorityHigh, set["priority"])
	assert.Equal(t, 3, set["priority_rank"])
	assert.Equal(t, now, set["updated_at"])
}

func TestBuildSetClearsOptionalFields(t *testing.T) {
	set, err := TaskUpdate{DurationSet: true, DeadlineSet: true}.BuildSet(time.Now())
	require.NoError(t, err)

	duration, ok := set["duration"]
	require.True(t, ok)
	assert.Nil(t, duration)

	deadline, ok := set["deadline"]
	require.True(t, ok)
	assert.Nil(t, deadline)
}

func TestBuildSetSetsOptionalValues(t *testing.T) {
	d := 2.5
	deadline := time.Date(2026, 9, 5, 18, 0, 0, 0, time.UTC)
	done := true

	set, err := TaskUpdate{
		Duration:    &d,
		DurationSet: true,
		Deadline:    &deadline,
		DeadlineSet: true,
		Completed:   &done,
	}.BuildSet(time.Now())
	require.NoError(t, err)

	assert.Equal(t, &d, set["duration"])
	assert.Equal(t, &deadline, set["deadline"])
	assert.Equal(t, true, set["completed"])
}

func TestBuildSetUntouchedFieldsAbsent(t *testing.T) {
	done := false
	set, err := TaskUpdate{Completed: &done}.BuildSet(time.Now())
	require.NoError(t, err)

	assert.NotContains(t, set, "name")
	assert.NotContains(t, set, "priority")
	assert.NotContains(t, set, "duration")
	assert.NotContains(t, set, "deadline")
	assert.Equal(t, false, set["completed"])
}
