package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawBody(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestParseTaskUpdateAllFields(t *testing.T) {
	body := rawBody(t, `{
		"name": "Finish lab report",
		"priority": "High",
		"duration": 1.5,
		"deadline": "2026-09-02T18:00",
		"completed": true
	}`)

	u, err := parseTaskUpdate(body, time.UTC)
	require.NoError(t, err)

	require.NotNil(t, u.Name)
	assert.Equal(t, "Finish lab report", *u.Name)
	require.NotNil(t, u.Priority)
	assert.Equal(t, "High", *u.Priority)
	require.True(t, u.DurationSet)
	require.NotNil(t, u.Duration)
	assert.Equal(t, 1.5, *u.Duration)
	require.True(t, u.DeadlineSet)
	require.NotNil(t, u.Deadline)
	assert.Equal(t, time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC), *u.Deadline)
	require.NotNil(t, u.Completed)
	assert.True(t, *u.Completed)
}

func TestParseTaskUpdateAbsentKeysUntouched(t *testing.T) {
	u, err := parseTaskUpdate(rawBody(t, `{"name": "Read chapter 4"}`), time.UTC)
	require.NoError(t, err)

	assert.NotNil(t, u.Name)
	assert.Nil(t, u.Priority)
	assert.False(t, u.DurationSet)
	assert.False(t, u.DeadlineSet)
	assert.Nil(t, u.Completed)
}

func TestParseTaskUpdateNullClearsOptional(t *testing.T) {
	u, err := parseTaskUpdate(rawBody(t, `{"duration": null, "deadline": null}`), time.UTC)
	require.NoError(t, err)

	assert.True(t, u.DurationSet)
	assert.Nil(t, u.Duration)
	assert.True(t, u.DeadlineSet)
	assert.Nil(t, u.Deadline)
}

func TestParseTaskUpdateRejectsBadValues(t *testing.T) {
	cases := []string{
		`{"name": ""}`,
		`{"name": 7}`,
		`{"priority": "Urgent"}`,
		`{"duration": -2}`,
		`{"duration": "two hours"}`,
		`{"deadline": "next tuesday"}`,
		`{"completed": "yes"}`,
	}
	for _, body := range cases {
		_, err := parseTaskUpdate(rawBody(t, body), time.UTC)
		assert.Error(t, err, body)
	}
}

func TestParseTaskUpdateEmptyBody(t *testing.T) {
	u, err := parseTaskUpdate(rawBody(t, `{}`), time.UTC)
	require.NoError(t, err)

	// An empty merge surfaces as ErrNoFields at BuildSet time.
	_, buildErr := u.BuildSet(time.Now())
	assert.Error(t, buildErr)
}

func TestValidPriority(t *testing.T) {
	assert.True(t, validPriority("Low"))
	assert.True(t, validPriority("Medium"))
	assert.True(t, validPriority("High"))
	assert.False(t, validPriority("low"))
	assert.False(t, validPriority(""))
}
