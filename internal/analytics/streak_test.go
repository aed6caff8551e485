package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	streakToday = time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC)
	earlyJoin   = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
)

func TestDailyStreakConsecutiveDays(t *testing.T) {
	dates := []string{"2026-08-29", "2026-08-30", "2026-08-31"}

	res := DailyStreak(dates, earlyJoin, streakToday)

	assert.Equal(t, 3, res.Streak)
	assert.Equal(t, 28, res.Missed)
	assert.Equal(t, "You've studied 3 days in a row! Keep it going!", res.Message)
}

func TestDailyStreakBrokenYesterday(t *testing.T) {
	dates := []string{"2026-08-29", "2026-08-31"}

	res := DailyStreak(dates, earlyJoin, streakToday)

	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 29, res.Missed)
}

func TestDailyStreakNothingStudied(t *testing.T) {
	res := DailyStreak(nil, earlyJoin, streakToday)

	assert.Equal(t, 0, res.Streak)
	assert.Equal(t, 31, res.Missed)
	assert.Equal(t, "You've studied 0 days in a row! Keep it going!", res.Message)
}

func TestDailyStreakSingleDay(t *testing.T) {
	res := DailyStreak([]string{"2026-08-31"}, earlyJoin, streakToday)

	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, "You've studied 1 day in a row! Keep it going!", res.Message)
}

func TestDailyStreakMidMonthJoin(t *testing.T) {
	join := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	dates := []string{"2026-08-30", "2026-08-31"}

	res := DailyStreak(dates, join, streakToday)

	assert.Equal(t, 2, res.Streak)
	// Joined the 25th: seven countable days, two studied.
	assert.Equal(t, 5, res.Missed)
}

func TestDailyStreakIgnoresMalformedDates(t *testing.T) {
	dates := []string{"2026-08-31", "31/08/2026", ""}

	res := DailyStreak(dates, earlyJoin, streakToday)

	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 30, res.Missed)
}
