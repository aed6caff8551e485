package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora-app/planora/internal/models"
)

func hourSession(hour int, totalTime, cycles int, status string) models.Session {
	return models.Session{
		StartTime:           time.Date(2026, 8, 20, hour, 5, 0, 0, time.UTC),
		TotalTime:           totalTime,
		NoOfCyclesCompleted: cycles,
		CompletionStatus:    status,
	}
}

func TestHourlyReportScoresAndRanks(t *testing.T) {
	sessions := []models.Session{
		hourSession(7, 60, 4, models.StatusCompleted),
		hourSession(7, 60, 4, models.StatusCompleted),
		hourSession(22, 25, 1, models.StatusNotCompleted),
	}

	slots := HourlyReport(sessions)
	require.Len(t, slots, 2)

	top := slots[0]
	assert.Equal(t, 7, top.Hour)
	assert.Equal(t, "07:00 - 08:00", top.TimeSlot)
	assert.Equal(t, "Morning", top.Period)
	assert.Equal(t, 2, top.SessionCount)
	assert.Equal(t, 60.0, top.AvgTime)
	assert.Equal(t, 4.0, top.AvgCycles)
	assert.Equal(t, 100.0, top.CompletionRate)
	// 4*4 + 100*0.4 + 60/10
	assert.Equal(t, 62.0, top.ProductivityScore)

	assert.Equal(t, 22, slots[1].Hour)
	assert.Equal(t, "Night", slots[1].Period)
	assert.Equal(t, 6.5, slots[1].ProductivityScore)
}

func TestHourlyReportCapsAtFive(t *testing.T) {
	var sessions []models.Session
	for _, h := range []int{6, 8, 10, 13, 17, 21, 23} {
		sessions = append(sessions, hourSession(h, 30+h, 2, models.StatusCompleted))
	}

	slots := HourlyReport(sessions)
	assert.Len(t, slots, 5)
}

func TestHourlyReportTieOrdersByHour(t *testing.T) {
	sessions := []models.Session{
		hourSession(15, 30, 2, models.StatusCompleted),
		hourSession(9, 30, 2, models.StatusCompleted),
	}

	slots := HourlyReport(sessions)
	require.Len(t, slots, 2)
	assert.Equal(t, 9, slots[0].Hour)
	assert.Equal(t, 15, slots[1].Hour)
}

func TestHourlyReportSkipsZeroStart(t *testing.T) {
	slots := HourlyReport([]models.Session{{TotalTime: 50}})
	assert.Empty(t, slots)
}

func TestPeriodLabels(t *testing.T) {
	assert.Equal(t, "Morning", periodLabel(5))
	assert.Equal(t, "Morning", periodLabel(11))
	assert.Equal(t, "Afternoon", periodLabel(12))
	assert.Equal(t, "Evening", periodLabel(17))
	assert.Equal(t, "Night", periodLabel(21))
	assert.Equal(t, "Night", periodLabel(3))
}
