package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/planora-app/planora/internal/models"
)

// HourSlot is one entry of the hourly productivity report.
type HourSlot struct {
	Hour              int     `json:"hour"`
	TimeSlot          string  `json:"time_slot"`
	Period            string  `json:"period"`
	SessionCount      int     `json:"session_count"`
	AvgTime           float64 `json:"avg_time"`
	AvgCycles         float64 `json:"avg_cycles"`
	CompletionRate    float64 `json:"completion_rate"`
	ProductivityScore float64 `json:"productivity_score"`
}

// HourlyReport groups sessions by their start hour and scores each hour by
// average cycles completed, completion rate, and average study time. The
// top slots (at most five) come back sorted by score; equal scores order by
// hour so the report is stable.
func HourlyReport(sessions []models.Session) []HourSlot {
	type hourAgg struct {
		count       int
		totalTime   int
		totalCycles int
		completed   int
	}

	agg := make(map[int]*hourAgg)
	for _, s := range sessions {
		if s.StartTime.IsZero() {
			continue
		}
		h := s.StartTime.Hour()
		a, ok := agg[h]
		if !ok {
			a = &hourAgg{}
			agg[h] = a
		}
		a.count++
		a.totalTime += s.TotalTime
		a.totalCycles += s.NoOfCyclesCompleted
		if s.CompletionStatus == models.StatusCompleted {
			a.completed++
		}
	}

	slots := make([]HourSlot, 0, len(agg))
	for h, a := range agg {
		avgTime := float64(a.totalTime) / float64(a.count)
		avgCycles := float64(a.totalCycles) / float64(a.count)
		completionRate := float64(a.completed) / float64(a.count) * 100

		score := avgCycles*4 + completionRate*0.4 + avgTime/10

		slots = append(slots, HourSlot{
			Hour:              h,
			TimeSlot:          fmt.Sprintf("%02d:00 - %02d:00", h, (h+1)%24),
			Period:            periodLabel(h),
			SessionCount:      a.count,
			AvgTime:           round1(avgTime),
			AvgCycles:         round1(avgCycles),
			CompletionRate:    round1(completionRate),
			ProductivityScore: round2(score),
		})
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].ProductivityScore != slots[j].ProductivityScore {
			return slots[i].ProductivityScore > slots[j].ProductivityScore
		}
		return slots[i].Hour < slots[j].Hour
	})

	if len(slots) > 5 {
		slots = slots[:5]
	}
	return slots
}

func periodLabel(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 17:
		return "Afternoon"
	case hour >= 17 && hour < 21:
		return "Evening"
	default:
		return "Night"
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
