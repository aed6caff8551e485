package analytics

import (
	"fmt"
	"time"
)

// StreakResult reports the current daily streak and the days missed this
// month.
type StreakResult struct {
	Streak  int    `json:"streak"`
	Missed  int    `json:"missed"`
	Message string `json:"message"`
}

// DailyStreak walks backward from today through the set of studied calendar
// days (YYYY-MM-DD strings from the current month's completed sessions),
// counting consecutive days. Missed days are the days elapsed since the
// later of the join date and the start of the month, minus the distinct
// days studied. No partial-day credit is given.
func DailyStreak(studiedDates []string, joinDate, today time.Time) StreakResult {
	todayDay := civilDate(today)
	joinDay := civilDate(joinDate)

	monthStart := time.Date(todayDay.Year(), todayDay.Month(), 1, 0, 0, 0, 0, time.UTC)
	startMonth := monthStart
	if joinDay.After(monthStart) {
		startMonth = joinDay
	}

	studied := make(map[time.Time]bool, len(studiedDates))
	for _, ds := range studiedDates {
		day, err := time.Parse("2006-01-02", ds)
		if err != nil {
			continue
		}
		studied[civilDate(day)] = true
	}

	streak := 0
	for day := todayDay; studied[day]; day = day.AddDate(0, 0, -1) {
		streak++
	}

	totalDays := int(todayDay.Sub(startMonth).Hours()/24) + 1
	missed := totalDays - len(studied)

	return StreakResult{
		Streak:  streak,
		Missed:  missed,
		Message: fmt.Sprintf("You've studied %d %s in a row! Keep it going!", streak, pluralDay(streak)),
	}
}
