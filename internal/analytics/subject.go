package analytics

import (
	"fmt"
	"time"

	"github.com/planora-app/planora/internal/models"
)

// Recommendation is the outcome of the subject-priority heuristic.
type Recommendation struct {
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
}

// subjectStats aggregates a user's history for one subject.
type subjectStats struct {
	lastDate  time.Time // calendar day, zone-stripped
	count     int
	daysSince int
}

// PrioritySubject picks the subject a user should study next. The rules are
// a fixed decision tree applied in strict order (no history, neglected,
// under-studied, balanced); identical input always yields identical output.
// today must be the current calendar day; hours are ignored.
func PrioritySubject(sessions []models.Session, subjects []string, today time.Time) Recommendation {
	todayDay := civilDate(today)

	// New user: pick the middle of the declared list as a medium-difficulty
	// default.
	if len(sessions) == 0 {
		if len(subjects) > 0 {
			subj := subjects[len(subjects)/2]
			return Recommendation{
				Subject: subj,
				Reason:  fmt.Sprintf("Recommended subject: %s (medium difficulty)", subj),
			}
		}
		return Recommendation{
			Subject: "No subjects",
			Reason:  "Please add subjects in your preferences",
		}
	}

	// Per-subject aggregates, keyed in first-seen order so tie-breaks stay
	// deterministic. Sessions missing a subject or date, or carrying an
	// unparsable date, are skipped.
	stats := make(map[string]*subjectStats)
	var order []string
	for _, s := range sessions {
		if s.Subject == "" || s.Date == "" {
			continue
		}
		day, err := time.Parse("2006-01-02", s.Date)
		if err != nil {
			continue
		}
		st, ok := stats[s.Subject]
		if !ok {
			stats[s.Subject] = &subjectStats{lastDate: day, count: 1}
			order = append(order, s.Subject)
			continue
		}
		st.count++
		if day.After(st.lastDate) {
			st.lastDate = day
		}
	}

	if len(order) == 0 {
		return Recommendation{Subject: "No valid sessions", Reason: "Check your session logs"}
	}

	for _, subj := range order {
		st := stats[subj]
		st.daysSince = int(todayDay.Sub(civilDate(st.lastDate)).Hours() / 24)
	}

	// Neglect rule: most days since last studied wins, ties broken by the
	// less-frequently studied subject.
	priority := order[0]
	for _, subj := range order[1:] {
		st, best := stats[subj], stats[priority]
		if st.daysSince > best.daysSince ||
			(st.daysSince == best.daysSince && st.count < best.count) {
			priority = subj
		}
	}
	if info := stats[priority]; info.daysSince > 0 {
		return Recommendation{
			Subject: priority,
			Reason:  fmt.Sprintf("Last studied: %d %s ago", info.daysSince, pluralDay(info.daysSince)),
		}
	}

	// Under-studied rule: everything was touched today, so surface the first
	// subject below the mean session count.
	total := 0
	for _, subj := range order {
		total += stats[subj].count
	}
	mean := float64(total) / float64(len(order))
	for _, subj := range order {
		if float64(stats[subj].count) < mean {
			return Recommendation{
				Subject: subj,
				Reason:  fmt.Sprintf("You should focus on %s today", subj),
			}
		}
	}

	return Recommendation{
		Subject: "All subjects balanced",
		Reason:  "Keep up your study rhythm!",
	}
}

// civilDate strips a timestamp down to its calendar day in UTC.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func pluralDay(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
