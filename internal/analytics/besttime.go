package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/planora-app/planora/internal/models"
)

// Bucket granularity for the best-time search.
const (
	BucketMinutes = 15
	BucketsPerDay = 24 * 60 / BucketMinutes // 96

	// MinSessionsRequired is the history threshold below which the
	// preference-derived fallback is returned instead of a computed window.
	MinSessionsRequired = 15

	// MaxSessionsToFetch bounds the history considered by the calculator.
	MaxSessionsToFetch = 30
)

// Candidate window lengths in buckets: 30m, 45m, 60m, 90m, 120m.
var windowBucketOptions = []int{2, 3, 4, 6, 8}

// BestTimeWindow computes the densest study window over the given sessions.
// It returns a formatted "start to end" string and false when the sessions
// carry no usable time mass (the caller should fall back to the user's
// stated preference). Fewer-than-threshold handling is the caller's job so
// this stays a pure function of its input.
func BestTimeWindow(sessions []models.Session) (string, bool) {
	buckets := make([]int, BucketsPerDay)
	for _, s := range sessions {
		if s.StartTime.IsZero() || s.EndTime.IsZero() {
			continue
		}
		addSessionToBuckets(s.StartTime, s.EndTime, buckets)
	}

	total := 0
	for _, b := range buckets {
		total += b
	}
	if total == 0 {
		return "", false
	}

	startIdx, w := bestWindow(buckets)

	startMin := (startIdx % BucketsPerDay) * BucketMinutes
	endMin := startMin + w*BucketMinutes

	return fmt.Sprintf("%s to %s",
		formatMinutes(startMin),
		formatMinutes(endMin%(24*60))), true
}

// addSessionToBuckets adds +1 to every bucket covered by [start, end).
// Start is floored to its bucket boundary, end is ceiled to the next one.
// A session whose wall-clock end precedes its start (crossed midnight)
// contributes nothing, matching the windowing contract.
func addSessionToBuckets(start, end time.Time, buckets []int) {
	startMin := start.Hour()*60 + start.Minute()
	startMin = (startMin / BucketMinutes) * BucketMinutes

	endMin := end.Hour()*60 + end.Minute()
	if endMin%BucketMinutes != 0 {
		endMin = (endMin/BucketMinutes + 1) * BucketMinutes
	}

	for cur := startMin; cur < endMin; cur += BucketMinutes {
		buckets[(cur%(24*60))/BucketMinutes]++
	}
}

// bestWindow slides every candidate window length across all 96 start
// offsets of the doubled bucket array (so windows may wrap past midnight)
// using an incremental running sum. Ties resolve by density, then raw sum,
// then the shorter window, which keeps results reproducible.
func bestWindow(buckets []int) (startIdx, width int) {
	extended := make([]int, 0, 2*len(buckets))
	extended = append(extended, buckets...)
	extended = append(extended, buckets...)

	bestScore := -1.0
	bestSum := 0
	bestStart := 0
	bestW := 0

	for _, w := range windowBucketOptions {
		windowSum := 0
		for i := 0; i < w; i++ {
			windowSum += extended[i]
		}
		for start := 0; start < BucketsPerDay; start++ {
			if start > 0 {
				windowSum = windowSum - extended[start-1] + extended[start+w-1]
			}
			density := float64(windowSum) / float64(w)
			if density > bestScore ||
				(density == bestScore && windowSum > bestSum) ||
				(density == bestScore && windowSum == bestSum && w < bestW) {
				bestScore = density
				bestSum = windowSum
				bestStart = start
				bestW = w
			}
		}
	}

	return bestStart, bestW
}

// formatMinutes converts minutes since midnight (0..1439) to a 12-hour
// clock string like "5:30 PM".
func formatMinutes(minutesSinceMidnight int) string {
	m := ((minutesSinceMidnight % (24 * 60)) + 24*60) % (24 * 60)
	t := time.Date(2000, 1, 1, m/60, m%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

// PreferredTimeFallback derives a human-readable best-time string from the
// user's questionnaire when there is not enough session history.
func PreferredTimeFallback(qna *models.QnA) string {
	if qna == nil || qna.MorningEveningPerson == "" {
		return "Not set"
	}
	pref := strings.ToLower(qna.MorningEveningPerson)
	switch {
	case strings.Contains(pref, "morning"):
		return "Morning (6:00 AM – 10:00 AM)"
	case strings.Contains(pref, "evening"):
		return "Evening (5:00 PM – 9:00 PM)"
	case strings.Contains(pref, "night"):
		return "Night (9:00 PM – 12:00 AM)"
	}
	return titleCase(pref)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
