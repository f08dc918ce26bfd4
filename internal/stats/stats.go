// Package stats computes aggregates over stored day logs: the cross-user
// leaderboard and the per-user consistency summary.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
)

// LeaderboardEntry is one row of the leaderboard: a user and the number of
// days they logged an actual workout (rest days do not count).
type LeaderboardEntry struct {
	Username        string `json:"username"`
	WorkoutDayCount int    `json:"workout_day_count"`
}

// Leaderboard counts non-rest logs per user and ranks descending. Users whose
// only logs are rest days appear with a count of zero. Ties keep the order in
// which users first appear in the input, so the result is deterministic for a
// fixed input order.
func Leaderboard(allLogs []models.DayLog) []LeaderboardEntry {
	counts := make(map[string]int)
	var order []string

	for _, l := range allLogs {
		if _, seen := counts[l.Username]; !seen {
			counts[l.Username] = 0
			order = append(order, l.Username)
		}
		if !l.IsRest() {
			counts[l.Username]++
		}
	}

	entries := make([]LeaderboardEntry, 0, len(order))
	for _, u := range order {
		entries = append(entries, LeaderboardEntry{Username: u, WorkoutDayCount: counts[u]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WorkoutDayCount > entries[j].WorkoutDayCount
	})
	return entries
}

// ConsistencySummary is the day-state histogram over a user's active range.
// Workouts+Rest+Missed always equals TotalDays.
type ConsistencySummary struct {
	Workouts   int    `json:"workouts"`
	Rest       int    `json:"rest"`
	Missed     int    `json:"missed"`
	TotalDays  int    `json:"total_days"`
	RangeStart string `json:"range_start"`
	RangeEnd   string `json:"range_end"`
}

// Consistency classifies every date between the user's first and last logged
// date (inclusive) and counts each state. An empty history has no range, so
// the summary is nil — "no data yet", not an all-zero summary.
func Consistency(h history.History) (*ConsistencySummary, error) {
	if len(h) == 0 {
		return nil, nil
	}

	first, last := "", ""
	for date := range h {
		if first == "" || date < first {
			first = date
		}
		if last == "" || date > last {
			last = date
		}
	}

	start, err := time.Parse(models.DateFormat, first)
	if err != nil {
		return nil, fmt.Errorf("parsing range start %q: %w", first, err)
	}
	end, err := time.Parse(models.DateFormat, last)
	if err != nil {
		return nil, fmt.Errorf("parsing range end %q: %w", last, err)
	}

	sum := &ConsistencySummary{RangeStart: first, RangeEnd: last}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch history.StateOf(h, d.Format(models.DateFormat)) {
		case models.StateWorkout:
			sum.Workouts++
		case models.StateRest:
			sum.Rest++
		case models.StateMissed:
			sum.Missed++
		}
		sum.TotalDays++
	}
	return sum, nil
}
