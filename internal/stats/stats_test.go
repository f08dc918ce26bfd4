package stats

import (
	"testing"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
)

func dayLog(username, date, typ string) models.DayLog {
	return models.DayLog{Username: username, Date: date, Type: typ}
}

// TestLeaderboardRanking verifies descending order by workout-day count and
// that rest days never count.
func TestLeaderboardRanking(t *testing.T) {
	logs := []models.DayLog{
		dayLog("ali", "2024-03-01", "Anterior A"),
		dayLog("ali", "2024-03-02", models.TypeRest),
		dayLog("bea", "2024-03-01", "Posterior A"),
		dayLog("bea", "2024-03-02", "Posterior B"),
		dayLog("bea", "2024-03-03", "Anterior A"),
		dayLog("cem", "2024-03-01", "Anterior B"),
		dayLog("cem", "2024-03-04", "Anterior A"),
	}

	got := Leaderboard(logs)
	want := []LeaderboardEntry{
		{Username: "bea", WorkoutDayCount: 3},
		{Username: "cem", WorkoutDayCount: 2},
		{Username: "ali", WorkoutDayCount: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("leaderboard has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestLeaderboardRestOnlyUser verifies that a user with only rest-day logs
// appears with a count of zero rather than being omitted.
func TestLeaderboardRestOnlyUser(t *testing.T) {
	logs := []models.DayLog{
		dayLog("ali", "2024-03-01", "Anterior A"),
		dayLog("zoe", "2024-03-01", models.TypeRest),
		dayLog("zoe", "2024-03-02", models.TypeRest),
	}

	got := Leaderboard(logs)
	if len(got) != 2 {
		t.Fatalf("leaderboard has %d entries, want 2", len(got))
	}
	if got[1].Username != "zoe" || got[1].WorkoutDayCount != 0 {
		t.Errorf("last entry = %+v, want {zoe 0}", got[1])
	}
}

// TestLeaderboardStableTies verifies that tied users keep the order in which
// they first appear in the input.
func TestLeaderboardStableTies(t *testing.T) {
	logs := []models.DayLog{
		dayLog("cem", "2024-03-01", "Anterior A"),
		dayLog("ali", "2024-03-01", "Anterior A"),
		dayLog("bea", "2024-03-01", "Anterior A"),
	}

	got := Leaderboard(logs)
	order := []string{"cem", "ali", "bea"}
	for i, u := range order {
		if got[i].Username != u {
			t.Errorf("entry %d = %q, want %q (encounter order)", i, got[i].Username, u)
		}
	}
}

// TestLeaderboardEmpty verifies an empty scan yields an empty leaderboard.
func TestLeaderboardEmpty(t *testing.T) {
	if got := Leaderboard(nil); len(got) != 0 {
		t.Errorf("Leaderboard(nil) has %d entries, want 0", len(got))
	}
}

// TestConsistencyRange verifies the documented scenario: a workout on 03-01
// and a rest day on 03-03 give a 3-day range with one day of each state.
func TestConsistencyRange(t *testing.T) {
	h := history.History{
		"2024-03-01": dayLog("ali", "2024-03-01", "Anterior A"),
		"2024-03-03": dayLog("ali", "2024-03-03", models.TypeRest),
	}

	sum, err := Consistency(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum == nil {
		t.Fatal("summary is nil for non-empty history")
	}
	if sum.RangeStart != "2024-03-01" || sum.RangeEnd != "2024-03-03" {
		t.Errorf("range = %s..%s, want 2024-03-01..2024-03-03", sum.RangeStart, sum.RangeEnd)
	}
	if sum.TotalDays != 3 {
		t.Errorf("total_days = %d, want 3", sum.TotalDays)
	}
	if sum.Workouts != 1 || sum.Rest != 1 || sum.Missed != 1 {
		t.Errorf("counts = {workouts:%d rest:%d missed:%d}, want {1 1 1}", sum.Workouts, sum.Rest, sum.Missed)
	}
}

// TestConsistencyTotalsInvariant verifies workouts+rest+missed == total_days
// across a range that spans a month boundary.
func TestConsistencyTotalsInvariant(t *testing.T) {
	h := history.History{
		"2024-02-27": dayLog("ali", "2024-02-27", "Posterior A"),
		"2024-02-29": dayLog("ali", "2024-02-29", models.TypeRest),
		"2024-03-05": dayLog("ali", "2024-03-05", "Anterior B"),
	}

	sum, err := Consistency(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sum.Workouts + sum.Rest + sum.Missed; got != sum.TotalDays {
		t.Errorf("workouts+rest+missed = %d, want total_days = %d", got, sum.TotalDays)
	}
	// 02-27 through 03-05 inclusive in a leap year.
	if sum.TotalDays != 8 {
		t.Errorf("total_days = %d, want 8", sum.TotalDays)
	}
	if sum.Workouts != 2 || sum.Rest != 1 || sum.Missed != 5 {
		t.Errorf("counts = {workouts:%d rest:%d missed:%d}, want {2 1 5}", sum.Workouts, sum.Rest, sum.Missed)
	}
}

// TestConsistencySingleDay verifies a one-log history gives a one-day range.
func TestConsistencySingleDay(t *testing.T) {
	h := history.History{
		"2024-03-01": dayLog("ali", "2024-03-01", "Anterior A"),
	}
	sum, err := Consistency(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.TotalDays != 1 || sum.Workouts != 1 || sum.Rest != 0 || sum.Missed != 0 {
		t.Errorf("summary = %+v, want one workout day", sum)
	}
}

// TestConsistencyEmpty verifies that an empty history produces no summary —
// the caller must get a distinct "no data yet" state, not zeros.
func TestConsistencyEmpty(t *testing.T) {
	sum, err := Consistency(history.History{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != nil {
		t.Errorf("summary = %+v, want nil for empty history", sum)
	}
}
