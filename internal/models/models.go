package models

// DateFormat is the canonical layout for log dates. Every date in the system
// is a plain calendar day with no time or zone component.
const DateFormat = "2006-01-02"

// TypeRest marks a day log as a rest day. Any other type is the name of the
// workout template the log was created from.
const TypeRest = "Rest"

// User is a registered account. The username is the identity key; there is no
// surrogate ID.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// ExerciseEntry is one row of a workout log: an exercise with the sets, reps
// and weight the user performed.
type ExerciseEntry struct {
	Name   string  `json:"name"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// DayLog is what a user did on one calendar date. At most one DayLog exists
// per (username, date). A rest day has Type == TypeRest and no exercises.
type DayLog struct {
	Username  string          `json:"username"`
	Date      string          `json:"date"`
	Type      string          `json:"type"`
	Exercises []ExerciseEntry `json:"exercises"`
}

// IsRest reports whether the log records a rest day.
func (l DayLog) IsRest() bool {
	return l.Type == TypeRest
}

// DayState classifies a calendar date for a user. It is derived at read time
// and never stored.
type DayState string

const (
	StateWorkout DayState = "Workout"
	StateRest    DayState = "Rest"
	StateMissed  DayState = "Missed"
)
