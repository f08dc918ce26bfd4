// Package templates holds the fixed workout templates and instantiates them
// into default-populated exercise entries.
package templates

import (
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// ErrUnknown is returned when a template name outside the fixed set is
// requested. The UI only ever offers the fixed names, so hitting this
// indicates a bad client or a programming error.
var ErrUnknown = errors.New("unknown template")

// Defaults applied when a template is instantiated into a fresh log.
const (
	DefaultSets   = 3
	DefaultReps   = 10
	DefaultWeight = 10.0
)

// Template is a named, ordered list of exercise names.
type Template struct {
	Name      string   `json:"name"`
	Exercises []string `json:"exercises"`
}

// All is the fixed template catalog, in display order. Loaded once at init;
// never mutated.
var All = []Template{
	{Name: "Anterior A", Exercises: []string{
		"Incline Chest Press (DB)", "Butterfly", "Lateral Raises (Cable)",
		"Overhead Extension", "Rope Pushdown", "Hack Squat", "Leg Extension", "Crunches",
	}},
	{Name: "Anterior B", Exercises: []string{
		"Flat Chest Press", "Incline Chest Press (Mach)", "Lateral Raises (Cable)",
		"Overhead Extension", "Rope Pushdown", "Hack Squat", "Leg Extension", "Crunches",
	}},
	{Name: "Posterior A", Exercises: []string{
		"Lat Pulldown", "Seated Row", "T-Bar Row", "Preacher Curl", "Hammer Curl",
		"Wrist Curl", "Back Delts", "RDL", "Leg Curls",
	}},
	{Name: "Posterior B", Exercises: []string{
		"Lat Pulldown", "Seated Row", "T-Bar Row", "Incline Bi Curl", "Hammer Curl",
		"Reverse Curls", "Back Delts", "RDL", "Leg Curls",
	}},
}

// IsKnown reports whether name is one of the fixed templates.
func IsKnown(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Apply instantiates the named template: one entry per exercise with default
// sets/reps/weight, in template order.
func Apply(name string) ([]models.ExerciseEntry, error) {
	for _, t := range All {
		if t.Name != name {
			continue
		}
		entries := make([]models.ExerciseEntry, 0, len(t.Exercises))
		for _, ex := range t.Exercises {
			entries = append(entries, models.ExerciseEntry{
				Name:   ex,
				Sets:   DefaultSets,
				Reps:   DefaultReps,
				Weight: DefaultWeight,
			})
		}
		return entries, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
}
