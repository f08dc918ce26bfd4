// Package history derives per-user calendar views from stored day logs:
// the date→log map, the day-state classification, and the month grid the
// calendar UI renders from.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// History is one user's logs keyed by date ("YYYY-MM-DD").
type History map[string]models.DayLog

// Service loads user histories from a log store.
type Service struct {
	logs storage.LogStore
}

// NewService creates a history service over the given store.
func NewService(logs storage.LogStore) *Service {
	return &Service{logs: logs}
}

// UserHistory loads all logs for one user as a date-keyed map.
func (s *Service) UserHistory(ctx context.Context, username string) (History, error) {
	logs, err := s.logs.UserLogs(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	h := make(History, len(logs))
	for _, l := range logs {
		h[l.Date] = l
	}
	return h, nil
}

// StateOf classifies a date: Rest or Workout when a log exists, Missed
// otherwise. Total over any date string.
func StateOf(h History, date string) models.DayState {
	log, ok := h[date]
	if !ok {
		return models.StateMissed
	}
	if log.IsRest() {
		return models.StateRest
	}
	return models.StateWorkout
}

// DayCell is one calendar cell of a month grid.
type DayCell struct {
	Date    string          `json:"date"`
	Day     int             `json:"day"`
	Weekday string          `json:"weekday"`
	State   models.DayState `json:"state"`
	Label   string          `json:"label"`
}

// abbrev shortens template names for calendar labels.
var abbrev = strings.NewReplacer("Anterior", "Ant", "Posterior", "Post")

// MonthGrid returns one cell per calendar date of the given month, including
// dates with no log (as Missed with an empty label). Rest days carry the rest
// icon; workout days an abbreviated template name.
func MonthGrid(h History, year int, month time.Month) []DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	var cells []DayCell
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		date := d.Format(models.DateFormat)
		state := StateOf(h, date)

		var label string
		switch state {
		case models.StateRest:
			label = "💤"
		case models.StateWorkout:
			label = abbrev.Replace(h[date].Type)
		}

		cells = append(cells, DayCell{
			Date:    date,
			Day:     d.Day(),
			Weekday: d.Format("Mon"),
			State:   state,
			Label:   label,
		})
	}
	return cells
}
