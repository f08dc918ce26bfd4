package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/stats"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/templates"
	"github.com/go-chi/chi/v5"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password required"})
		return
	}

	err := s.auth.Register(r.Context(), req.Username, req.Password)
	if errors.Is(err, storage.ErrUsernameTaken) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "username taken"})
		return
	}
	if err != nil {
		s.log.Error("register", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	ok, err := s.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.log.Error("login", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
		return
	}
	if !ok {
		// Same response for unknown user and wrong password.
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token := s.sessions.Create(req.Username)
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "username": req.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	s.sessions.Revoke(token)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	logs, err := s.store.ListAll(r.Context())
	if err != nil {
		// Degrade rather than fail the login page.
		s.log.Warn("leaderboard scan failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "leaderboard unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, stats.Leaderboard(logs))
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, templates.All)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.history.UserHistory(r.Context(), usernameFromContext(r))
	if err != nil {
		s.log.Error("history load", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
			return
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid month"})
			return
		}
		month = time.Month(m)
	}

	h, err := s.history.UserHistory(r.Context(), usernameFromContext(r))
	if err != nil {
		s.log.Error("calendar load", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, history.MonthGrid(h, year, month))
}

func (s *Server) handleConsistency(w http.ResponseWriter, r *http.Request) {
	h, err := s.history.UserHistory(r.Context(), usernameFromContext(r))
	if err != nil {
		s.log.Error("consistency load", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
		return
	}

	summary, err := stats.Consistency(h)
	if err != nil {
		s.log.Error("consistency compute", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if summary == nil {
		// No logs yet: a distinct no-data state, not an all-zero summary.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	log, err := s.store.Get(r.Context(), usernameFromContext(r), date)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no log for date"})
		return
	}
	if err != nil {
		s.log.Error("log lookup", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, log)
}

type putLogRequest struct {
	Type      string                 `json:"type"`
	Exercises []models.ExerciseEntry `json:"exercises"`
}

// handlePutLog upserts the log for one date. A "Rest" log always stores an
// empty exercise list. A workout log with no exercises in the request is
// instantiated from the named template with defaults; provided exercises are
// bounds-checked and replace the stored sequence in full.
func (s *Server) handlePutLog(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	var req putLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	log := models.DayLog{
		Username: usernameFromContext(r),
		Date:     date,
		Type:     req.Type,
	}

	switch {
	case req.Type == models.TypeRest:
		// Rest days never carry exercises, whatever the client sent.
	case templates.IsKnown(req.Type):
		if len(req.Exercises) == 0 {
			entries, err := templates.Apply(req.Type)
			if err != nil {
				s.log.Error("template apply", "error", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			log.Exercises = entries
		} else {
			if err := validateEntries(req.Exercises); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			log.Exercises = req.Exercises
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown log type %q", req.Type)})
		return
	}

	if err := s.store.Upsert(r.Context(), log); err != nil {
		s.log.Error("log upsert", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(r.Context(), usernameFromContext(r), date); err != nil {
		s.log.Error("log delete", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateEntries enforces the editor bounds: sets 1–10, reps 1–100,
// weight 0–500.
func validateEntries(entries []models.ExerciseEntry) error {
	for _, e := range entries {
		if e.Name == "" {
			return fmt.Errorf("exercise name required")
		}
		if e.Sets < 1 || e.Sets > 10 {
			return fmt.Errorf("%s: sets must be between 1 and 10", e.Name)
		}
		if e.Reps < 1 || e.Reps > 100 {
			return fmt.Errorf("%s: reps must be between 1 and 100", e.Name)
		}
		if e.Weight < 0 || e.Weight > 500 {
			return fmt.Errorf("%s: weight must be between 0 and 500", e.Name)
		}
	}
	return nil
}

// dateParam extracts and validates the {date} URL parameter.
func dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, want YYYY-MM-DD"})
		return "", false
	}
	return date, true
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
