package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/auth"
	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/stats"
	"github.com/claude/liftlog/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.OpenLite(filepath.Join(t.TempDir(), "liftlog.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, auth.NewServiceWithCost(store, bcrypt.MinCost), auth.NewSessions(time.Hour), log)
}

// do sends a JSON request through the full router and returns the recorder.
func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// loginAs registers (ignoring duplicates) and logs in, returning the token.
func loginAs(t *testing.T, s *Server, username, password string) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": password}
	do(t, s, http.MethodPost, "/api/v1/register", "", creds)

	rec := do(t, s, http.MethodPost, "/api/v1/login", "", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	return resp["token"]
}

// TestRegisterLoginFlow verifies the account scenario: first registration
// wins, a duplicate is refused, and only the original password logs in.
func TestRegisterLoginFlow(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/register", "", map[string]string{"username": "ali", "password": "pw1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/register", "", map[string]string{"username": "ali", "password": "pw2"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/login", "", map[string]string{"username": "ali", "password": "pw2"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong-password login status = %d, want 401", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/login", "", map[string]string{"username": "ali", "password": "pw1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", rec.Code)
	}
}

// TestRegisterMissingFields verifies empty credentials are rejected.
func TestRegisterMissingFields(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/register", "", map[string]string{"username": "ali"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// TestLogLifecycle walks the full edit flow: create from a template, replace
// with a rest day, delete, and observe the 404 afterwards.
func TestLogLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := loginAs(t, s, "ali", "pw1")

	// Create from template: no exercises in the request means defaults.
	rec := do(t, s, http.MethodPut, "/api/v1/logs/2024-03-01", token, map[string]any{"type": "Anterior A"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d (body %s), want 200", rec.Code, rec.Body.String())
	}
	var created models.DayLog
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if len(created.Exercises) != 8 {
		t.Fatalf("created log has %d exercises, want 8", len(created.Exercises))
	}
	for _, e := range created.Exercises {
		if e.Sets != 3 || e.Reps != 10 || e.Weight != 10.0 {
			t.Errorf("%s defaults = {%d %d %v}, want {3 10 10}", e.Name, e.Sets, e.Reps, e.Weight)
		}
	}

	// Replace with a rest day: full replace, exercises dropped.
	rec = do(t, s, http.MethodPut, "/api/v1/logs/2024-03-01", token, map[string]any{"type": "Rest"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rest put status = %d, want 200", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/logs/2024-03-01", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var got models.DayLog
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Type != models.TypeRest {
		t.Errorf("type = %q, want Rest", got.Type)
	}
	if len(got.Exercises) != 0 {
		t.Errorf("rest log has %d exercises, want 0", len(got.Exercises))
	}

	// Delete, then the log is gone; a second delete is still a 204.
	if rec = do(t, s, http.MethodDelete, "/api/v1/logs/2024-03-01", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	if rec = do(t, s, http.MethodGet, "/api/v1/logs/2024-03-01", token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
	if rec = do(t, s, http.MethodDelete, "/api/v1/logs/2024-03-01", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("second delete status = %d, want 204", rec.Code)
	}
}

// TestSaveReplacesExercises verifies an edit save replaces the whole exercise
// sequence rather than merging.
func TestSaveReplacesExercises(t *testing.T) {
	s := newTestServer(t)
	token := loginAs(t, s, "ali", "pw1")

	do(t, s, http.MethodPut, "/api/v1/logs/2024-03-01", token, map[string]any{"type": "Anterior A"})

	edited := []models.ExerciseEntry{
		{Name: "Butterfly", Sets: 4, Reps: 8, Weight: 45},
	}
	rec := do(t, s, http.MethodPut, "/api/v1/logs/2024-03-01", token, map[string]any{"type": "Anterior A", "exercises": edited})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d (body %s), want 200", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/api/v1/logs/2024-03-01", token, nil)
	var got models.DayLog
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Exercises) != 1 {
		t.Fatalf("saved log has %d exercises, want 1 (full replace)", len(got.Exercises))
	}
	if got.Exercises[0].Weight != 45 {
		t.Errorf("weight = %v, want 45", got.Exercises[0].Weight)
	}
}

// TestPutLogValidation verifies the service-boundary checks: unknown type,
// malformed date, and out-of-bounds entries.
func TestPutLogValidation(t *testing.T) {
	s := newTestServer(t)
	token := loginAs(t, s, "ali", "pw1")

	rec := do(t, s, http.MethodPut, "/api/v1/logs/2024-03-01", token, map[string]any{"type": "Leg Day"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown type status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodPut, "/api/v1/logs/March-1st", token, map[string]any{"type": "Rest"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}

	bad := []models.ExerciseEntry{{Name: "Butterfly", Sets: 11, Reps: 10, Weight: 10}}
	rec = do(t, s, http.MethodPut, "/api/v1/logs/2024-03-01", token, map[string]any{"type": "Anterior A", "exercises": bad})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-bounds sets status = %d, want 400", rec.Code)
	}

	bad = []models.ExerciseEntry{{Name: "Butterfly", Sets: 3, Reps: 10, Weight: 750}}
	rec = do(t, s, http.MethodPut, "/api/v1/logs/2024-03-01", token, map[string]any{"type": "Anterior A", "exercises": bad})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-bounds weight status = %d, want 400", rec.Code)
	}
}

// TestLeaderboardPublic verifies the leaderboard is reachable without a
// session and ranks users by non-rest days.
func TestLeaderboardPublic(t *testing.T) {
	s := newTestServer(t)

	aliToken := loginAs(t, s, "ali", "pw1")
	beaToken := loginAs(t, s, "bea", "pw2")

	do(t, s, http.MethodPut, "/api/v1/logs/2024-03-01", aliToken, map[string]any{"type": "Anterior A"})
	do(t, s, http.MethodPut, "/api/v1/logs/2024-03-02", aliToken, map[string]any{"type": "Rest"})
	do(t, s, http.MethodPut, "/api/v1/logs/2024-03-01", beaToken, map[string]any{"type": "Posterior A"})
	do(t, s, http.MethodPut, "/api/v1/logs/2024-03-02", beaToken, map[string]any{"type": "Posterior B"})

	rec := do(t, s, http.MethodGet, "/api/v1/leaderboard", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard status = %d, want 200", rec.Code)
	}
	var board []stats.LeaderboardEntry
	if err := json.NewDecoder(rec.Body).Decode(&board); err != nil {
		t.Fatal(err)
	}
	if len(board) != 2 {
		t.Fatalf("leaderboard has %d entries, want 2", len(board))
	}
	if board[0].Username != "bea" || board[0].WorkoutDayCount != 2 {
		t.Errorf("first entry = %+v, want {bea 2}", board[0])
	}
	if board[1].Username != "ali" || board[1].WorkoutDayCount != 1 {
		t.Errorf("second entry = %+v, want {ali 1}", board[1])
	}
}

// TestConsistencyEndpoint verifies the no-data and populated responses.
func TestConsistencyEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := loginAs(t, s, "ali", "pw1")

	rec := do(t, s, http.MethodGet, "/api/v1/consistency", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("empty consistency status = %d, want 204", rec.Code)
	}

	do(t, s, http.MethodPut, "/api/v1/logs/2024-03-01", token, map[string]any{"type": "Anterior A"})
	do(t, s, http.MethodPut, "/api/v1/logs/2024-03-03", token, map[string]any{"type": "Rest"})

	rec = do(t, s, http.MethodGet, "/api/v1/consistency", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("consistency status = %d, want 200", rec.Code)
	}
	var sum stats.ConsistencySummary
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatal(err)
	}
	if sum.TotalDays != 3 || sum.Workouts != 1 || sum.Rest != 1 || sum.Missed != 1 {
		t.Errorf("summary = %+v, want 3 days, one of each state", sum)
	}
}

// TestCalendarEndpoint verifies the month grid endpoint and its validation.
func TestCalendarEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := loginAs(t, s, "ali", "pw1")

	do(t, s, http.MethodPut, "/api/v1/logs/2024-03-05", token, map[string]any{"type": "Posterior A"})

	rec := do(t, s, http.MethodGet, "/api/v1/calendar?year=2024&month=3", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar status = %d, want 200", rec.Code)
	}
	var cells []history.DayCell
	if err := json.NewDecoder(rec.Body).Decode(&cells); err != nil {
		t.Fatal(err)
	}
	if len(cells) != 31 {
		t.Fatalf("March grid has %d cells, want 31", len(cells))
	}
	if cells[4].State != models.StateWorkout || cells[4].Label != "Post A" {
		t.Errorf("2024-03-05 cell = {%q %q}, want {Workout \"Post A\"}", cells[4].State, cells[4].Label)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/calendar?year=2024&month=13", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad month status = %d, want 400", rec.Code)
	}
}

// TestHistoryIsolation verifies one user never sees another user's logs.
func TestHistoryIsolation(t *testing.T) {
	s := newTestServer(t)
	aliToken := loginAs(t, s, "ali", "pw1")
	beaToken := loginAs(t, s, "bea", "pw2")

	do(t, s, http.MethodPut, "/api/v1/logs/2024-03-01", aliToken, map[string]any{"type": "Anterior A"})

	rec := do(t, s, http.MethodGet, "/api/v1/history", beaToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d, want 200", rec.Code)
	}
	var h map[string]models.DayLog
	if err := json.NewDecoder(rec.Body).Decode(&h); err != nil {
		t.Fatal(err)
	}
	if len(h) != 0 {
		t.Errorf("bea's history has %d logs, want 0", len(h))
	}

	if rec = do(t, s, http.MethodGet, "/api/v1/logs/2024-03-01", beaToken, nil); rec.Code != http.StatusNotFound {
		t.Errorf("cross-user get status = %d, want 404", rec.Code)
	}
}

// TestTemplatesEndpoint verifies the fixed catalog is served publicly.
func TestTemplatesEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/templates", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("templates status = %d, want 200", rec.Code)
	}
	var catalog []struct {
		Name      string   `json:"name"`
		Exercises []string `json:"exercises"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&catalog); err != nil {
		t.Fatal(err)
	}
	if len(catalog) != 4 {
		t.Fatalf("catalog has %d templates, want 4", len(catalog))
	}
	if catalog[0].Name != "Anterior A" || len(catalog[0].Exercises) != 8 {
		t.Errorf("first template = %q with %d exercises, want Anterior A with 8", catalog[0].Name, len(catalog[0].Exercises))
	}
}

// TestLogout verifies a revoked session stops working.
func TestLogout(t *testing.T) {
	s := newTestServer(t)
	token := loginAs(t, s, "ali", "pw1")

	if rec := do(t, s, http.MethodPost, "/api/v1/logout", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/history", token, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("history after logout status = %d, want 401", rec.Code)
	}
}
