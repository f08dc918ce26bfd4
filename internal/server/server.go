package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/auth"
	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    storage.Store
	history  *history.Service
	auth     *auth.Service
	sessions *auth.Sessions
	log      *slog.Logger
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(store storage.Store, authSvc *auth.Service, sessions *auth.Sessions, log *slog.Logger) *Server {
	s := &Server{
		store:    store,
		history:  history.NewService(store),
		auth:     authSvc,
		sessions: sessions,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Public endpoints: account creation and the login-page leaderboard
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/templates", s.handleTemplates)

		// Session-scoped endpoints
		r.Group(func(r chi.Router) {
			r.Use(SessionAuth(s.sessions))
			r.Post("/logout", s.handleLogout)
			r.Get("/history", s.handleHistory)
			r.Get("/calendar", s.handleCalendar)
			r.Get("/consistency", s.handleConsistency)
			r.Get("/logs/{date}", s.handleGetLog)
			r.Put("/logs/{date}", s.handlePutLog)
			r.Delete("/logs/{date}", s.handleDeleteLog)
		})
	})
}
