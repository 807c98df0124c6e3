package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"choreboard/internal/handler"
	"choreboard/internal/middleware"
	"choreboard/internal/store"
)

type Server struct {
	db          *sql.DB
	choreH      *handler.ChoreHandler
	userH       *handler.UserHandler
	metrics     *middleware.Metrics
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	choreStore := store.NewChoreStore(db)
	userStore := store.NewUserStore(db)

	return &Server{
		db:          db,
		choreH:      handler.NewChoreHandler(choreStore, logger.With("component", "chore")),
		userH:       handler.NewUserHandler(userStore, logger.With("component", "user")),
		metrics:     middleware.NewMetrics(),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the limiter for periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "GET /api/chores", s.choreH.List)
	s.handle(mux, "GET /api/chores/{id}", s.choreH.Get)
	s.handleLimited(mux, "POST /api/chores", s.choreH.Create)
	s.handleLimited(mux, "PUT /api/chores/{id}", s.choreH.Update)
	s.handleLimited(mux, "DELETE /api/chores/{id}", s.choreH.Delete)

	s.handle(mux, "GET /api/users", s.userH.List)
	s.handleLimited(mux, "POST /api/users", s.userH.Create)

	s.handle(mux, "GET /health", s.healthHandler)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, s.metrics.Instrument(pattern, h))
}

// handleLimited additionally rate-limits by client IP. Write endpoints only;
// a household UI never legitimately bursts past this.
func (s *Server) handleLimited(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	limited := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 60, time.Minute)
	s.handle(mux, pattern, func(w http.ResponseWriter, r *http.Request) {
		limited(h).ServeHTTP(w, r)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
