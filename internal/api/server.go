// Package api provides the HTTP server for Money Mates: a JSON API over the
// services plus a Server-Sent Events change stream.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/moneymates/internal/auth"
	"github.com/mmynk/moneymates/internal/middleware"
	"github.com/mmynk/moneymates/internal/realtime"
	"github.com/mmynk/moneymates/internal/service"
)

// DefaultPingInterval is how often idle change streams get a keep-alive.
const DefaultPingInterval = 25 * time.Second

// Options configures optional parts of the server.
type Options struct {
	// Metrics enables the /metrics Prometheus endpoint.
	Metrics bool

	// StaticDir, when set, is served for every non-API path.
	StaticDir string

	// AllowedOrigins restricts CORS. Empty allows any origin.
	AllowedOrigins []string

	PingInterval time.Duration
}

// Server is the Money Mates HTTP API server.
type Server struct {
	svc  *service.Services
	jwt  *auth.JWTManager
	hub  *realtime.Hub
	opts Options
}

// NewServer creates a new API server.
func NewServer(svc *service.Services, jwt *auth.JWTManager, hub *realtime.Hub, opts Options) *Server {
	if opts.PingInterval <= 0 {
		opts.PingInterval = DefaultPingInterval
	}
	return &Server{svc: svc, jwt: jwt, hub: hub, opts: opts}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(s.opts.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Logging)

		// Sign-in screen
		r.Get("/profiles", s.handleListProfiles)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.jwt))

			r.Get("/me", s.handleMe)
			r.Patch("/profiles/{id}", s.handleUpdateProfile)
			r.Put("/me/pin", s.handleSetPIN)

			r.Get("/transactions", s.handleListTransactions)
			r.Post("/transactions", s.handleAddTransaction)
			r.Delete("/transactions/{id}", s.handleDeleteTransaction)
			r.Get("/summary", s.handleSummary)
			r.Get("/analytics/monthly", s.handleMonthly)

			r.Get("/goals", s.handleListGoals)
			r.Post("/goals", s.handleCreateGoal)
			r.Put("/goals/{id}/amount", s.handleSetGoalAmount)
			r.Post("/goals/{id}/contributions", s.handleContributeGoal)
			r.Delete("/goals/{id}", s.handleDeleteGoal)

			r.Get("/target", s.handleGetTarget)
			r.Put("/target", s.handleSetTarget)
			r.Put("/target/active", s.handleSetTargetActive)
			r.Get("/target/stats", s.handleStats)

			r.Get("/periods", s.handleListPeriods)
			r.Get("/periods/owed", s.handleTotalOwed)
			r.Post("/periods/close", s.handleClosePeriod)
			r.Post("/periods/{id}/repay", s.handleRepay)

			r.Get("/game", s.handleGetGame)
			r.Post("/game", s.handleCreateGame)
			r.Delete("/game", s.handleEndGame)
			r.Post("/game/join", s.handleJoinGame)
			r.Post("/game/commands", s.handleGameCommand)
			r.Post("/game/decision", s.handleStartDecision)
			r.Post("/game/decision/answer", s.handleAnswerDecision)

			r.Post("/coach/chat", s.handleCoachChat)

			r.Get("/stream", s.handleStream)
		})
	})

	if s.opts.StaticDir != "" {
		r.Get("/*", s.staticHandler(s.opts.StaticDir))
	}

	return r
}

// staticHandler serves files from dir and falls back to index.html for
// unknown paths.
func (s *Server) staticHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(dir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}
}
