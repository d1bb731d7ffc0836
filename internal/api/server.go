// Package api serves the profile store over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/snowflake-ladder/snowflake/internal/identity"
	"github.com/snowflake-ladder/snowflake/internal/store"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

// Options configures a Server.
type Options struct {
	Registry *tracks.Registry
	Repo     store.ProfileRepo

	// AuthSecret enables token checks on writes when non-empty.
	AuthSecret []byte

	// RequestTimeout bounds every request. Zero means 30s.
	RequestTimeout time.Duration
}

// Server represents the HTTP API server.
type Server struct {
	reg        *tracks.Registry
	repo       store.ProfileRepo
	authSecret []byte
	timeout    time.Duration
	router     *chi.Mux
}

// NewServer creates a new API server.
func NewServer(opts Options) *Server {
	s := &Server{
		reg:        opts.Registry,
		repo:       opts.Repo,
		authSecret: opts.AuthSecret,
		timeout:    opts.RequestTimeout,
	}
	if s.timeout <= 0 {
		s.timeout = 30 * time.Second
	}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) authEnabled() bool { return len(s.authSecret) > 0 }

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	// The original web client is served from any origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	if s.authEnabled() {
		r.Use(identity.Middleware(s.authSecret))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// Legacy endpoints used by the web client.
	r.Get("/get", s.handleLegacyGet)
	r.Post("/update", s.handleLegacyUpdate)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/teams", func(r chi.Router) {
			r.Get("/", s.handleListTeams)
			r.Get("/{team}", s.handleGetTeam)
		})
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.handleListProfiles)
			r.Route("/{username}", func(r chi.Router) {
				r.Get("/", s.handleGetProfile)
				r.Put("/", s.handlePutProfile)
				r.Delete("/", s.handleDeleteProfile)
				r.Get("/summary", s.handleProfileSummary)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
