// Package server exposes the region dataset and interactive map sessions over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/regionmap/internal/region"
	"github.com/sells-group/regionmap/internal/render"
	"github.com/sells-group/regionmap/internal/session"
)

// DefaultWidth is the viewport width assumed when a client does not send one.
const DefaultWidth = 1024

// Options configures the HTTP layer.
type Options struct {
	RateLimit      float64
	RateBurst      int
	AllowedOrigins []string
	Timeout        time.Duration
}

// Server serves the region and session API.
type Server struct {
	ds      *region.Dataset
	store   *session.Store
	opts    Options
	limiter *clientLimiter
	log     *zap.Logger
}

// New creates a Server.
func New(ds *region.Dataset, store *session.Store, opts Options) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{
		ds:      ds,
		store:   store,
		opts:    opts,
		limiter: newClientLimiter(opts.RateLimit, opts.RateBurst),
		log:     zap.L().With(zap.String("component", "server")),
	}
}

// RunLimiterSweeper drops per-client rate limiters idle for longer than idle,
// checking every interval until ctx is done.
func (s *Server) RunLimiterSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.prune(idle); n > 0 {
				s.log.Debug("pruned idle rate limiters", zap.Int("count", n))
			}
		}
	}
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Middleware)
		s.Register(r)
	})
	return r
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Route("/regions", func(r chi.Router) {
		r.Get("/provinces", s.handleProvinces)
		r.Get("/provinces/{code}/regencies", s.handleRegencies)
		r.Get("/search", s.handleSearch)
		r.Get("/locate", s.handleLocate)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/stats", s.handleSessionStats)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/click", s.handleClick)
			r.Post("/hover", s.handleHover)
			r.Post("/leave", s.handleLeave)
			r.Post("/reset", s.handleReset)
			r.Put("/selection", s.handleSelection)
			r.Put("/viewport", s.handleViewport)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case eris.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case eris.Is(err, render.ErrStaleLayer):
		return http.StatusConflict
	case eris.Is(err, render.ErrNoPath):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("server: request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	writeError(w, status, err.Error())
}
