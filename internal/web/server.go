// Package web provides the HTTP server for the airline and airport reference
// data API.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/iatacodes/internal/config"
	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/JonMunkholm/iatacodes/internal/metrics"
	mw "github.com/JonMunkholm/iatacodes/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP server for the reference data API.
type Server struct {
	service  *core.Service
	cfg      *config.Config
	metrics  *metrics.Metrics
	router   *chi.Mux
	server   *http.Server
	limiters []*mw.RateLimiter
}

// NewServer creates a new Server instance. m may be nil, in which case no
// metrics are recorded or exposed.
func NewServer(service *core.Service, cfg *config.Config, m *metrics.Metrics) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		metrics: m,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	if s.metrics != nil {
		s.router.Use(mw.Metrics(s.metrics))
	}
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.securityHeaders)
	s.router.Use(requestMetadata)

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newLimiter(s.cfg.Rate.RequestsPerMinute).Handler)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	s.router.Get("/", s.handleIndex)
	s.router.Get("/health", s.handleHealth)
	if s.metrics != nil && s.cfg.Metrics.Enabled {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	exportLimit := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled {
		exportLimit = s.newLimiter(s.cfg.Rate.ExportLimit).Handler
	}

	s.router.Route("/airlines", func(r chi.Router) {
		collection(r, s.handleListAirlines, s.handleCreateAirline)
		r.HandleFunc("/export", methodNotAllowed(http.MethodGet))
		r.With(exportLimit).Get("/export", s.handleExport("airlines"))
		member(r, s.handleGetAirline, s.handleUpdateAirline, s.handleDeleteAirline)
	})

	s.router.Route("/airports", func(r chi.Router) {
		collection(r, s.handleListAirports, s.handleCreateAirport)
		r.HandleFunc("/export", methodNotAllowed(http.MethodGet))
		r.With(exportLimit).Get("/export", s.handleExport("airports"))
		member(r, s.handleGetAirport, s.handleUpdateAirport, s.handleDeleteAirport)
	})
}

// collection registers GET and POST on "/". The catch-all is registered
// first so the specific methods override it and everything else gets 405.
func collection(r chi.Router, list, create http.HandlerFunc) {
	r.HandleFunc("/", methodNotAllowed(http.MethodGet, http.MethodPost))
	r.Get("/", list)
	r.Post("/", create)
}

// member registers GET, PUT and DELETE on "/{id}".
func member(r chi.Router, get, update, del http.HandlerFunc) {
	r.HandleFunc("/{id}", methodNotAllowed(http.MethodGet, http.MethodPut, http.MethodDelete))
	r.Get("/{id}", get)
	r.Put("/{id}", update)
	r.Delete("/{id}", del)
}

func (s *Server) newLimiter(perMinute int) *mw.RateLimiter {
	rl := mw.NewRateLimiter(perMinute, time.Minute)
	if s.metrics != nil {
		rl.OnLimit(s.metrics.ObserveRateLimited)
	}
	s.limiters = append(s.limiters, rl)
	return rl
}

// Start begins listening for HTTP requests on the configured address.
// It returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and the rate limiter janitors.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.Stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if s.cfg.Security.EnableCSP {
			w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		}
		next.ServeHTTP(w, r)
	})
}
