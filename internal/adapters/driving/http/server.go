// Package http serves the upload and manifest API over chi.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/lwb-ingest/internal/logger"
	"github.com/custodia-labs/lwb-ingest/internal/metrics"
)

// Config holds server configuration.
type Config struct {
	Addr string

	// MaxUploadSize bounds the uploaded document, in bytes.
	MaxUploadSize int64

	// RateLimit is the sustained upload rate per second. Zero disables limiting.
	RateLimit float64
	Burst     int

	// Defaults apply when a request does not set the html field.
	Defaults domain.ParseOptions
}

// DefaultConfig returns a config built from default settings.
func DefaultConfig() Config {
	return ConfigFromSettings(domain.DefaultSettings())
}

// ConfigFromSettings maps resolved settings onto a server config.
func ConfigFromSettings(s domain.Settings) Config {
	return Config{
		Addr:          s.Server.Addr,
		MaxUploadSize: s.Ingest.MaxFileSize,
		RateLimit:     s.Server.RateLimit,
		Burst:         s.Server.Burst,
		Defaults: domain.ParseOptions{
			WithHTML:         s.Ingest.WithHTML,
			ExtractMediaData: s.Ingest.ExtractMediaData,
		},
	}
}

// Server is the HTTP API.
type Server struct {
	cfg        Config
	httpServer *http.Server
	router     chi.Router
	limiter    *rate.Limiter
	metrics    *metrics.Metrics

	ingestion driving.IngestionService
	articles  driving.ArticleService // nil when publishing is disabled
}

// NewServer creates the server. articles may be nil; m may be nil.
func NewServer(
	cfg Config,
	ingestion driving.IngestionService,
	articles driving.ArticleService,
	m *metrics.Metrics,
) *Server {
	if m == nil {
		m = metrics.New()
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = domain.DefaultMaxFileSize
	}

	s := &Server{
		cfg:       cfg,
		router:    chi.NewRouter(),
		metrics:   m,
		ingestion: ingestion,
		articles:  articles,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(instrument(s.metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rateLimit(s.limiter))
			r.Post("/articles", s.handlePublish)
			r.Post("/parse", s.handleParse)
		})

		r.Get("/manifest", s.handleListManifests)
		r.Get("/articles/{id}", s.handleGetArticle)
		r.Delete("/articles/{id}", s.handleDeleteArticle)
		r.Get("/articles/{id}/manifest", s.handleGetManifest)
		r.Get("/articles/{id}/verify", s.handleVerify)
	})
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
