// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root: it opens the store, builds the
// services and handlers on top of it, and decides which URL patterns map to
// which handler and what middleware runs in front of them.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → store (sqlite.DB or mongostore.Store)
//	store → UserService / ExerciseService / LogService
//	services → handlers → routes
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sakif/exercise-tracker/internal/config"
	"github.com/sakif/exercise-tracker/internal/handler"
	"github.com/sakif/exercise-tracker/internal/metrics"
	"github.com/sakif/exercise-tracker/internal/middleware"
	"github.com/sakif/exercise-tracker/internal/repository"
	"github.com/sakif/exercise-tracker/internal/repository/mongostore"
	sqliteRepo "github.com/sakif/exercise-tracker/internal/repository/sqlite"
	"github.com/sakif/exercise-tracker/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the store. It is closed when Start returns, after
// in-flight requests have finished.
type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	store    repository.Store
	registry *prometheus.Registry
	limiter  *middleware.RateLimiter
}

// New opens the configured store and builds a Server on top of it.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}

	s, err := NewWithStore(cfg, logger, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

// NewWithStore builds a Server on an already opened store. The Server takes
// ownership of store.
func NewWithStore(cfg *config.Config, logger *slog.Logger, store repository.Store) (*Server, error) {
	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		store:    store,
		registry: prometheus.NewRegistry(),
	}

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := s.setupRoutes(); err != nil {
		s.stopLimiter()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return mongostore.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return sqliteRepo.New(cfg.DBPath)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /                                         → index page (HTML)
// GET    /static/*                                 → static files
// GET    /healthz                                  → store health
// GET    /metrics                                  → Prometheus metrics
// POST   /api/users                                → create user
// GET    /api/users                                → list users
// GET    /api/users/{id}                           → get user
// POST   /api/users/{id}/exercises                 → record exercise
// GET    /api/users/{id}/exercises/{exerciseId}    → get exercise
// GET    /api/users/{id}/logs                      → exercise log
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID, so every log line can carry it
// 2. RealIP, before anything keyed on the client address
// 3. Logger, which also feeds the HTTP metrics
// 4. Recoverer, inside Logger so a panic is logged as a 500
// 5. CORS, then the rate limiter on /api only
func (s *Server) setupRoutes() error {
	rec := metrics.NewCollector(s.registry)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger, rec))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	// === Static Files ===
	// GET /static/style.css → serves {StaticDir}/style.css
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// === Page Routes ===
	pageHandler, err := handler.NewPageHandler(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	s.router.Get("/", pageHandler.HandleIndex)

	// === Operational Routes ===
	s.router.Get("/healthz", handler.NewHealthHandler(s.store, s.logger).HandleHealth)
	s.router.Handle("/metrics", metrics.Handler(s.registry))

	// === API Routes ===
	// The handlers never touch the store directly. The services never touch HTTP.
	userService := service.NewUserService(s.store, s.logger, rec)
	exerciseService := service.NewExerciseService(s.store, s.store, s.logger, rec)
	logService := service.NewLogService(s.store, s.store, s.logger, rec)

	userHandler := handler.NewUserHandler(userService, s.logger)
	exerciseHandler := handler.NewExerciseHandler(exerciseService, s.logger)
	logHandler := handler.NewLogHandler(logService, s.logger)

	if s.config.RateLimitPerMinute > 0 {
		s.limiter = middleware.NewRateLimiter(middleware.PerMinute(s.config.RateLimitPerMinute), s.logger)
	}

	s.router.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.HandleCreate)
			r.Get("/", userHandler.HandleList)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.HandleGet)
				r.Post("/exercises", exerciseHandler.HandleCreate)
				r.Get("/exercises/{exerciseId}", exerciseHandler.HandleGet)
				r.Get("/logs", logHandler.HandleGet)
			})
		})
	})

	return nil
}

// Close stops background work and closes the store.
func (s *Server) Close() error {
	s.stopLimiter()
	return s.store.Close()
}

func (s *Server) stopLimiter() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait up to ShutdownTimeout for in-flight requests to finish
// 3. Close the store (flushes the SQLite WAL or disconnects from MongoDB)
func (s *Server) Start() error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("store", s.config.StoreDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
