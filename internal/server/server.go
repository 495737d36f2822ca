package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/XPEngine_Go/internal/database"
	"github.com/osse101/XPEngine_Go/internal/handler"
	"github.com/osse101/XPEngine_Go/internal/leveling"
	"github.com/osse101/XPEngine_Go/internal/metrics"
	"github.com/osse101/XPEngine_Go/internal/progress"
)

// Options configures the HTTP surface
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	ServiceName    string
	Detector       DetectorConfig
}

// Dependencies are the services the routes are bound to
type Dependencies struct {
	DBPool          database.Pool
	Curve           leveling.Curve
	ProgressService progress.Service
	HealthCheckers  []handler.HealthChecker
}

type Server struct {
	httpServer *http.Server
	router     chi.Router
}

// NewServer creates a new Server instance
func NewServer(opts Options, deps Dependencies) *Server {
	r := chi.NewRouter()

	// Outermost first. Auth runs before the rate limiter so failed keys are counted per IP.
	detector := NewSuspiciousActivityDetectorWithConfig(opts.Detector)

	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(DefaultMaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.DBPool, deps.HealthCheckers...))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion(opts.ServiceName, deps.Curve.MaxLevel()))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Stateless engine routes
		levels := handler.NewLevelsHandler(deps.Curve)
		r.Route("/levels", func(r chi.Router) {
			r.Get("/required", levels.HandleRequired)
			r.Get("/resolve", levels.HandleResolve)
			r.Get("/progress", levels.HandleProgress)
			r.Get("/milestone", levels.HandleMilestone)
			r.Get("/table", levels.HandleTable)
		})

		// Per-user progress routes
		progressHandler := handler.NewProgressHandler(deps.ProgressService)
		r.Route("/progress", func(r chi.Router) {
			r.Post("/register", progressHandler.HandleRegister)
			r.Get("/user", progressHandler.HandleGetProgress)
			r.Post("/award", progressHandler.HandleAwardXP)
			r.Get("/leaderboard", progressHandler.HandleLeaderboard)
			r.Get("/history", progressHandler.HandleHistory)
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           r,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			WriteTimeout:      DefaultWriteTimeout,
			IdleTimeout:       DefaultIdleTimeout,
		},
		router: r,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
