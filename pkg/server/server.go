// Package server wires the service together: configuration, provider
// clients, cost tracker, rate limiting and the HTTP surface.
package server

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alankar423/CreatorIQ/internal/api"
	"github.com/alankar423/CreatorIQ/internal/config"
	"github.com/alankar423/CreatorIQ/internal/models"
	"github.com/alankar423/CreatorIQ/internal/services/analyzer"
	"github.com/alankar423/CreatorIQ/internal/services/costs"
	"github.com/alankar423/CreatorIQ/internal/services/middleware"
	"github.com/alankar423/CreatorIQ/internal/services/prompts"
	"github.com/alankar423/CreatorIQ/internal/services/providers"
	anthropicprovider "github.com/alankar423/CreatorIQ/internal/services/providers/anthropic"
	openaiprovider "github.com/alankar423/CreatorIQ/internal/services/providers/openai"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Server is one CreatorIQ service instance. All stateful components (cost
// tracker, rate-limit store) are constructed here and injected; there are no
// package-level singletons.
type Server struct {
	config    *config.Config
	app       *fiber.App
	tracker   *costs.Tracker
	rateStore *middleware.RateLimitStore
	analyzer  *analyzer.Analyzer
}

// New creates a Server instance with the given configuration.
// The cfg parameter is required and must not be nil.
func New(cfg *config.Config) *Server {
	if cfg == nil {
		panic("config cannot be nil - use config.LoadFromFile() to create config")
	}
	return &Server{config: cfg}
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogLevel(s.config)

	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	s.app = createFiberApp(s.config)
	s.initServices()
	s.setupMiddleware()
	s.setupRoutes()

	sweepInterval := time.Duration(s.config.RateLimits.SweepIntervalMs) * time.Millisecond
	s.rateStore.StartSweeper(sweepInterval)
	defer s.rateStore.Stop()

	// Graceful shutdown on SIGINT/SIGTERM
	shutdownDone := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		fiberlog.Info("Shutting down server...")
		if err := s.app.ShutdownWithTimeout(30 * time.Second); err != nil {
			fiberlog.Errorf("Server shutdown failed: %v", err)
		}
		close(shutdownDone)
	}()

	fiberlog.Infof("CreatorIQ listening on :%s (providers: %v)", port, s.analyzer.Providers())
	if err := s.app.Listen(":" + port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	<-shutdownDone
	return nil
}

// App exposes the fiber app, primarily for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) initServices() {
	store := prompts.NewStore()

	clients := make(map[string]providers.Client)
	if pc, ok := s.config.GetProviderConfig(models.ProviderOpenAI); ok {
		clients[models.ProviderOpenAI] = openaiprovider.NewClient(pc, store)
	}
	if pc, ok := s.config.GetProviderConfig(models.ProviderAnthropic); ok {
		clients[models.ProviderAnthropic] = anthropicprovider.NewClient(pc, store)
	}
	if len(clients) == 0 {
		fiberlog.Warn("no AI provider configured; analysis requests will fail")
	}

	s.tracker = costs.NewTracker(s.config.CostTracker.MaxRecords)
	s.rateStore = middleware.NewRateLimitStore()
	s.analyzer = analyzer.New(clients, s.tracker, s.config.Batch)
}

func (s *Server) setupMiddleware() {
	isProd := s.config.IsProduction()

	// Recover middleware (must be first)
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: !isProd,
	}))

	s.app.Use(requestid.New())

	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	if isProd {
		s.app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency} ${bytesSent}b\n",
			Output: os.Stdout,
		}))
	} else {
		s.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
			Output: os.Stdout,
		}))
	}

	allowedOrigins := s.config.Server.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, User-Agent",
		AllowMethods:  "GET, POST, OPTIONS",
		MaxAge:        86400,
		ExposeHeaders: "Content-Length, Content-Type, X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
	}))

	auth := middleware.NewAuthMiddleware(s.config.Auth)
	s.app.Use(auth.Handler())
}

func (s *Server) setupRoutes() {
	analyzeHandler := api.NewAnalyzeHandler(s.analyzer)
	usageHandler := api.NewUsageHandler(s.tracker, s.config.CostTracker)
	healthHandler := api.NewHealthHandler(s.analyzer)

	s.app.Get("/health", healthHandler.HealthCheck)

	v1 := s.app.Group("/api/v1")

	analyze := v1.Group("/analyze",
		middleware.RateLimit(s.rateStore, "analyze", s.config.RateLimits.Analyze))
	analyze.Post("/", analyzeHandler.Analyze)
	analyze.Post("/batch", analyzeHandler.AnalyzeBatch)
	analyze.Post("/estimate", analyzeHandler.EstimateCost)

	usage := v1.Group("/usage",
		middleware.RateLimit(s.rateStore, "usage", s.config.RateLimits.Usage))
	usage.Get("/stats", usageHandler.GetUsageStats)
	usage.Get("/breakdown", usageHandler.GetCostBreakdown)
	usage.Get("/budget", usageHandler.GetBudgetStatus)
	usage.Get("/providers", usageHandler.GetProviderComparison)
}

func createFiberApp(cfg *config.Config) *fiber.App {
	isProd := cfg.IsProduction()

	return fiber.New(fiber.Config{
		AppName:           "CreatorIQ v1.0",
		EnablePrintRoutes: !isProd,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       5 * time.Minute,
		ReadBufferSize:    8192,
		WriteBufferSize:   8192,
		CaseSensitive:     true,
		StrictRouting:     false,
		ServerHeader:      "CreatorIQ",
	})
}

func setupLogLevel(cfg *config.Config) {
	switch cfg.GetNormalizedLogLevel() {
	case "debug":
		fiberlog.SetLevel(fiberlog.LevelDebug)
	case "warn":
		fiberlog.SetLevel(fiberlog.LevelWarn)
	case "error":
		fiberlog.SetLevel(fiberlog.LevelError)
	default:
		fiberlog.SetLevel(fiberlog.LevelInfo)
	}
}
