package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	accesslog "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fitmatch-ai/fitmatch-api/internal/config"
	"fitmatch-ai/fitmatch-api/internal/handlers"
	"fitmatch-ai/fitmatch-api/internal/logging"
	"fitmatch-ai/fitmatch-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Server.LogLevel, cfg.IsDevelopment())
	defer func() { _ = logger.Sync() }()
	logger.Info("config loaded", "env", cfg.Server.Env, "model", cfg.Gemini.Model)

	// Initialize extraction and normalization
	extractor := services.NewTextExtractor(
		services.NewPDFParserService(),
		services.NewWordParserService(),
		cfg.Upload.AcceptedFormats,
	)
	normalizer := services.NewInputNormalizer(extractor, cfg.Analysis.MinContentLength)
	uploads := services.NewUploadService(cfg.Upload.MaxFileSize)

	// Initialize Gemini AI
	backend, err := services.NewGeminiService(context.Background(), cfg.Gemini, logger)
	if err != nil {
		logger.Fatal("failed to initialize Gemini AI", "error", err)
	}

	generator := services.NewReportGenerator(
		backend,
		cfg.Analysis.ExperiencePolicy,
		cfg.Gemini.Timeout,
		logger.With("component", "generator"),
	)
	logger.Info("services initialized",
		"accepted_formats", cfg.Upload.AcceptedFormats,
		"min_content_length", cfg.Analysis.MinContentLength,
		"experience_policy", cfg.Analysis.ExperiencePolicy,
	)

	// Initialize Handlers
	analyzeHandler := handlers.NewAnalyzeHandler(normalizer, generator, uploads, logger.With("component", "analyze"))
	formatsHandler := handlers.NewFormatsHandler(cfg.Upload, cfg.Analysis.MinContentLength)

	// Create Fiber app; the body limit admits two uploads plus form fields
	app := fiber.New(fiber.Config{
		AppName:      "FitMatch.AI API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout + 30*time.Second,
		BodyLimit:    int(2*cfg.Upload.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler(logger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(accesslog.New(accesslog.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/analyze", limiter.New(limiter.Config{
		Max:        cfg.RateLimit.Max,
		Expiration: cfg.RateLimit.Window,
		Next: func(c *fiber.Ctx) bool {
			return cfg.RateLimit.Max == 0
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.ErrTooManyRequests
		},
	}), analyzeHandler.HandleAnalyze)
	api.Get("/formats", formatsHandler.HandleFormats)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "FitMatch.AI API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/analyze",
				"GET /api/v1/formats",
				"GET /api/v1/health",
				"GET /metrics",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("shutting down server")
		if err := app.ShutdownWithTimeout(cfg.Gemini.Timeout); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server starting", "addr", addr)

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", "error", err)
	}
}
