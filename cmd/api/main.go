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
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/resume-parser/internal/bootstrap"
	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/handlers"
	"alfredoptarigan/resume-parser/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	appLog := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	defer appLog.Sync()
	appLog.Info("✅ Config loaded successfully", map[string]interface{}{
		"provider": cfg.LLM.Provider,
		"env":      cfg.Server.Env,
	})

	ctx := context.Background()

	// Initialize services
	components, err := bootstrap.Build(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Error("❌ Failed to initialize services", nil)
		os.Exit(1)
	}
	defer components.Close()

	if err := components.Storage.EnsureUploadDir(); err != nil {
		appLog.WithError(err).Error("❌ Failed to create upload directory", nil)
		os.Exit(1)
	}
	appLog.Info("✅ Services initialized successfully", nil)

	// Initialize Handlers
	processHandler := handlers.NewProcessHandler(
		components.Storage,
		components.PDFParser,
		components.Analyzer,
		cfg.Limits.MaxUploadBytes,
		cfg.Limits.MaxJobDescriptionChars,
		appLog,
	)
	appLog.Info("✅ Handlers initialized", nil)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Parser API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * cfg.LLM.Timeout,
		BodyLimit:    int(cfg.Limits.MaxUploadBytes) + 64*1024,
		ErrorHandler: handlers.ErrorHandler(appLog),
	})

	// Middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Server.Debug}))
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(handlers.SecurityHeaders())

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"provider": cfg.LLM.Provider,
			"time":     time.Now(),
		})
	})

	api.Post("/process", processHandler.HandleProcess)
	app.Post("/process", processHandler.HandleProcess)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Parser API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/process",
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
		appLog.Info("🛑 Shutting down server...", nil)
		if err := app.ShutdownWithTimeout(cfg.LLM.Timeout); err != nil {
			appLog.WithError(err).Error("❌ Server forced to shutdown", nil)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	appLog.Info("🚀 Server starting", map[string]interface{}{"addr": addr})

	if err := app.Listen(addr); err != nil {
		appLog.WithError(err).Error("❌ Failed to start server", nil)
		os.Exit(1)
	}
}
