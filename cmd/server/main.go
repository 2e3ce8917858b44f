package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/masterdesk/api/internal/client"
	"github.com/masterdesk/api/internal/config"
	"github.com/masterdesk/api/internal/engine"
	"github.com/masterdesk/api/internal/handler"
	"github.com/masterdesk/api/internal/middleware"
	"github.com/masterdesk/api/internal/ratelimit"
	"github.com/masterdesk/api/internal/service"
	"github.com/masterdesk/api/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize validator
	validate := validator.New()

	// Initialize LLM client for parameter generation
	llmClient := client.NewLLMClient(&cfg.LLM)
	if !llmClient.IsConfigured() {
		log.Println("Info: LLM not configured, parameter generation will serve presets")
	}

	// Initialize R2 client (optional - continues if not configured)
	var storageClient client.StorageClient
	if cfg.R2.AccessKeyID != "" && cfg.R2.SecretAccessKey != "" {
		r2Client, err := client.NewR2Client(&cfg.R2)
		if err != nil {
			log.Printf("Warning: R2 client not initialized: %v", err)
		} else {
			storageClient = r2Client
		}
	} else {
		log.Println("Info: R2 storage not configured, serving results from local output dir")
	}

	// Initialize the mastering engine wrapper
	masteringEngine := engine.NewEngine(engine.NewCLIRunner(), cfg.Engine.Binary, cfg.Engine.StderrTailSize)

	// Initialize job store
	jobStore := store.NewJobStore()

	// Initialize services
	masterService := service.NewMasterService(
		jobStore,
		masteringEngine,
		storageClient,
		cfg.Engine.OutputDir,
		time.Duration(cfg.Engine.TimeoutSec)*time.Second,
	)
	paramsService := service.NewParamsService(
		llmClient,
		cfg.LLM.MaxAttempts,
		time.Duration(cfg.LLM.BackoffMs)*time.Millisecond,
	)
	analysisService := service.NewAnalysisService(masteringEngine, storageClient)
	uploadService := service.NewUploadService(storageClient)

	// Initialize handlers
	masterHandler := handler.NewMasterHandler(masterService, validate)
	paramsHandler := handler.NewParamsHandler(paramsService, validate)
	analyzeHandler := handler.NewAnalyzeHandler(analysisService, validate)
	uploadHandler := handler.NewUploadHandler(uploadService)

	// Token bucket guarding parameter generation
	generateBucket := ratelimit.NewBucket(
		cfg.RateLimit.GenerateCapacity,
		time.Duration(cfg.RateLimit.GenerateWindowSec)*time.Second,
	)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    50 * 1024 * 1024, // 50MB
	})

	// Global middleware
	app.Use(recover.New())
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Base URL - timestamp
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"llm":    llmClient.IsConfigured(),
				"r2":     storageClient != nil,
				"engine": cfg.Engine.Binary,
			},
		})
	})

	// Rendered masters when serving from local storage
	app.Static("/files", cfg.Engine.OutputDir)

	// API routes
	api := app.Group("/api")

	// Parameter generation (rate-limited)
	params := api.Group("/params", middleware.RateLimit(generateBucket))
	params.Post("/generate", paramsHandler.Generate)

	// Mastering jobs
	master := api.Group("/master")
	master.Post("/jobs", masterHandler.Submit)
	master.Get("/jobs/:jobId", masterHandler.Status)

	// Audio analysis
	audio := api.Group("/audio")
	audio.Post("/analyze", analyzeHandler.Analyze)

	// Upload routes
	upload := api.Group("/upload")
	upload.Post("/url", uploadHandler.CreateURL)
	upload.Post("/audio", uploadHandler.Audio)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
