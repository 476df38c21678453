// Package main is the entry point for the VisionDeck server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visiondeck/internal/ai"
	"visiondeck/internal/cache"
	"visiondeck/internal/config"
	"visiondeck/internal/database"
	"visiondeck/internal/deck"
	"visiondeck/internal/handlers"
	"visiondeck/internal/images"
	"visiondeck/internal/middleware"
	"visiondeck/internal/pdf"
	"visiondeck/internal/pptx"
	"visiondeck/internal/router"
	"visiondeck/internal/storage"
	"visiondeck/internal/store"
	"visiondeck/internal/viewer"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed a demo deck in development (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible export cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	exportCache := cache.NewExportCache(valkeyClient, cache.DefaultExportTTL)

	presentationStore := store.NewPresentationStore(db)

	// Connect to S3-compatible object storage for generated images.
	// Optional — without it the DALL-E fallback is disabled and decks
	// rely on Unsplash alone.
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3Bucket,
		)
	} else {
		slog.Warn("s3 storage not configured, generated-image fallback disabled")
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Assemble the generation pipeline. Each image stage is optional; the
	// generator degrades per-stage when one is missing.
	var searcher deck.ImageSearcher
	if cfg.UnsplashKey != "" {
		searcher = images.NewClient(cfg.UnsplashKey, cfg.UnsplashBaseURL)
	} else {
		slog.Warn("unsplash not configured, image search disabled")
	}

	var imageGen deck.ImageGenerator
	if aiRegistry.SupportsImageGeneration() {
		imageGen = aiRegistry
	}

	var imageStore deck.ImageStore
	if storageClient != nil {
		imageStore = storageClient
	}

	generator := deck.NewGenerator(aiRegistry, searcher, imageGen, imageStore, cfg.ImageWorkers)

	pptxWriter := pptx.NewWriter(30 * time.Second)
	pdfExporter := pdf.NewExporter(cfg.ViewerBaseURL, cfg.BrowserBinPath, pdf.DefaultImageWait)

	deckViewer, err := viewer.New()
	if err != nil {
		slog.Error("failed to initialize viewer templates", "error", err)
		os.Exit(1)
	}

	api := handlers.NewAPI(
		presentationStore, generator, aiRegistry,
		pptxWriter, pdfExporter, exportCache, deckViewer,
	)

	// Rate-limit deck creation; each call fans out to the LLM and the
	// image services.
	limiter := middleware.NewRateLimiter(10, time.Minute)
	defer limiter.Stop()

	r := router.New(api, limiter)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate generation requests that wait on LLM
	// responses plus image resolution (typically 15-60s end to end).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
