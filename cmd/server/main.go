package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"nugget/internal/auth"
	"nugget/internal/config"
	"nugget/internal/handler"
	"nugget/internal/middleware"
	"nugget/internal/repository/postgres"
	"nugget/internal/service"
	"nugget/internal/service/ingest"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logWriter io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logWriter = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier for upstream-issued identities
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	nuggetRepo := postgres.NewNuggetRepository(repoConfig)
	bookmarkRepo := postgres.NewBookmarkRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	linkRepo := postgres.NewLinkRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Services
	membership := service.NewMembershipService(folderRepo, bookmarkRepo, linkRepo, logger)
	folderService := service.NewFolderService(folderRepo, linkRepo, membership, txManager, logger)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, folderRepo, linkRepo, membership, txManager, logger)
	nuggetService := service.NewNuggetService(nuggetRepo, logger)

	// Summarization pipeline
	capabilityRegistry, err := ingest.NewCapabilityRegistry()
	if err != nil {
		log.Fatalf("Failed to load model capabilities: %v", err)
	}
	if cfg.SummaryModel != "" {
		if err := capabilityRegistry.SetDefaultModel(cfg.SummaryModel); err != nil {
			log.Fatalf("Invalid SUMMARY_MODEL: %v", err)
		}
	}
	keyring, err := ingest.NewKeyring(cfg.AnthropicAPIKeys)
	if err != nil {
		log.Fatalf("Failed to set up API keyring: %v", err)
	}
	summarizer := ingest.NewAnthropicSummarizer(keyring, capabilityRegistry, logger)
	ingestService := ingest.NewService(nuggetRepo, summarizer, logger)

	logger.Info("services initialized", "summary_keys", keyring.Len())

	// Handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkService, logger)
	linkHandler := handler.NewLinkHandler(bookmarkService, logger)
	nuggetHandler := handler.NewNuggetHandler(nuggetService, ingestService, logger)

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", nuggetHandler.HealthCheck)

	// Folder routes
	mux.HandleFunc("GET /api/bookmark-folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/bookmark-folders", folderHandler.CreateFolder)
	mux.HandleFunc("PATCH /api/bookmark-folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/bookmark-folders/{id}", folderHandler.DeleteFolder)

	// Bookmark routes
	mux.HandleFunc("GET /api/bookmarks", bookmarkHandler.ListByFolder)
	mux.HandleFunc("POST /api/bookmarks", bookmarkHandler.CreateBookmark)
	mux.HandleFunc("DELETE /api/bookmarks/{nuggetID}", bookmarkHandler.DeleteBookmark)
	mux.HandleFunc("GET /api/bookmarks/{nuggetID}/folders", bookmarkHandler.FoldersOfNugget)

	// Link routes
	mux.HandleFunc("POST /api/bookmark-folder-links", linkHandler.AddToFolders)
	mux.HandleFunc("DELETE /api/bookmark-folder-links", linkHandler.RemoveFromFolder)

	// Nugget routes
	mux.HandleFunc("POST /api/nuggets", nuggetHandler.CreateNugget)
	mux.HandleFunc("GET /api/nuggets/{id}", nuggetHandler.GetNugget)
	mux.HandleFunc("POST /api/nuggets/{id}/summary", nuggetHandler.DraftSummary)

	// Build middleware chain. Applied in reverse order (they wrap each other):
	// CORS -> Recovery -> Auth -> Routes
	var root http.Handler = mux
	root = middleware.AuthMiddleware(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // summary drafting waits on the LLM provider
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
