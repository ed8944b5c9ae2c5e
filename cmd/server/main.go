// Reservoir - Automation Opportunity Questionnaire Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/reservoir-app/reservoir/internal/accessgate"
	"github.com/reservoir-app/reservoir/internal/api"
	"github.com/reservoir-app/reservoir/internal/auth"
	"github.com/reservoir-app/reservoir/internal/config"
	"github.com/reservoir-app/reservoir/internal/extract"
	"github.com/reservoir-app/reservoir/internal/llm"
	"github.com/reservoir-app/reservoir/internal/middleware"
	"github.com/reservoir-app/reservoir/internal/questionnaire"
	"github.com/reservoir-app/reservoir/internal/ratelimit"
	"github.com/reservoir-app/reservoir/internal/session"
	"github.com/reservoir-app/reservoir/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Session store and rate limiter. Redis keeps both shared across
	// instances; memory is fine for a single process.
	var (
		sessionStore session.Store
		limiter      ratelimit.Limiter
	)
	switch cfg.SessionStore {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			slog.Error("Redis health check failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		sessionStore, err = session.NewRedisStore(rdb, cfg.SessionTTL)
		if err != nil {
			slog.Error("Failed to initialize redis session store", "error", err)
			os.Exit(1)
		}
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitQuota, cfg.RateLimitWindow)
		slog.Info("Redis connected", "addr", cfg.RedisAddr)
	default:
		sessionStore = session.NewMemoryStore()
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitQuota, cfg.RateLimitWindow)
	}
	defer func() {
		if closeErr := sessionStore.Close(); closeErr != nil {
			slog.Error("Failed to close session store", "error", closeErr)
		}
	}()

	registry := session.NewRegistry(sessionStore, cfg.SessionTTL)

	// Hosted user database (optional). Without it, profile endpoints report
	// unavailable and auth falls back to the dev bypass header.
	var profiles store.ProfileRepository
	if cfg.SupabaseURL != "" && cfg.SupabaseAPIKey != "" {
		sb, err := store.NewSupabase(store.SupabaseConfig{
			URL:    cfg.SupabaseURL,
			APIKey: cfg.SupabaseAPIKey,
		})
		if err != nil {
			slog.Error("Failed to initialize user database", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := sb.Close(); closeErr != nil {
				slog.Error("Failed to close user database", "error", closeErr)
			}
		}()
		profiles = sb
		slog.Info("User database connected")
	} else {
		slog.Info("User database not configured, profile endpoints disabled")
	}

	// Local transcript archive (optional).
	var archive store.TranscriptArchive
	if cfg.ArchiveEnabled {
		sqlArchive, err := store.NewSQLiteArchive(cfg.ArchiveDBPath)
		if err != nil {
			slog.Error("Failed to initialize transcript archive", "error", err)
			os.Exit(1)
		}
		if err := sqlArchive.Ping(context.Background()); err != nil {
			slog.Error("Transcript archive health check failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := sqlArchive.Close(); closeErr != nil {
				slog.Error("Failed to close transcript archive", "error", closeErr)
			}
		}()
		archive = sqlArchive
		slog.Info("Transcript archive ready", "path", cfg.ArchiveDBPath)
	}

	// Completion client. A missing API key is not fatal; the interview runs
	// on canned questions instead.
	var client llm.CompletionClient
	openaiClient, err := llm.NewOpenAIClient(llm.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Temperature: float32(cfg.OpenAI.Temperature),
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Timeout:     cfg.OpenAI.Timeout,
	})
	switch {
	case err == nil:
		client = openaiClient
		slog.Info("Completion client ready", "model", cfg.OpenAI.Model)
	case errors.Is(err, llm.ErrNoAPIKey):
		slog.Warn("No completion API key configured, serving canned questions only")
	default:
		slog.Error("Failed to initialize completion client", "error", err)
		os.Exit(1)
	}

	// Initialize services.
	svc := questionnaire.NewService(registry, extract.NewKeywordClassifier(), client, archive)

	// Initialize handlers.
	baseHandler := api.NewHandler(svc, profiles, limiter)
	gate := accessgate.New(accessgate.DefaultGuardedPrefixes, cfg.AccessRedirectURL)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	corsOrigins := []string{"*"}
	if cfg.FrontendURL != "" {
		corsOrigins = []string{cfg.FrontendURL}
	}
	r.Use(middleware.CORS(corsOrigins))
	r.Use(gate.Middleware)
	r.Use(auth.Middleware(profiles, cfg.IsDevelopment()))

	// Routes.
	api.NewQuestionnaireHandler(baseHandler).RegisterRoutes(r)
	api.NewAIHandler(baseHandler).RegisterRoutes(r)
	api.NewProfileHandler(baseHandler).RegisterRoutes(r)

	// WebSocket endpoint.
	wsHandler := api.NewChatSocketHandler(baseHandler, cfg.IsDevelopment())
	r.Get("/ws/questionnaire", wsHandler.ServeHTTP)

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start background session sweep.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry.SweepLoop(ctx, cfg.SessionTTL/2)
	slog.Info("Session sweep worker started", "session_ttl", cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
