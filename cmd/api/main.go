package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/patinhas/internal/config"
	"github.com/joshua-takyi/patinhas/internal/connect"
	"github.com/joshua-takyi/patinhas/internal/container"
	"github.com/joshua-takyi/patinhas/internal/helpers"
	"github.com/joshua-takyi/patinhas/internal/models"
	"github.com/joshua-takyi/patinhas/internal/routes"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting Patinhas API server", "environment", cfg.Environment, "store", cfg.StoreDriver)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	clients := container.Clients{}

	clients.Supabase, err = connect.InitSupabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to Supabase", "error", err)
		os.Exit(1)
	}

	if cfg.StoreDriver == config.StorePostgres {
		clients.Postgres, err = connect.PostgresConnect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to connect to Postgres", "error", err)
			os.Exit(1)
		}
		defer clients.Postgres.Close()
		logger.Info("Connected to Postgres successfully")
	}

	if cfg.MongoDBURI != "" {
		clients.MongoDB, err = connect.MongoDBConnect(ctx, cfg.MongoDBURI, cfg.MongoDBPassword)
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		if err := models.MongodbNewRepo(clients.MongoDB).EnsureNotificationIndexes(ctx); err != nil {
			logger.Warn("Notification indexes not created", "error", err)
		}
		logger.Info("Connected to MongoDB successfully")
	}

	if cfg.RedisAddr != "" {
		clients.Redis, err = connect.RedisConnect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// rate limiting is optional
			logger.Warn("Redis unavailable, rate limiting disabled", "error", err)
		} else {
			defer clients.Redis.Close()
			logger.Info("Connected to Redis successfully")
		}
	}

	if cfg.CloudinaryEnabled() {
		clients.Cloudinary, err = connect.CloudinaryCredentials(cfg)
		if err != nil {
			logger.Warn("Cloudinary unavailable, services listed without images", "error", err)
		}
	}

	verifier, err := newVerifier(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to set up token verification", "error", err)
		os.Exit(1)
	}
	defer verifier.Close()

	if !cfg.EmailEnabled() {
		logger.Warn("RESEND_API_KEY not set, confirmation emails are disabled")
	}

	appContainer := container.NewContainer(cfg, logger, verifier, clients)
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := connect.MongoDBDisconnect(clients.MongoDB); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

// newVerifier prefers the project JWT secret and falls back to the JWKS
// endpoint for projects using asymmetric signing keys.
func newVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*helpers.TokenVerifier, error) {
	if cfg.SupabaseJWTSecret != "" {
		return helpers.NewHMACVerifier(cfg.SupabaseJWTSecret), nil
	}
	return helpers.NewJWKSVerifier(ctx, cfg.SupabaseURL, logger)
}

func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
