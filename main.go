package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yerkebulan111/movie-land-platform/internal/config"
	"github.com/yerkebulan111/movie-land-platform/internal/logx"
	"github.com/yerkebulan111/movie-land-platform/internal/mongodb"
	"github.com/yerkebulan111/movie-land-platform/internal/ratelimit"
	"github.com/yerkebulan111/movie-land-platform/internal/server"
	"go.uber.org/zap"
)

const startupTimeout = 20 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logx.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	startupCtx, cancel := context.WithTimeout(logx.WithLogger(context.Background(), logger), startupTimeout)
	defer cancel()

	dbClient, err := mongodb.Connect(startupCtx, cfg.MongoURI)
	if err != nil {
		return err
	}
	db := mongodb.NewDB(dbClient, cfg.MongoDatabase)
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			logger.Warn("closing mongo connection", zap.Error(err))
		}
	}()
	logger.Info("connected to MongoDB", zap.String("database", db.GetDatabaseName()))

	if err := db.CreateAllIndexes(startupCtx, false); err != nil {
		return err
	}

	var limiter *ratelimit.Limiter
	if cfg.RedisURL != "" {
		redisClient, err := ratelimit.NewClient(startupCtx, cfg.RedisURL)
		if err != nil {
			// Rate limiting is optional, the API still serves without it
			logger.Warn("rate limiting disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			limiter = ratelimit.New(redisClient, ratelimit.Config{
				MaxRequests: cfg.RateLimitMaxRequests,
				Window:      cfg.RateLimitWindow,
			})
			logger.Info("rate limiting enabled",
				zap.Int("maxRequests", cfg.RateLimitMaxRequests),
				zap.Duration("window", cfg.RateLimitWindow),
			)
		}
	}

	httpServer := server.NewHTTPServer(server.NewServer(db, cfg, limiter, logger), cfg)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server is running",
			zap.String("port", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
		)
		serverErrors <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancelShutdown()

	return httpServer.Shutdown(shutdownCtx)
}
