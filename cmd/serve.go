package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"task-manager.com/task-manager/internal/auth"
	config "task-manager.com/task-manager/internal/configs"
	httpapi "task-manager.com/task-manager/internal/http"
	middleware "task-manager.com/task-manager/internal/http/middlewares"
	"task-manager.com/task-manager/internal/ratelimit"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		database, err := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := config.Migrate(database); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		limiter, closeLimiter, err := newLimiter(cfg)
		if err != nil {
			return err
		}
		defer closeLimiter()

		userRepo := repository.NewUserRepository(database)
		taskRepo := repository.NewTaskRepository(database)
		issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

		userService := services.NewUserService(userRepo, issuer, logger)
		taskService := services.NewTaskService(taskRepo, logger)

		e := httpapi.NewServer(logger)
		e.Use(middleware.RequestLogger(logger))
		e.Use(middleware.RateLimiter(limiter, logger))

		handler := httpapi.NewHandler(userService, taskService, database)
		httpapi.Register(e, handler, middleware.JWTAuth(userService))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serverErr := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", zap.String("addr", cfg.AppURL))
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		select {
		case err := <-serverErr:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

func newLimiter(cfg config.Config) (ratelimit.Limiter, func(), error) {
	if cfg.RateLimitStore == config.RateLimitStoreRedis {
		client, err := config.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return ratelimit.NewRedisLimiter(client, cfg.RedisKeyPrefix, cfg.RateLimit, time.Minute), client.Close, nil
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimit, time.Minute), func() {}, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
