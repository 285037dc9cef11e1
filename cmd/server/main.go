package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iMedia24/workplacify/internal/app"
	"github.com/iMedia24/workplacify/internal/config"
	"github.com/iMedia24/workplacify/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Init(logger.Config{
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Service: "workplacify",
	})
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", map[string]any{
			"error": err.Error(),
		})
	}

	go func() {
		if err := application.Run(); err != nil {
			logger.Fatal("http server failed", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	logger.Info("workplacify started", map[string]any{
		"port":     cfg.AppPort,
		"base_url": cfg.BaseURL,
	})

	<-ctx.Done()

	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Info("workplacify stopped cleanly", nil)
}
