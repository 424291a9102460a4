package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-booking-api/core/cache"
	"go-booking-api/core/config"
	"go-booking-api/core/database"
	"go-booking-api/core/logger"
	"go-booking-api/core/middleware"
	"go-booking-api/core/validator"
	"go-booking-api/core/worker"
	"go-booking-api/modules/booking"
	"go-booking-api/modules/slot"

	"github.com/labstack/echo/v4"
)

// Run boots the process: config, logging, storage, cache, HTTP modules and
// the background worker, then serves until interrupted.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.LogLevel)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
	})
	if err != nil {
		return err
	}

	if err := cache.Init(cfg.Redis); err != nil {
		// Cache is an optimization; the engine is correct without it.
		logger.Warn("Continuing without redis cache", "error", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.NewRequestValidator()

	mw := middleware.NewMiddleware()
	mw.Setup(e)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	slotRepo := slot.Init(e, db)
	bookingSvc := booking.Init(e, db, slotRepo)

	w := worker.New(cfg, bookingSvc)
	if w != nil {
		if err := w.Start(); err != nil {
			logger.Error("Failed to start background worker", "error", err)
		} else {
			defer w.Shutdown()
		}
	}

	// Start server with graceful shutdown.
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server stopped", "error", err)
		}
	}()
	logger.Info("Server started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
