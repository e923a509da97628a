package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	_ "support-desk-api/docs"
	"support-desk-api/internal/config"
	"support-desk-api/internal/handlers"
	"support-desk-api/internal/middleware"
	"support-desk-api/pkg/server"
)

const maxRequestBody = 6 << 20

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize dependencies
	container, err := server.NewContainer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Close()
	logger := container.Logger

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimiter(logger, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	router.Use(middleware.ContentTypeValidation())
	router.Use(middleware.RequestSizeLimit(maxRequestBody))
	router.Use(middleware.PerformanceMonitor(logger, 2*time.Second))

	handlers.SetupRoutes(router, container.Router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithFields(logrus.Fields{
		"port":      cfg.Port,
		"functions": container.Router.Endpoints(),
	}).Info("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	if err := container.Dispatcher.Wait(ctx); err != nil {
		logger.WithError(err).Warn("Pending notifications abandoned")
	}

	logger.Info("Server exited")
}
