package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/zaindgr8/inbound-call-agent/adapters"
	"github.com/zaindgr8/inbound-call-agent/adapters/openai"
	"github.com/zaindgr8/inbound-call-agent/internal/api"
	"github.com/zaindgr8/inbound-call-agent/internal/config"
	"github.com/zaindgr8/inbound-call-agent/internal/metrics"
	"github.com/zaindgr8/inbound-call-agent/internal/websocket"
	"github.com/zaindgr8/inbound-call-agent/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load .env if present; real environments set variables directly.
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.WebhookURL == "" {
		logger.Warn("WEBHOOK_URL not set, call summaries will not be delivered")
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	m := metrics.New()

	// Initialize adapters
	registry := adapters.NewMemorySessionRegistry()
	dialer, err := openai.NewRealtimeDialer(openai.RealtimeConfig{
		APIKey:       cfg.OpenAIAPIKey,
		Model:        cfg.RealtimeModel,
		Voice:        cfg.Voice,
		Instructions: cfg.SystemMessage,
		Temperature:  cfg.Temperature,
	}, logger)
	if err != nil {
		logger.Fatal("Invalid realtime configuration", zap.Error(err))
	}
	summarizer, err := openai.NewSummaryClient(openai.SummaryConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.SummaryModel,
	}, logger)
	if err != nil {
		logger.Fatal("Invalid summary configuration", zap.Error(err))
	}

	// Initialize usecase services
	dispatcher := usecase.NewTranscriptDispatcher(summarizer, cfg.WebhookURL, logger)

	// Initialize media stream handler
	handler := websocket.NewHandler(registry, dialer, dispatcher, m, logger)

	// Initialize API routes
	api.InitRoutes(e, handler, m, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Inbound call agent started", zap.String("port", cfg.Port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
