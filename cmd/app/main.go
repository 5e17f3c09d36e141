package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"cryptem/configs"
	"cryptem/internal/adapter"
	"cryptem/internal/adapter/telegram"
	delivery "cryptem/internal/delivery/http"
	"cryptem/internal/domain"
	"cryptem/internal/infra"
	"cryptem/internal/logging"
	"cryptem/internal/middleware"
	"cryptem/internal/service"
	"cryptem/internal/usecase"
	"cryptem/internal/utils"
)

const version = "1.0.0"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.IsProduction())

	if cfg.UsesDevSecret() {
		logger.Warn("JWT_SECRET is not set, using the development fallback secret")
	}

	ctx := context.Background()

	// Initialize user store
	store, err := infra.OpenUserStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open user store")
	}
	defer store.Close()

	// Initialize adapters
	flask := adapter.NewFlaskBridge(cfg.Flask.URL, cfg.Chat.Timeout)
	agent := adapter.NewEvoAgent(cfg.Chat.AgentBaseURL, cfg.Chat.APIKey, cfg.Chat.Timeout, logger)
	chat := adapter.NewChatRouter(agent, flask)
	if agent.Configured() {
		logger.WithField("url", cfg.Chat.AgentBaseURL).Info("[OK] Chat routed to Evo AI agent")
	} else {
		logger.WithField("url", cfg.Flask.URL).Info("[OK] Chat routed to Flask service")
	}

	if err := flask.HealthCheck(ctx); err != nil {
		logger.WithError(err).Warn("Flask service is not available; signals will fail until it is running")
	} else {
		logger.Info("[OK] Flask service is healthy")
	}

	var notifier domain.Notifier
	tg := telegram.NewNotificationService(cfg.Telegram.BotToken, cfg.Telegram.ChatID, utils.NewYorkLocation())
	if tg.Enabled() {
		notifier = tg
		logger.Info("[OK] Telegram registration notifications enabled")
	}

	// Initialize services
	tokens := middleware.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := usecase.NewAuthService(store.Users, tokens, notifier, logger)
	feed := service.NewSignalFeed(flask, cfg.Signals.CacheTTL, logger)
	market := service.NewMarketStatusService()

	// Initialize signal refresh scheduler
	scheduler := infra.NewScheduler(feed, cfg.Signals.RefreshSchedule, cfg.Chat.Timeout, logger)
	if err := scheduler.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start scheduler")
	}
	go scheduler.RunNow()

	// Initialize HTTP server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:   delivery.NewAuthHandler(authService, logger),
		ChatHandler:   delivery.NewChatHandler(chat, logger),
		SignalHandler: delivery.NewSignalHandler(feed, market, logger),
		AdminHandler:  delivery.NewAdminHandler(authService, logger),
		WebHandler:    delivery.NewWebHandler(version),
		Tokens:        tokens,
		CORSOrigins:   splitOrigins(cfg.Server.CORSOrigin),
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Chat.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	opsSrv := infra.NewOpsServer(fmt.Sprintf(":%s", cfg.Server.OpsPort), map[string]infra.HealthCheck{
		"flask":      flask.HealthCheck,
		"user_store": store.Ping,
	})

	// Run servers in goroutines
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()
	go func() {
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start ops server")
		}
	}()

	logger.WithField("addr", srv.Addr).Info("Cryptem API starting")
	logger.WithField("addr", opsSrv.Addr).Info("Ops server starting (/metrics, /healthz)")
	logger.WithField("env", cfg.Server.Env).Info("Environment")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Ops server forced to shutdown")
	}

	logger.Info("[OK] Server exited gracefully")
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
