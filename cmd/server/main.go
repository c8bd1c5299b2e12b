package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/pesopolis/internal/app"
	"github.com/Freeeeeet/pesopolis/internal/config"
	"github.com/Freeeeeet/pesopolis/internal/controller"
	httpx "github.com/Freeeeeet/pesopolis/internal/controller/http"
	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting pesopolis",
		zap.String("environment", cfg.Environment),
		zap.String("module", cfg.ModuleName),
		zap.Bool("is_test", cfg.IsTest))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()
	logger.Info("✅ Database connected", zap.String("dialect", string(database.Dialect())))

	migrator, err := app.NewMigrator(database, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	services, err := app.NewServices(database, logger)
	if err != nil {
		logger.Fatal("Failed to create services", zap.Error(err))
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var metrics *httpx.Metrics
	if cfg.MetricsEnabled {
		metrics = httpx.NewMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	}

	handler := httpx.NewHandler(services.Entities, services.Salary, services.Lessons, services.Courses, logger)
	router := httpx.NewRouter(cfg.ModuleName, handler, metrics, logger)
	srv := httpx.NewServer(cfg.Addr(), router, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	if cfg.TelegramToken != "" {
		startBot(ctx, cfg.TelegramToken, services, logger)
	} else {
		logger.Info("TELEGRAM_TOKEN is not set, bot disabled")
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	logger.Info("Graceful shutdown complete")
}

func startBot(ctx context.Context, token string, services *app.Services, logger *zap.Logger) {
	botInstance, err := bot.New(token)
	if err != nil {
		logger.Error("Failed to create bot, continuing without it", zap.Error(err))
		return
	}

	botController := controller.NewBotController(botInstance, services.Salary, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register bot commands", zap.Error(err))
	}

	go botController.Start(ctx)
}
