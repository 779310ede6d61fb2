package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realestate-management/internal/adapters/http/middleware"
	"realestate-management/internal/adapters/http/routes"
	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/adapters/persistence/repositories"
	"realestate-management/internal/config"
	"realestate-management/internal/core/services"
	"realestate-management/internal/pkg/logger"
	"realestate-management/internal/pkg/metrics"
	"realestate-management/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	_ "realestate-management/docs" // Swagger docs
)

// @title Realestate Management API
// @version 1.0
// @description Real estate portfolio management with token authentication and account lockout.

// @contact.name API Support
// @contact.email support@example.com

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	zlog := logger.New(cfg.AppMode, cfg.LogLevel)
	defer func() { _ = zlog.Sync() }()

	db, err := config.ConnectDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("❌ Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			zlog.Warn("⚠️ Error closing database", zap.Error(err))
		}
	}()

	if err := models.AutoMigrate(db); err != nil {
		zlog.Fatal("❌ Failed to auto migrate", zap.Error(err))
	}
	zlog.Info("✅ Database migration completed")

	hasher := password.NewBcryptHasher(cfg.Security.BcryptCost)
	if err := config.NewSeeder(db, hasher, cfg.Security, zlog).Run(context.Background()); err != nil {
		zlog.Warn("⚠️ Failed to seed accounts", zap.Error(err))
	}

	// Nightly security digest
	scheduler := cron.New()
	digest := services.NewSecurityDigest(repositories.NewUserRepository(db), zlog.Named("digest"), nil)
	if _, err := digest.Schedule(scheduler, cfg.Cron.SecurityDigest); err != nil {
		zlog.Fatal("❌ Invalid security digest schedule", zap.String("spec", cfg.Cron.SecurityDigest), zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Realestate Management API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	middleware.Setup(app, cfg)

	routes.Setup(app, routes.Deps{
		DB:      db,
		Config:  cfg,
		Log:     zlog,
		Metrics: metrics.New(),
	})

	go gracefulShutdown(app, zlog)

	zlog.Info("🚀 Server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, zlog *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("❌ Error during shutdown", zap.Error(err))
	}
	zlog.Info("✅ Server stopped gracefully")
}
