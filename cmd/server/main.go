package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/arturoeanton/go-course-accounts/internal/adapter/notify"
	"github.com/arturoeanton/go-course-accounts/internal/adapter/store"
	"github.com/arturoeanton/go-course-accounts/internal/adapter/supabase"
	"github.com/arturoeanton/go-course-accounts/internal/handler"
	"github.com/arturoeanton/go-course-accounts/internal/middleware"
	"github.com/arturoeanton/go-course-accounts/internal/service"
	"github.com/arturoeanton/go-course-accounts/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting Course Accounts",
		"port", cfg.Port,
		"auth_url", cfg.AuthURL,
		"storage_url", cfg.StorageURL,
		"headshot_bucket", cfg.HeadshotBucket,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	// ── Adapters ─────────────────────────────────────────────────────────
	authClient := supabase.NewAuthClient(cfg.AuthURL, cfg.AuthAPIKey)
	storageClient := supabase.NewStorageClient(cfg.StorageURL, cfg.AuthAPIKey)
	revalidator := notify.NewRevalidateClient(cfg.RevalidateURL, cfg.RevalidateSecret)

	// ── Services ─────────────────────────────────────────────────────────
	accountService := service.NewAccountService(
		authClient, storageClient, pgStore,
		cfg.HeadshotBucket, cfg.StoragePublicURL,
	)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	// Audit middleware (logs all requests)
	app.Use(middleware.AuditMiddleware(pgStore))

	// ── Public Routes ────────────────────────────────────────────────────
	accountHandler := handler.NewAccountHandler(accountService, revalidator)
	accountHandler.Register(app)

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// ── Protected Routes ─────────────────────────────────────────────────
	session := middleware.SessionMiddleware(middleware.SessionConfig{
		Secret: cfg.JWTSecret,
	})
	api := app.Group("/api/v1", session)

	profileHandler := handler.NewProfileHandler(pgStore)
	profileHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
