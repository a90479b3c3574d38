package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"arcapi/internal/config"
	"arcapi/internal/database"
	"arcapi/internal/database/migration"
	handlers "arcapi/internal/http/handler"
	"arcapi/internal/http/middleware"
	"arcapi/internal/otel"
	"arcapi/internal/repository/postgres"
	"arcapi/internal/service"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserPostgres(db)
	tagRepo := postgres.NewTagPostgres(db)
	noteRepo := postgres.NewNotePostgres(db)
	sigRepo := postgres.NewSignaturePostgres(db)
	archiveRepo := postgres.NewArchivePostgres(db)
	logRepo := postgres.NewLogPostgres(db)
	configRepo := postgres.NewConfigPostgres(db)

	// Services
	logSvc := service.NewLogService(logRepo)
	userSvc := service.NewUserService(userRepo, logSvc, cfg.Auth)
	tagSvc := service.NewTagService(tagRepo)
	noteSvc := service.NewNoteService(noteRepo, tagRepo)
	sigSvc := service.NewSignatureService(sigRepo, logSvc)
	archiveSvc := service.NewArchiveService(archiveRepo, tagRepo, sigSvc, logSvc)
	configSvc := service.NewConfigService(configRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	registry := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, handlers.Services{
		Users:      userSvc,
		Tags:       tagSvc,
		Notes:      noteSvc,
		Signatures: sigSvc,
		Archive:    archiveSvc,
		Configs:    configSvc,
		Logs:       logSvc,
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
