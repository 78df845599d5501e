package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"cmsapi/internal/config"
	"cmsapi/internal/database"
	"cmsapi/internal/database/migration"
	handlers "cmsapi/internal/http/handler"
	"cmsapi/internal/http/middleware"
	"cmsapi/internal/logger"
	"cmsapi/internal/mail"
	"cmsapi/internal/model"
	"cmsapi/internal/otel"
	"cmsapi/internal/repository/postgres"
	"cmsapi/internal/service"
	"cmsapi/internal/storage"
)

// @title CMS API
// @version 1.0
// @description Catalog lookups, page documents, branding settings and email logs.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	boot := zerolog.New(os.Stderr).With().Timestamp().Str("service", "cmsapi").Logger()

	// Configuration is read once; a missing DB_* variable stops the process here.
	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(cfg.Log)
	loc := logger.Location(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	sx := database.NewSQLX(db)

	store, err := storage.New(cfg.Storage, cfg.MinIO)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to initialize document storage")
	}

	if cfg.Mail.ResendAPIKey == "" {
		log.Warn().Msg("RESEND_API_KEY not set, email resends will be recorded as failed")
	}
	sender := mail.NewResend(cfg.Mail)

	if cfg.AdminToken == "" {
		log.Warn().Msg("ADMIN_API_TOKEN not set, branding settings are writable without authentication")
	}

	deps := handlers.Deps{
		Categories: service.NewResourceService[model.Category](postgres.NewCategoryPostgres(sx)),
		Products:   service.NewResourceService[model.Product](postgres.NewProductPostgres(sx)),
		Services:   service.NewResourceService[model.Service](postgres.NewServicePostgres(sx)),
		Pages:      service.NewPageService(store),
		Branding:   service.NewBrandingService(store),
		EmailLogs:  service.NewEmailLogService(postgres.NewEmailLogPostgres(sx), sender),
		AdminGuard: middleware.AdminToken(cfg.AdminToken),
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	app := fiber.New(fiber.Config{
		AppName:               "cmsapi",
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log, loc))
	// Inside Logger so recovered panics are logged with their final status.
	app.Use(recover.New())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, deps)

	app.Get("/swagger/*", swaggerUI())

	addr := ":" + cfg.Port
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("storage_driver", cfg.Storage.Driver).Msg("server_starting")
		serveErr <- app.Listen(addr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown_requested")
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}
