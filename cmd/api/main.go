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
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"forumapi/internal/cache"
	"forumapi/internal/config"
	"forumapi/internal/database"
	"forumapi/internal/database/migration"
	handlers "forumapi/internal/http/handler"
	"forumapi/internal/http/middleware"
	"forumapi/internal/logger"
	forumotel "forumapi/internal/otel"
	"forumapi/internal/repository/postgres"
	"forumapi/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("invalid configuration")
	}

	// Load already rejected unknown zones.
	loc, err := cfg.Location()
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("invalid time zone")
	}
	log := logger.New(cfg.Log, loc)

	shutdownTracing, err := forumotel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	var topicCache cache.TopicListCache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rdb := cache.NewRedisClient(ctx, cfg.Redis, log)
		defer rdb.Close()
		topicCache = cache.NewRedisCache(rdb, time.Duration(cfg.Redis.TTLSec)*time.Second)
	}

	users := postgres.NewUserPostgres(db)
	topicSvc := service.NewTopicService(
		postgres.NewMessageboardPostgres(db),
		postgres.NewTopicPostgres(db),
		postgres.NewPostPostgres(db),
		postgres.NewReadStatePostgres(db),
		topicCache,
		log,
		service.Options{
			TopicsPerPage: cfg.Forum.TopicsPerPage,
			PostsPerPage:  cfg.Forum.PostsPerPage,
		},
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:      db,
		Topics:  topicSvc,
		Users:   users,
		Metrics: reg,
		Log:     log,
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Str("event", "shutdown").Send()
		}
	}()

	addr := cfg.ListenAddr()
	log.Info().Str("event", "listen").Str("addr", addr).Send()
	if err := app.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
