package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-router/internal/api/http"
	"github.com/spec-kit/support-router/internal/api/http/handlers"
	"github.com/spec-kit/support-router/internal/auth"
	"github.com/spec-kit/support-router/internal/classifier"
	"github.com/spec-kit/support-router/internal/config"
	"github.com/spec-kit/support-router/internal/events"
	"github.com/spec-kit/support-router/internal/notify"
	"github.com/spec-kit/support-router/internal/observability"
	"github.com/spec-kit/support-router/internal/persistence"
	"github.com/spec-kit/support-router/internal/repository"
	"github.com/spec-kit/support-router/internal/service"
	"github.com/spec-kit/support-router/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), "migrations", logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	weaviate, err := persistence.NewWeaviate(ctx, cfg.Weaviate, logger)
	if err != nil {
		logger.Fatal("failed to connect weaviate", zap.Error(err))
	}

	var oracle interface {
		classifier.Oracle
		classifier.Embedder
	}
	gemini, err := classifier.NewGeminiClient(ctx, cfg.Gemini)
	if err != nil {
		logger.Warn("gemini unavailable; classification degrades to catalog fallback", zap.Error(err))
		oracle = classifier.Disabled{}
	} else {
		oracle = gemini
	}

	embedder := classifier.NewCachedEmbedder(oracle, redis.Client, logger)
	matcher := classifier.NewMatcher(embedder, weaviate, logger)
	if err := matcher.SeedIndex(ctx); err != nil {
		logger.Warn("phrase index seeding failed", zap.Error(err))
	}
	analyzer := classifier.NewAnalyzer(oracle, logger, cfg.Gemini.Timeout())

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	routerService := service.NewRouterService(service.RouterDependencies{
		Analyzer:   analyzer,
		Matcher:    matcher,
		TicketRepo: repository.NewTicketRepository(pg.PoolHandle()),
		Mailer:     notify.NewSMTPMailer(cfg.SMTP, logger),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, weaviate),
		Queries:        handlers.NewQueriesHandler(routerService),
		Tickets:        handlers.NewTicketsHandler(routerService),
		Auth:           handlers.NewAuthHandler(cfg.Auth, tokenManager),
		AuthMiddleware: auth.NewMiddleware(tokenManager),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
