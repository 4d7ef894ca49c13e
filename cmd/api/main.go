package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-portal/internal/access"
	httptransport "github.com/spec-kit/support-portal/internal/api/http"
	"github.com/spec-kit/support-portal/internal/api/http/handlers"
	"github.com/spec-kit/support-portal/internal/auth"
	"github.com/spec-kit/support-portal/internal/config"
	"github.com/spec-kit/support-portal/internal/dispatch"
	"github.com/spec-kit/support-portal/internal/events"
	"github.com/spec-kit/support-portal/internal/lifecycle"
	"github.com/spec-kit/support-portal/internal/notification"
	"github.com/spec-kit/support-portal/internal/observability"
	"github.com/spec-kit/support-portal/internal/persistence"
	"github.com/spec-kit/support-portal/internal/repository"
	"github.com/spec-kit/support-portal/internal/worker"
	"github.com/spec-kit/support-portal/internal/zammad"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	backend := zammad.NewClient(cfg.Zammad, logger)
	regions := cfg.Dispatch.RegionMap()
	accessModel := access.NewModel(regions)

	classifier := lifecycle.NewCachedClassifier(
		lifecycle.NewStateClassifier(backend),
		redis.Client,
		cfg.Dispatch.StateCacheTTL(),
		logger,
	)

	var dispatcher events.Dispatcher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaDispatcher, err := events.NewKafkaDispatcher(cfg.Kafka, logger)
		if err != nil {
			logger.Fatal("failed to init kafka dispatcher", zap.Error(err))
		}
		defer kafkaDispatcher.Close() //nolint:errcheck
		dispatcher = kafkaDispatcher
	} else {
		dispatcher = events.NewInMemoryDispatcher()
	}
	worker.StartAuditWorker(dispatcher, logger)

	engine := dispatch.NewEngine(dispatch.Dependencies{
		Backend:           backend,
		States:            classifier,
		Regions:           regions,
		ExcludedEmails:    cfg.Dispatch.ExcludedEmails,
		AdminRoleID:       cfg.Dispatch.AdminRoleID,
		UnassignedOwnerID: cfg.Dispatch.UnassignedOwnerID,
		AssignedState:     cfg.Dispatch.AssignedTicketState,
		Dispatcher:        dispatcher,
		Metrics:           metrics,
		Logger:            logger,
	})

	identityRepo := repository.NewIdentityRepository(pg.PoolHandle())
	conversationRepo := repository.NewConversationRepository(pg.PoolHandle())
	sender := notification.NewWebhookSender(cfg.Notification.WebhookURL, logger)
	notifier := dispatch.NewNotifier(backend, sender, identityRepo, cfg.Dispatch.AdminRoleID, metrics, logger)

	authMiddleware := auth.NewMiddleware(auth.NewTokenVerifier(cfg.Auth.JWTSecret))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis, backend),
		Tickets:        handlers.NewTicketsHandler(backend, accessModel),
		Conversations:  handlers.NewConversationsHandler(conversationRepo, accessModel),
		Dispatch:       handlers.NewDispatchHandler(engine, notifier, regions, logger),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
