package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/provider-registration/internal/api/http"
	"github.com/spec-kit/provider-registration/internal/api/http/handlers"
	"github.com/spec-kit/provider-registration/internal/config"
	"github.com/spec-kit/provider-registration/internal/events"
	"github.com/spec-kit/provider-registration/internal/observability"
	"github.com/spec-kit/provider-registration/internal/persistence"
	"github.com/spec-kit/provider-registration/internal/ratelimit"
	"github.com/spec-kit/provider-registration/internal/repository"
	"github.com/spec-kit/provider-registration/internal/security"
	"github.com/spec-kit/provider-registration/internal/service"
	"github.com/spec-kit/provider-registration/internal/validation"
	"github.com/spec-kit/provider-registration/internal/worker"
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

	var redis *persistence.Redis
	var limiter ratelimit.Limiter
	if cfg.RateLimit.UseRedis {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		limiter = ratelimit.NewRedisLimiter(redis.Client, cfg.RateLimit.Requests, cfg.RateLimit.Window())
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window())
	}

	pool := pg.PoolHandle()
	providerRepo := repository.NewProviderRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var mailer service.Mailer
	if cfg.SMTP.Host != "" {
		mailer = service.NewSMTPMailer(cfg.SMTP)
	} else {
		logger.Warn("smtp host not configured, verification emails will only be logged")
		mailer = service.NewLogMailer(logger)
	}
	notificationService := service.NewNotificationService(dispatcher, mailer, logger)
	worker.StartNotificationWorker(notificationService)

	registrationService := service.NewRegistrationService(*cfg, service.RegistrationDependencies{
		Providers:  providerRepo,
		Limiter:    limiter,
		Fields:     validation.NewFieldValidator(cfg.Validation.Specializations, cfg.Validation.DisposableEmailDomains),
		Tokens:     security.NewVerificationTokenManager(cfg.Security.VerificationTokenSecret, cfg.Security.VerificationTokenTTL()),
		Dispatcher: dispatcher,
		Audit:      service.NewAuditService(auditRepo, logger),
		Metrics:    metrics,
		Logger:     logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Providers: handlers.NewProvidersHandler(registrationService),
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
