package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/observability"
	"github.com/spec-kit/grievance-service/internal/persistence"
	"github.com/spec-kit/grievance-service/internal/repository"
	"github.com/spec-kit/grievance-service/internal/repository/memory"
	"github.com/spec-kit/grievance-service/internal/service"
)

// runtime holds the wired services shared by every command.
type runtime struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *observability.Metrics
	postgres   *persistence.Postgres
	redis      *persistence.Redis
	dispatcher events.Dispatcher

	auth        *service.AuthService
	lifecycle   *service.LifecycleService
	escalation  *service.EscalationService
	stats       *service.StatsService
	eligibility *service.EligibilityService
	notifier    *service.NotificationService
}

type repositories struct {
	grievances  repository.GrievanceRepository
	history     repository.GrievanceHistoryRepository
	petitioners repository.PetitionerRepository
	officials   repository.OfficialRepository
	admins      repository.AdminRepository
}

func loadConfigAndLogger() (*config.Config, *zap.Logger) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	return cfg, logger
}

// newRuntime connects the backends and builds the services. Without a
// Postgres DSN the in-memory repositories are used.
func newRuntime(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*runtime, error) {
	metrics, err := observability.NewMetrics(cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if pool := pg.PoolHandle(); pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			pg.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)

	var repos repositories
	if pool := pg.PoolHandle(); pool != nil {
		repos = repositories{
			grievances:  repository.NewGrievanceRepository(pool),
			history:     repository.NewGrievanceHistoryRepository(pool),
			petitioners: repository.NewPetitionerRepository(pool),
			officials:   repository.NewOfficialRepository(pool),
			admins:      repository.NewAdminRepository(pool),
		}
	} else {
		logger.Warn("using in-memory store; data is lost on exit")
		store := memory.NewStore()
		repos = repositories{
			grievances:  store.Grievances(),
			history:     store.History(),
			petitioners: store.Petitioners(),
			officials:   store.Officials(),
			admins:      store.Admins(),
		}
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	var cache service.StatsCache
	if redis.Client != nil {
		cache = redis
	}

	deps := service.GrievanceDependencies{
		GrievanceRepo: repos.grievances,
		HistoryRepo:   repos.history,
		OfficialRepo:  repos.officials,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		StatsCache:    cache,
		Logger:        logger,
	}

	return &runtime{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		postgres:   pg,
		redis:      redis,
		dispatcher: dispatcher,
		auth: service.NewAuthService(service.AuthDependencies{
			PetitionerRepo: repos.petitioners,
			OfficialRepo:   repos.officials,
			AdminRepo:      repos.admins,
			TokenManager:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
			Hasher:         auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		}),
		lifecycle:  service.NewLifecycleService(deps),
		escalation: service.NewEscalationService(deps),
		stats: service.NewStatsService(service.StatsDependencies{
			GrievanceRepo: repos.grievances,
			Cache:         cache,
			TTL:           cfg.Redis.StatsTTL(),
			Logger:        logger,
		}),
		eligibility: service.NewEligibilityService(deps, cfg.Escalation.StaleAfter()),
		notifier:    service.NewNotificationService(dispatcher, logger, cfg.Notification),
	}, nil
}

func (r *runtime) close(ctx context.Context) {
	if err := r.metrics.Shutdown(ctx); err != nil {
		r.logger.Warn("metrics shutdown", zap.Error(err))
	}
	r.redis.Close()
	r.postgres.Close()
}
