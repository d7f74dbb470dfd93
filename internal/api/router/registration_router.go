package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"course-portal/internal/api/handlers"
	"course-portal/internal/config"
	"course-portal/internal/infrastructure/cache"
	"course-portal/internal/infrastructure/database"
	"course-portal/internal/infrastructure/repository"
	interfaces "course-portal/internal/interfaces/infrastructure"
	"course-portal/internal/service"
	"course-portal/pkg/logger"

	"gorm.io/gorm"
)

type repositories struct {
	students      interfaces.StudentRepository
	courses       interfaces.CourseRepository
	terms         interfaces.TermRepository
	registrations interfaces.RegistrationRepository
	idempotency   interfaces.IdempotencyRepository
}

// BuildDependencies wires repositories, cache and services from cfg. The
// returned close function releases database and redis connections.
func BuildDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, func() error, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	checks := map[string]handlers.HealthCheckFunc{}

	var redisCache *cache.RedisCache
	if cfg.Cache.Enabled || cfg.Backend.Idempotency == "redis" {
		redisCache = cache.NewRedisCacheWithConfig(&cfg.Cache)
		closers = append(closers, redisCache.Close)
		checks["cache"] = redisCache.Health
		logger.Info("Using redis at %s", cfg.Cache.Addr())
	}

	var repos *repositories
	switch cfg.Backend.Repository {
	case "memory", "":
		mem, err := repository.NewMemoryRepositories()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to build memory repositories: %w", err)
		}
		repos = &repositories{
			students:      mem.Students,
			courses:       mem.Courses,
			terms:         mem.Terms,
			registrations: mem.Registrations,
			idempotency:   mem.Idempotency,
		}
		logger.Info("Using in-memory repositories seeded with the demo catalog")
	case "postgres":
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() error { return database.Close(db) })
		checks["database"] = func(context.Context) error { return database.HealthCheck(db) }
		repos = &repositories{
			students:      repository.NewStudentRepository(db),
			courses:       repository.NewCourseRepository(db),
			terms:         repository.NewTermRepository(db),
			registrations: repository.NewRegistrationRepository(db),
			idempotency:   repository.NewIdempotencyRepository(db),
		}
		logger.Info("Using postgres repositories")
	default:
		closeAll()
		return nil, nil, fmt.Errorf("unsupported backend repository %q", cfg.Backend.Repository)
	}

	switch cfg.Backend.Idempotency {
	case "redis":
		repos.idempotency = repository.NewRedisIdempotencyRepository(redisCache.GetClient())
	case "memory", "":
		if cfg.Backend.Repository == "postgres" {
			repos.idempotency = repository.NewMemoryIdempotencyRepository()
		}
	case "postgres":
		pg, ok := repos.idempotency.(*repository.IdempotencyRepository)
		if !ok {
			closeAll()
			return nil, nil, fmt.Errorf("postgres idempotency store requires the postgres repository")
		}
		if n, err := pg.PurgeExpired(ctx, time.Now()); err != nil {
			logger.Warn("Failed to purge expired idempotency keys: %v", err)
		} else if n > 0 {
			logger.Info("Purged %d expired idempotency keys", n)
		}
	default:
		closeAll()
		return nil, nil, fmt.Errorf("unsupported idempotency store %q", cfg.Backend.Idempotency)
	}

	var courseCache interfaces.CacheService
	if cfg.Cache.Enabled {
		courseCache = redisCache
	}

	metrics := service.NewMetricsService()
	deps := &Dependencies{
		Version:     cfg.App.Version,
		UserService: service.NewUserService(repos.students),
		CatalogService: service.NewCatalogService(
			repos.terms,
			repos.courses,
			courseCache,
			time.Duration(cfg.Cache.CourseTTLSecond)*time.Second,
			metrics,
		),
		RegistrationService: service.NewRegistrationService(
			repos.students,
			repos.courses,
			repos.terms,
			repos.registrations,
			service.NewIdempotencyService(repos.idempotency),
			metrics,
		),
		Metrics:          metrics,
		HealthChecks:     checks,
		SimulatedLatency: time.Duration(cfg.Server.SimulatedLatencyMS) * time.Millisecond,
	}

	return deps, closeAll, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewConnection(database.FromAppConfig(cfg.Database))
	if err != nil {
		return nil, err
	}

	if cfg.Backend.SeedOnStart {
		if err := database.RunMigrations(db); err != nil {
			database.Close(db)
			return nil, err
		}
		if err := database.SeedFixture(ctx, db); err != nil {
			database.Close(db)
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}
	return db, nil
}

// NewMemoryDependencies is the fixture-backed wiring used by tests and the
// default server configuration.
func NewMemoryDependencies() (*Dependencies, error) {
	cfg := &config.Config{}
	cfg.App.Version = "test"
	cfg.Backend.Repository = "memory"
	cfg.Backend.Idempotency = "memory"

	deps, _, err := BuildDependencies(context.Background(), cfg)
	return deps, err
}
