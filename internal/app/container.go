package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillpath/internal/config"
	"skillpath/internal/database"
	"skillpath/internal/database/migration"
	dbpostgres "skillpath/internal/database/postgres"
	"skillpath/internal/infrastructure/cache"
	"skillpath/internal/pipeline"
	"skillpath/internal/repository"
	"skillpath/internal/usecase"
	"skillpath/migrations"

	"go.uber.org/zap"
)

type Repositories struct {
	Profiles      repository.ProfileRepository
	Catalog       repository.CatalogRepository
	Effectiveness repository.EffectivenessRepository
	Feedback      repository.FeedbackRepository
	Enrollments   repository.EnrollmentRepository
	Assessments   repository.AssessmentRepository
}

// PostgresRepositories wires the Postgres implementations. Requirement sets are read
// through the JSON cache.
func PostgresRepositories(db database.DB, jsonCache repository.JSONCache, ttl time.Duration) Repositories {
	return Repositories{
		Profiles:      repository.NewPostgresProfileRepository(db),
		Catalog:       repository.NewCachedCatalogRepository(repository.NewPostgresCatalogRepository(db), jsonCache, ttl),
		Effectiveness: repository.NewPostgresEffectivenessRepository(db),
		Feedback:      repository.NewPostgresFeedbackRepository(db),
		Enrollments:   repository.NewPostgresEnrollmentRepository(db),
		Assessments:   repository.NewPostgresAssessmentRepository(db),
	}
}

func MemoryRepositories(s *repository.MemoryStore) Repositories {
	return Repositories{
		Profiles:      s,
		Catalog:       s,
		Effectiveness: s.Effectiveness(),
		Feedback:      s,
		Enrollments:   s.Enrollments(),
		Assessments:   s,
	}
}

type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	Repos  Repositories
	Engine usecase.Engine

	Gap            *usecase.Gap
	Recommendation *usecase.Recommendation
	LearningPath   *usecase.LearningPath
	Feedback       *usecase.Feedback
	Profile        *usecase.Profile
	Assessment     *usecase.Assessment
	Recalibration  *usecase.Recalibration

	RecalibrationPipeline *pipeline.RecalibrationPipeline
}

// NewContainer connects to Postgres and Redis, applies pending migrations and wires every
// use case.
func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, cfg.App.AppName, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	runner := migration.Runner{FS: migrations.FS, Logger: logger.Named("migration")}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	rc := cache.NewRedis(ctx, cfg.Redis, logger.Named("cache"))

	c := NewContainerWithRepositories(cfg, logger, PostgresRepositories(db, rc, cfg.Redis.TTL), rc)
	c.DB = db
	return c, nil
}

// NewContainerWithRepositories wires use cases over repos. rc may be nil, in which case
// recalibration runs without a cross-instance lock.
func NewContainerWithRepositories(cfg config.Config, logger *zap.Logger, repos Repositories, rc *cache.Redis) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := usecase.NewEngine(cfg.Engine.Policy, cfg.Engine.Synonyms)

	c := &Container{
		Config: cfg,
		Logger: logger,
		Cache:  rc,
		Repos:  repos,
		Engine: engine,

		Gap:            usecase.NewGapUsecase(repos.Profiles, repos.Catalog, engine),
		Recommendation: usecase.NewRecommendationUsecase(repos.Profiles, repos.Catalog, engine, cfg.Engine.RankingWorkers),
		LearningPath:   usecase.NewLearningPathUsecase(repos.Profiles, repos.Catalog, repos.Enrollments, engine),
		Feedback:       usecase.NewFeedbackUsecase(repos.Feedback, repos.Profiles, repos.Catalog),
		Profile:        usecase.NewProfileUsecase(repos.Profiles, repos.Catalog),
		Assessment:     usecase.NewAssessmentUsecase(repos.Assessments, repos.Profiles, engine),
		Recalibration: usecase.NewRecalibrationUsecase(
			repos.Feedback, repos.Effectiveness, repos.Profiles, engine, logger.Named("recalibration"),
		),
	}

	var lock pipeline.Locker
	if rc != nil {
		lock = rc
	}
	c.RecalibrationPipeline = pipeline.NewRecalibrationPipeline(c.Recalibration, lock, cfg.Engine.RecalibrationInterval, logger)
	return c
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
