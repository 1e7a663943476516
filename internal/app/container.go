package app

import (
	"context"
	"fmt"
	"time"

	"alumni-connect/internal/config"
	"alumni-connect/internal/database"
	"alumni-connect/internal/database/migration"
	dbpostgres "alumni-connect/internal/database/postgres"
	"alumni-connect/internal/infrastructure/cache"
	"alumni-connect/internal/logger"
	"alumni-connect/internal/metrics"
	"alumni-connect/internal/repository"
	"alumni-connect/internal/usecase"
	"alumni-connect/internal/ws"

	"go.uber.org/zap"
)

type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Cache   *cache.Redis
	Metrics *metrics.Manager
	Hub     *ws.Hub

	Matching     usecase.MentorMatchingUsecase
	Registration usecase.EventRegistrationUsecase
	Mentorship   usecase.MentorshipUsecase
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := (migration.Runner{Logger: log}).Run(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return Wire(ctx, cfg, db, log), nil
}

// Wire assembles every component over an already connected store.
func Wire(ctx context.Context, cfg config.Config, db database.DB, log *zap.Logger) *Container {
	log = logger.OrNop(log)

	m := metrics.NewManager()
	redis := cache.NewRedis(ctx, cfg.Redis, log.Named("cache"))
	hub := ws.NewHub(log.Named("ws"))

	profiles := repository.NewPostgresProfileRepository(db)
	events := repository.NewPostgresEventRepository(db)
	requests := repository.NewPostgresMentorshipRequestRepository(db)

	return &Container{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Cache:   redis,
		Metrics: m,
		Hub:     hub,

		Matching: usecase.NewMentorMatchingUsecase(profiles, redis, cfg.Matching, m, log.Named("matching")),
		Registration: usecase.NewEventRegistrationUsecase(
			events,
			ws.NewNotifier(hub, log.Named("notify")),
			cfg.Events.MaxConflictRetries,
			m,
			log.Named("events"),
		),
		Mentorship: usecase.NewMentorshipUsecase(profiles, requests),
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
