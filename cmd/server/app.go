package main

import (
	"context"
	"fmt"

	"github.com/lalith-99/propman/internal/cache"
	"github.com/lalith-99/propman/internal/config"
	"github.com/lalith-99/propman/internal/db"
	"github.com/lalith-99/propman/internal/observ"
	"github.com/lalith-99/propman/internal/repository"
	"github.com/lalith-99/propman/internal/repository/memory"
	"github.com/lalith-99/propman/internal/repository/postgres"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds the process-wide resources shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	database *db.DB
	store    repository.Store
	jobTypes cache.JobTypes
	redis    *redis.Client
}

func bootstrap(ctx context.Context) (*app, error) {
	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, jobTypes: cache.Nop{}}

	// ---------------------------------------------------------------
	// 3. Storage
	// ---------------------------------------------------------------
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.database = database
		a.store = postgres.NewStore(database.Pool())
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on exit")
		a.store = memory.NewStore()
	}

	// ---------------------------------------------------------------
	// 4. Job type cache
	// ---------------------------------------------------------------
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		a.jobTypes = cache.NewRedis(client, cfg.JobTypeCacheTTL)
		logger.Info("job type cache enabled", zap.Duration("ttl", cfg.JobTypeCacheTTL))
	}

	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.database != nil {
		a.database.Close()
	}
	_ = a.logger.Sync()
}

func (a *app) requirePostgres(command string) error {
	if a.database == nil {
		return fmt.Errorf("%s requires STORAGE_DRIVER=%s", command, config.StoragePostgres)
	}
	return nil
}
