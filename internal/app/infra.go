package app

import (
	"context"
	"errors"

	"github.com/iMedia24/workplacify/internal/config"
	"github.com/iMedia24/workplacify/internal/db"
	"github.com/iMedia24/workplacify/internal/logger"
	"github.com/iMedia24/workplacify/internal/redis"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx); err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Info("database ready", map[string]any{
		"driver": database.Driver,
	})

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Info("redis ready", nil)

	return &Infra{
		DB:    database,
		Redis: redisClient,
	}, nil
}

// Close releases the database and Redis connections.
func (i *Infra) Close() error {
	return errors.Join(i.DB.Close(), i.Redis.Close())
}
