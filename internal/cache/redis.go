package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lalith-99/propman/internal/models"
	"github.com/redis/go-redis/v9"
)

const jobTypesKey = "propman:job_types"

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context) ([]models.JobType, bool, error) {
	raw, err := r.client.Get(ctx, jobTypesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get job types: %w", err)
	}

	var types []models.JobType
	if err := json.Unmarshal(raw, &types); err != nil {
		return nil, false, fmt.Errorf("decode job types: %w", err)
	}
	return types, true, nil
}

func (r *Redis) Set(ctx context.Context, types []models.JobType) error {
	raw, err := json.Marshal(types)
	if err != nil {
		return fmt.Errorf("encode job types: %w", err)
	}
	if err := r.client.Set(ctx, jobTypesKey, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set job types: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, jobTypesKey).Err(); err != nil {
		return fmt.Errorf("invalidate job types: %w", err)
	}
	return nil
}
