package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
	"github.com/denisok6893-rgb/city-matching/internal/logging"
)

const keyPrefix = "citymatch:aggregate:"

// Redis shares aggregate records between API instances. Cache failures are
// logged and treated as misses.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedis connects to addr and pings it once.
func NewRedis(ctx context.Context, addr string, ttl time.Duration, logger *logging.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &Redis{client: client, ttl: ttl, logger: logger}, nil
}

func (r *Redis) Get(ctx context.Context, city string) (*domain.AggregateRecord, bool) {
	b, err := r.client.Get(ctx, keyPrefix+city).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.logger.Warn("[cache] redis get %s: %v", city, err)
		return nil, false
	}
	var rec domain.AggregateRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		r.logger.Warn("[cache] redis decode %s: %v", city, err)
		return nil, false
	}
	return &rec, true
}

func (r *Redis) Set(ctx context.Context, city string, rec *domain.AggregateRecord) {
	b, err := json.Marshal(rec)
	if err != nil {
		r.logger.Warn("[cache] redis encode %s: %v", city, err)
		return
	}
	if err := r.client.Set(ctx, keyPrefix+city, b, r.ttl).Err(); err != nil {
		r.logger.Warn("[cache] redis set %s: %v", city, err)
	}
}

func (r *Redis) Close() error { return r.client.Close() }
