package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cart not in cache")

// SnapshotCache holds rendered cart snapshots keyed per user and
// session key (see snapshotKey). Only unfiltered reads are cached;
// every mutation deletes the entry, so a cached snapshot is always the
// one the store would recompute.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*CartSnapshot, error)
	Set(ctx context.Context, key string, snap *CartSnapshot) error
	Delete(ctx context.Context, key string) error
}

type redisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client) SnapshotCache {
	return &redisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (r *redisCache) Get(ctx context.Context, key string) (*CartSnapshot, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var snap CartSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot failed: %w", err)
	}
	return &snap, nil
}

func (r *redisCache) Set(ctx context.Context, key string, snap *CartSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(key), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return fmt.Sprintf("cart:%s", key)
}

// NoopCache is used when no REDIS_URL is configured; every read misses
// and snapshots are always recomputed from the store.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*CartSnapshot, error) { return nil, ErrCacheMiss }
func (NoopCache) Set(context.Context, string, *CartSnapshot) error   { return nil }
func (NoopCache) Delete(context.Context, string) error               { return nil }
