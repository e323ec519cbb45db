package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultHotTTL bounds how long a hot-tier entry lives without revalidation.
const DefaultHotTTL = 7 * 24 * time.Hour

const redisKeyPrefix = "candidate:"

// RedisTier is the volatile hot tier. It is optional; the tiered cache
// degrades to durable-only when it is absent or unreachable.
type RedisTier struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTier wraps an existing Redis client. A non-positive ttl falls back
// to DefaultHotTTL.
func NewRedisTier(client *redis.Client, ttl time.Duration) *RedisTier {
	if ttl <= 0 {
		ttl = DefaultHotTTL
	}
	return &RedisTier{client: client, ttl: ttl}
}

// DialRedis connects and pings a Redis server.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// DialRedisURL connects using a redis:// URL.
func DialRedisURL(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return DialRedis(ctx, opt.Addr, opt.Password, opt.DB)
}

// Name identifies the tier in logs.
func (r *RedisTier) Name() string { return "redis" }

// Get fetches and decodes the entry envelope. Expired or absent keys are a
// plain miss.
func (r *RedisTier) Get(ctx context.Context, id string) (*Entry, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// A corrupt envelope is treated as a miss; the caller rewrites it.
		return nil, nil
	}
	return &entry, nil
}

// Put stores the entry envelope with the tier TTL.
func (r *RedisTier) Put(ctx context.Context, id string, entry *Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+id, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
