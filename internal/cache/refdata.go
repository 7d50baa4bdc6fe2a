// Package cache holds the redis-backed cache for store reference data. The
// store configuration maps (revenue centers, tables, dining options, void
// reasons) change rarely and are refetched for every run otherwise, so they
// are cached with a short TTL. Cache trouble is never an aggregation error:
// misses and redis failures both fall through to a direct fetch.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/storeops/toast-exports/internal/config"
	"github.com/storeops/toast-exports/internal/domain"
)

const defaultRefDataTTL = 15 * time.Minute

// RefData caches identifier-keyed configuration maps per store.
type RefData struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRefData connects to redis and verifies the connection. Returns an error
// when redis is unreachable; callers run uncached in that case.
func NewRefData(cfg config.CacheConfig) (*RefData, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.RefDataTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultRefDataTTL
	}

	return &RefData{client: client, ttl: ttl}, nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func refDataKey(store, kind string) string {
	return fmt.Sprintf("refdata:%s:%s", store, kind)
}

// GetConfigMap returns the cached map for one store and kind, reporting
// whether a usable entry was found. A nil receiver always misses.
func (c *RefData) GetConfigMap(ctx context.Context, store, kind string) (map[string]domain.ConfigItem, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, refDataKey(store, kind)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("store", store).Str("kind", kind).Msg("refdata cache read failed")
		}
		return nil, false
	}
	var m map[string]domain.ConfigItem
	if err := json.Unmarshal(data, &m); err != nil {
		log.Warn().Err(err).Str("store", store).Str("kind", kind).Msg("refdata cache entry corrupt")
		return nil, false
	}
	return m, true
}

// SetConfigMap stores the map for one store and kind. Failures are logged and
// otherwise ignored.
func (c *RefData) SetConfigMap(ctx context.Context, store, kind string, m map[string]domain.ConfigItem) {
	if c == nil {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, refDataKey(store, kind), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("store", store).Str("kind", kind).Msg("refdata cache write failed")
	}
}

// Invalidate drops every cached map for one store.
func (c *RefData) Invalidate(ctx context.Context, store string) error {
	if c == nil {
		return nil
	}
	var cursor uint64
	pattern := refDataKey(store, "*")
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			return nil
		}
	}
}
