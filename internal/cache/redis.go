package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"forumapi/internal/config"
	"forumapi/internal/model"
	"forumapi/internal/repository"
)

const keyPrefix = "forum:topics:mb"

// RedisCache implements TopicListCache on Redis.
// It is safe for concurrent use by multiple goroutines.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ TopicListCache = (*RedisCache)(nil)

// NewRedisClient builds a client from a redis:// URL or a plain host:port address
// and checks connectivity. A failed ping is logged, not fatal.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) *redis.Client {
	opts, err := redis.ParseURL(cfg.Addr)
	if err != nil {
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	opts.MaxRetries = 3
	opts.MinRetryBackoff = 100 * time.Millisecond
	opts.MaxRetryBackoff = 500 * time.Millisecond

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	log = log.With().Str("component", "cache").Logger()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Error().Err(err).Str("event", "redis_connect").Str("status", "error").Send()
	} else {
		log.Info().Str("event", "redis_connect").Str("status", "success").Int("db", opts.DB).Send()
	}
	return client
}

// NewRedisCache wraps client. A non-positive ttl defaults to 30s.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisCache{client: client, ttl: ttl}
}

func versionKey(messageboardID int64) string {
	return fmt.Sprintf("%s:%d:ver", keyPrefix, messageboardID)
}

func pageKey(messageboardID int64, version string, page, perPage int) string {
	return fmt.Sprintf("%s:%d:v%s:p%d:n%d", keyPrefix, messageboardID, version, page, perPage)
}

func (r *RedisCache) version(ctx context.Context, messageboardID int64) (string, error) {
	v, err := r.client.Get(ctx, versionKey(messageboardID)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return v, err
}

// GetTopics reads the page stored under the current version.
func (r *RedisCache) GetTopics(ctx context.Context, messageboardID int64, page, perPage int) (*repository.PageResult[model.Topic], bool, error) {
	ver, err := r.version(ctx, messageboardID)
	if err != nil {
		return nil, false, fmt.Errorf("read cache version: %w", err)
	}
	b, err := r.client.Get(ctx, pageKey(messageboardID, ver, page, perPage)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached page: %w", err)
	}
	var res repository.PageResult[model.Topic]
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, false, fmt.Errorf("decode cached page: %w", err)
	}
	return &res, true, nil
}

// SetTopics writes the page under the current version with the configured TTL.
func (r *RedisCache) SetTopics(ctx context.Context, messageboardID int64, page, perPage int, res *repository.PageResult[model.Topic]) error {
	ver, err := r.version(ctx, messageboardID)
	if err != nil {
		return fmt.Errorf("read cache version: %w", err)
	}
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	if err := r.client.Set(ctx, pageKey(messageboardID, ver, page, perPage), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("write cached page: %w", err)
	}
	return nil
}

// Invalidate bumps the messageboard version.
func (r *RedisCache) Invalidate(ctx context.Context, messageboardID int64) error {
	if err := r.client.Incr(ctx, versionKey(messageboardID)).Err(); err != nil {
		return fmt.Errorf("bump cache version: %w", err)
	}
	return nil
}
