// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL bounds how long a crashed holder can keep a topic locked.
	DefaultTTL = 30 * time.Second
	// DefaultRetryInterval is the pause between acquisition attempts.
	DefaultRetryInterval = 50 * time.Millisecond

	keyPrefix = "approval:topic-lock:"
)

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisClientConfig configures the Redis connection used for topic locks.
type RedisClientConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedisClient connects to Redis and verifies the connection.
// It returns nil when no URL is configured.
func NewRedisClient(ctx context.Context, cfg RedisClientConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// RedisLocker serializes topics across service instances with SET NX PX.
type RedisLocker struct {
	client        redis.UniversalClient
	ttl           time.Duration
	retryInterval time.Duration
}

// NewRedisLocker creates a topic locker backed by client. Zero durations
// fall back to DefaultTTL and DefaultRetryInterval.
func NewRedisLocker(client redis.UniversalClient, ttl, retryInterval time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}
	return &RedisLocker{client: client, ttl: ttl, retryInterval: retryInterval}
}

// Lock polls until the topic key is acquired or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, topicUID string) (func(), error) {
	key := keyPrefix + topicUID
	token := uuid.New().String()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, domain.NewUnavailableError("timed out waiting for topic lock", ctx.Err())
			}
			slog.ErrorContext(ctx, "error acquiring topic lock", logging.ErrKey, err, "topic_uid", topicUID)
			return nil, domain.NewUnavailableError("topic lock store is not available", err)
		}
		if ok {
			return l.releaser(ctx, key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, domain.NewUnavailableError("timed out waiting for topic lock", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) releaser(ctx context.Context, key, token string) func() {
	// Release must run even when the request context was cancelled.
	releaseCtx := context.WithoutCancel(ctx)
	return func() {
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			slog.WarnContext(releaseCtx, "error releasing topic lock, it will expire", logging.ErrKey, err, "key", key)
		}
	}
}
