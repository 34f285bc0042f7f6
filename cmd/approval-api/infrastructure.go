// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/infrastructure/lock"
	"github.com/GlazyrinAV/corporate-approval/internal/infrastructure/messaging"
	"github.com/GlazyrinAV/corporate-approval/internal/infrastructure/sqlstore"
	"github.com/GlazyrinAV/corporate-approval/internal/infrastructure/store"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/internal/metrics"
)

// infrastructure holds the connections and adapters the services run on.
type infrastructure struct {
	natsConn       *nats.Conn
	db             *gorm.DB
	redisClient    *redis.Client
	repos          domain.Repositories
	messageBuilder domain.MessageBuilder
	locker         domain.TopicLocker
	registry       *prometheus.Registry
	metrics        *metrics.Metrics
}

// ready reports whether the external connections are usable.
func (i *infrastructure) ready() bool {
	if i.natsConn != nil && !i.natsConn.IsConnected() {
		return false
	}
	if i.db != nil && sqlstore.Ping(i.db) != nil {
		return false
	}
	return true
}

// setupInfrastructure connects to every backend selected by env.
func setupInfrastructure(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*infrastructure, error) {
	infra := &infrastructure{}

	// NATS is mandatory for the nats backend and optional otherwise; without
	// it events are dropped and the request/reply API is not served.
	if env.StoreBackend == storeBackendNATS || env.NatsURL != "" {
		natsConn, err := setupNATS(ctx, env, gracefulCloseWG, done)
		if err != nil {
			if env.StoreBackend == storeBackendNATS {
				return nil, err
			}
			slog.WarnContext(ctx, "NATS unavailable, events and request/reply API disabled", logging.ErrKey, err)
		} else {
			infra.natsConn = natsConn
		}
	}

	switch env.StoreBackend {
	case storeBackendNATS:
		repos, err := getKeyValueStores(ctx, infra.natsConn, env.NatsCreateBuckets)
		if err != nil {
			return nil, err
		}
		infra.repos = repos
	default:
		db, err := sqlstore.Open(sqlstore.Config{Driver: env.StoreBackend, DSN: env.SQLDSN})
		if err != nil {
			return nil, fmt.Errorf("error opening %s store: %w", env.StoreBackend, err)
		}
		infra.db = db
		infra.repos = sqlstore.NewRepositories(db)
	}

	if infra.natsConn != nil {
		infra.messageBuilder = messaging.NewMessageBuilder(infra.natsConn)
	} else {
		infra.messageBuilder = messaging.NoopMessageBuilder{}
	}

	redisClient, err := lock.NewRedisClient(ctx, lock.RedisClientConfig{
		URL:      env.RedisURL,
		PoolSize: env.RedisPoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}
	if redisClient != nil {
		infra.redisClient = redisClient
		infra.locker = lock.NewRedisLocker(redisClient, env.LockTTL, lock.DefaultRetryInterval)
		slog.InfoContext(ctx, "using redis topic locks", "ttl", env.LockTTL)
	} else {
		infra.locker = lock.NewLocalLocker()
	}

	if env.MetricsEnabled {
		infra.registry = prometheus.NewRegistry()
		infra.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		infra.metrics = metrics.New(infra.registry)
	}

	return infra, nil
}

// setupNATS connects to NATS. The closed handler completes the graceful
// shutdown, or triggers one when reconnect attempts are exhausted.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	natsURL := env.NatsURL

	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		natsURL,
		nats.Timeout(env.NatsTimeout),
		nats.MaxReconnects(env.NatsMaxReconnect),
		nats.ReconnectWait(env.NatsReconnectWait),
		nats.DrainTimeout(env.ShutdownTimeout),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", natsURL).Info("NATS connection established")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.With(logging.ErrKey, err).Warn("NATS disconnected")
			}
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if ctx.Err() != nil {
				// The parent context is already cancelled: this is a graceful
				// shutdown, let the remaining shutdown steps finish.
				gracefulCloseWG.Done()
				return
			}
			// Otherwise max reconnect attempts have been exhausted.
			slog.Error("NATS max-reconnects exhausted; connection closed")
			// Send a synthetic interrupt and give graceful-shutdown tasks 5
			// seconds to clean up before exiting with an error.
			done <- os.Interrupt
			time.Sleep(5 * time.Second)
			os.Exit(1)
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, fmt.Errorf("error creating NATS client: %w", err)
	}

	return natsConn, nil
}

// getKeyValueStores binds the repositories to their JetStream KV buckets.
// Missing buckets are created when createBuckets is set.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn, createBuckets bool) (domain.Repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return domain.Repositories{}, fmt.Errorf("error creating JetStream context: %w", err)
	}

	buckets := make(map[string]store.INatsKeyValue, len(store.KVStoreNames))
	for _, name := range store.KVStoreNames {
		kv, err := js.KeyValue(ctx, name)
		if errors.Is(err, jetstream.ErrBucketNotFound) && createBuckets {
			slog.InfoContext(ctx, "creating NATS KV bucket", "bucket", name)
			kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: name, History: 1})
		}
		if err != nil {
			return domain.Repositories{}, fmt.Errorf("error getting NATS KV bucket %q: %w", name, err)
		}
		buckets[name] = kv
	}

	return store.NewNatsRepositories(buckets), nil
}

// close releases the connections not owned by the graceful shutdown.
func (i *infrastructure) close() {
	if i.redisClient != nil {
		if err := i.redisClient.Close(); err != nil {
			slog.With(logging.ErrKey, err).Error("error closing redis client")
		}
	}
	if i.db != nil {
		if sqlDB, err := i.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.With(logging.ErrKey, err).Error("error closing database")
			}
		}
	}
}
