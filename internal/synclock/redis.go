// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package synclock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
)

const keyPrefix = "db-federation:sync-lock:"

// releaseScript deletes the key only when it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var _ LockerInterface = (*RedisLocker)(nil)

// RedisLocker serializes runs across replicas sharing a Redis server.
type RedisLocker struct {
	client redis.UniversalClient

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (l *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (ReleaseFunc, error) {
	ctx, span := l.tracer.Start(ctx, "synclock.RedisLocker.Acquire")
	defer span.End()

	key := keyPrefix + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %v", name, err)
	}

	if !ok {
		return nil, ErrLocked
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Errorf("failed to release lock %s: %v", name, err)
			return fmt.Errorf("failed to release lock %s: %v", name, err)
		}

		return nil
	}, nil
}

// Ping checks the Redis server and reports it as a dependency.
func (l *RedisLocker) Ping(ctx context.Context) error {
	err := l.client.Ping(ctx).Err()

	available := 1.0
	if err != nil {
		available = 0
	}

	if merr := l.monitor.SetDependencyAvailability(map[string]string{"component": "redis"}, available); merr != nil {
		l.logger.Debugf("failed to set redis availability: %v", merr)
	}

	return err
}

func NewRedisLocker(client redis.UniversalClient, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *RedisLocker {
	l := new(RedisLocker)

	l.client = client

	l.tracer = tracer
	l.monitor = monitor
	l.logger = logger

	return l
}

// NewRedisClient connects to the given server and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return client, nil
}
