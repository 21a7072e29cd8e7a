// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"

	"github.com/canonical/db-federation-service/internal/config"
	"github.com/canonical/db-federation-service/internal/db"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/storage"
	"github.com/canonical/db-federation-service/internal/synclock"
	"github.com/canonical/db-federation-service/internal/tracing"
)

// localStore opens the local identity store, without a DSN users are kept
// in memory and lost on restart.
func localStore(
	specs *config.EnvSpec,
	dsn string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (storage.StorageInterface, db.DBClientInterface, func(), error) {
	if dsn == "" {
		logger.Warn("No DSN configured, local users are kept in memory")
		return storage.NewMemoryStorage(), nil, func() {}, nil
	}

	dbClient, err := db.NewDBClient(
		db.Config{
			DSN:             dsn,
			MaxConns:        specs.DBMaxConns,
			MinConns:        specs.DBMinConns,
			MaxConnLifetime: specs.DBMaxConnLifetime,
			MaxConnIdleTime: specs.DBMaxConnIdleTime,
			TracingEnabled:  specs.TracingEnabled,
		},
		tracer,
		monitor,
		logger,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create database client: %v", err)
	}

	return storage.NewStorage(dbClient, tracer, monitor, logger), dbClient, dbClient.Close, nil
}

// syncLocker returns a Redis backed lock when an address is configured, an
// in-process one otherwise.
func syncLocker(
	ctx context.Context,
	specs *config.EnvSpec,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (synclock.LockerInterface, func(), error) {
	if specs.RedisAddr == "" {
		logger.Info("Using in-process sync lock")
		return synclock.NewLocalLocker(), func() {}, nil
	}

	client, err := synclock.NewRedisClient(ctx, specs.RedisAddr, specs.RedisPassword, specs.RedisDB)
	if err != nil {
		return nil, nil, err
	}

	logger.Infof("Using redis sync lock at %s", specs.RedisAddr)

	closer := func() {
		if err := client.Close(); err != nil {
			logger.Errorf("failed to close redis client: %v", err)
		}
	}

	return synclock.NewRedisLocker(client, tracer, monitor, logger), closer, nil
}
