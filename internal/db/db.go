// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
)

const defaultPageSize uint64 = 100

type txKey struct{}

type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	TracingEnabled  bool
}

var _ DBClientInterface = (*DBClient)(nil)

// DBClient wraps the pool of the local identity store.
type DBClient struct {
	pool *pgxpool.Pool
	db   *sql.DB

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Statement returns a squirrel builder bound to the transaction carried by
// the context, or to the pool when there is none.
func (c *DBClient) Statement(ctx context.Context) sq.StatementBuilderType {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok && tx != nil {
		return builder.RunWith(tx)
	}

	return builder.RunWith(c.db)
}

// BeginTx starts a transaction and returns a context carrying it.
func (c *DBClient) BeginTx(ctx context.Context) (context.Context, *sql.Tx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to begin transaction: %v", err)
	}

	return context.WithValue(ctx, txKey{}, tx), tx, nil
}

func (c *DBClient) DB() *sql.DB {
	return c.db
}

func (c *DBClient) Close() {
	c.db.Close()
	c.pool.Close()
}

func PageSize(size int64) uint64 {
	if size <= 0 {
		return defaultPageSize
	}
	return uint64(size)
}

func NewDBClient(cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*DBClient, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Fatalf("DSN validation failed, shutting down, err: %v", err)
		return nil, fmt.Errorf("invalid DSN: %v", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	if cfg.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Errorf("failed to create connection pool: %v", err)
		return nil, fmt.Errorf("failed to create connection pool: %v", err)
	}

	c := new(DBClient)
	c.pool = pool
	c.db = stdlib.OpenDBFromPool(pool)

	c.tracer = tracer
	c.monitor = monitor
	c.logger = logger

	available := 1.0
	if err := c.db.PingContext(context.Background()); err != nil {
		logger.Errorf("local database is not reachable: %v", err)
		available = 0
	}

	if err := monitor.SetDependencyAvailability(map[string]string{"component": "local-db"}, available); err != nil {
		logger.Debugf("error setting dependency availability metric: %s", err)
	}

	return c, nil
}
