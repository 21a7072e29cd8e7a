// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/internal/types"
)

const (
	defaultAcquireTimeout = 30 * time.Second
	defaultPingTimeout    = 10 * time.Second
	defaultMaxOpenConns   = 10
)

var ErrNotConfigured = errors.New("datasource is not configured")

// Options describes the external database an instance reads users from.
type Options struct {
	URL      string
	Dialect  Dialect
	User     string
	Password string
	// PoolID names the pool in logs and metrics.
	PoolID string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AcquireTimeout  time.Duration
}

type pool struct {
	db      *sql.DB
	options Options
}

// poolOwners tracks which pool reports the metrics of a pool id. Providers
// replacing each other for the same id overlap briefly, only the newest pool
// owns the statistics collector and the availability gauge.
var poolOwners = struct {
	sync.Mutex
	pools      map[string]*pool
	collectors map[string]prometheus.Collector
}{
	pools:      make(map[string]*pool),
	collectors: make(map[string]prometheus.Collector),
}

var _ ProviderInterface = (*Provider)(nil)

// Provider owns the connection pool of one federation instance snapshot. The
// pool is replaced atomically on Configure: calls that already took a
// snapshot keep using it, a call that had not acquired its connection when
// the old pool was closed fails with a connection error.
type Provider struct {
	current atomic.Pointer[pool]

	// serializes Configure and Close
	mu     sync.Mutex
	closed bool

	open func(Options) (*sql.DB, error)

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Configure opens and pings a pool for the options. On success it becomes the
// active pool and the previous one is closed, on failure the previous pool
// stays active and a configuration error is returned.
func (p *Provider) Configure(ctx context.Context, opts Options) error {
	ctx, span := p.tracer.Start(ctx, "datasource.Provider.Configure")
	defer span.End()

	op := "datasource.Provider.Configure"

	if !opts.Dialect.Valid() {
		return types.NewConfigurationError(op, "unsupported dialect", nil)
	}

	if opts.URL == "" {
		return types.NewConfigurationError(op, "connection url is required", nil)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return types.NewConfigurationError(op, "provider is closed", nil)
	}

	db, err := p.open(opts)
	if err != nil {
		return types.NewConfigurationError(op, "invalid connection target", err)
	}

	setPoolLimits(db, opts)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		p.setAvailability(opts.PoolID, 0)
		return types.NewConfigurationError(op, "database is not reachable", err)
	}

	next := &pool{db: db, options: opts}
	previous := p.current.Swap(next)

	if previous != nil {
		p.release(previous)
	}

	p.own(next)
	p.setAvailability(opts.PoolID, 1)

	p.logger.Infof("datasource %s configured with dialect %s", opts.PoolID, opts.Dialect)

	return nil
}

// Acquire borrows a connection from the active pool, the caller must close
// it. Acquisition is bounded by the configured acquire timeout.
func (p *Provider) Acquire(ctx context.Context) (*sql.Conn, error) {
	ctx, span := p.tracer.Start(ctx, "datasource.Provider.Acquire")
	defer span.End()

	op := "datasource.Provider.Acquire"

	current := p.current.Load()
	if current == nil {
		return nil, types.NewConnectionError(op, ErrNotConfigured)
	}

	timeout := current.options.AcquireTimeout
	if timeout <= 0 {
		timeout = defaultAcquireTimeout
	}

	acquireCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := current.db.Conn(acquireCtx)
	if err != nil {
		p.logger.Errorf("failed to acquire connection from %s: %v", current.options.PoolID, err)
		return nil, types.NewConnectionError(op, err)
	}

	return conn, nil
}

// WithConn runs fn with a borrowed connection and releases it on every exit
// path, panics included.
func (p *Provider) WithConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn)
}

func (p *Provider) Dialect() Dialect {
	if current := p.current.Load(); current != nil {
		return current.options.Dialect
	}
	return DialectUnknown
}

// Close releases the active pool, later calls are no-ops.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true

	if current := p.current.Swap(nil); current != nil {
		return p.release(current)
	}

	return nil
}

func (p *Provider) release(old *pool) error {
	if p.disown(old) {
		p.setAvailability(old.options.PoolID, 0)
	}

	if err := old.db.Close(); err != nil {
		p.logger.Errorf("failed to close datasource %s: %v", old.options.PoolID, err)
		return fmt.Errorf("failed to close datasource %s: %v", old.options.PoolID, err)
	}

	return nil
}

// own makes current the pool reporting statistics for its pool id.
func (p *Provider) own(current *pool) {
	id := current.options.PoolID

	poolOwners.Lock()
	defer poolOwners.Unlock()

	if c, ok := poolOwners.collectors[id]; ok {
		prometheus.Unregister(c)
		delete(poolOwners.collectors, id)
	}

	poolOwners.pools[id] = current

	c := collectors.NewDBStatsCollector(current.db, id)
	if err := prometheus.Register(c); err != nil {
		p.logger.Debugf("pool statistics for %s not registered: %v", id, err)
		return
	}

	poolOwners.collectors[id] = c
}

// disown drops the metrics of old, it reports false when a newer pool
// already took them over.
func (p *Provider) disown(old *pool) bool {
	id := old.options.PoolID

	poolOwners.Lock()
	defer poolOwners.Unlock()

	if poolOwners.pools[id] != old {
		return false
	}

	if c, ok := poolOwners.collectors[id]; ok {
		prometheus.Unregister(c)
		delete(poolOwners.collectors, id)
	}
	delete(poolOwners.pools, id)

	return true
}

func (p *Provider) setAvailability(poolID string, value float64) {
	tags := map[string]string{"component": "datasource:" + poolID}

	if err := p.monitor.SetDependencyAvailability(tags, value); err != nil {
		p.logger.Debugf("error setting dependency availability metric: %s", err)
	}
}

func setPoolLimits(db *sql.DB, opts Options) {
	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}

	db.SetMaxOpenConns(maxOpen)

	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}

	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func NewProvider(tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Provider {
	p := new(Provider)

	p.open = openDB

	p.tracer = tracer
	p.monitor = monitor
	p.logger = logger

	return p
}
