// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/canonical/db-federation-service/internal/credentials"
	"github.com/canonical/db-federation-service/internal/datasource"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/internal/types"
)

var _ RepositoryInterface = (*Repository)(nil)

// Repository runs the configured templates of one instance against its
// external database.
type Repository struct {
	provider datasource.ProviderInterface
	config   QueryConfig
	verifier credentials.VerifierInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (r *Repository) Config() QueryConfig {
	return r.config
}

// Count returns the number of external users. With a search term the count
// is taken over the search template result set.
func (r *Repository) Count(ctx context.Context, search string) (int, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Repository.Count")
	defer span.End()

	query, args := r.config.Count, []any(nil)
	if strings.TrimSpace(search) != "" {
		query = r.config.Dialect.CountQuery(r.config.FindBySearchTerm)
		args = r.searchArgs(search)
	}

	rebound, err := r.config.Dialect.Rebind(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare count query: %w", err)
	}

	var count int64
	err = r.withConn(ctx, "count", func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, rebound, args...).Scan(&count)
	})

	if err != nil {
		return 0, r.wrap("count users", err)
	}

	return int(count), nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*types.ExternalUserRecord, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Repository.FindByID")
	defer span.End()

	return r.findOne(ctx, "find-by-id", r.config.FindByID, id)
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*types.ExternalUserRecord, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Repository.FindByUsername")
	defer span.End()

	return r.findOne(ctx, "find-by-username", r.config.FindByUsername, username)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*types.ExternalUserRecord, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Repository.FindByEmail")
	defer span.End()

	return r.findOne(ctx, "find-by-email", r.config.FindByEmail, email)
}

// FindUsers lists external users, filtered by a case-insensitive partial
// match when search is set. The page is only applied when not nil.
func (r *Repository) FindUsers(ctx context.Context, search string, page *datasource.PageRequest) ([]*types.ExternalUserRecord, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Repository.FindUsers")
	defer span.End()

	if strings.TrimSpace(search) == "" {
		return r.query(ctx, "list-all", r.config.ListAll, page)
	}

	return r.query(ctx, "find-by-search-term", r.config.FindBySearchTerm, page, r.searchArgs(search)...)
}

// FindPasswordHash returns the raw stored hash of a user, the boolean is
// false when the user or its hash does not exist.
func (r *Repository) FindPasswordHash(ctx context.Context, username string) (string, bool, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Repository.FindPasswordHash")
	defer span.End()

	rebound, err := r.config.Dialect.Rebind(r.config.FindPasswordHash)
	if err != nil {
		return "", false, fmt.Errorf("failed to prepare password hash query: %w", err)
	}

	var hash sql.NullString
	err = r.withConn(ctx, "find-password-hash", func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, rebound, username).Scan(&hash)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, r.wrap("find password hash", err)
	}

	value := strings.TrimSpace(hash.String)
	if !hash.Valid || value == "" {
		return "", false, nil
	}

	return value, true, nil
}

func (r *Repository) ValidateCredentials(ctx context.Context, username, password string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Repository.ValidateCredentials")
	defer span.End()

	hash, found, err := r.FindPasswordHash(ctx, username)
	if err != nil {
		return false, err
	}

	if !found {
		return false, nil
	}

	return r.verifier.Verify(hash, password), nil
}

// UpdateCredentials writes the hash of the new password back to the external
// database. It returns false when no update template is configured or no row
// was touched.
func (r *Repository) UpdateCredentials(ctx context.Context, username, password string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Repository.UpdateCredentials")
	defer span.End()

	if strings.TrimSpace(r.config.UpdatePasswordHash) == "" {
		return false, nil
	}

	hash, err := r.verifier.Hash(password)
	if err != nil {
		return false, err
	}

	rebound, err := r.config.Dialect.Rebind(r.config.UpdatePasswordHash)
	if err != nil {
		return false, fmt.Errorf("failed to prepare password update: %w", err)
	}

	var affected int64
	err = r.withConn(ctx, "update-password-hash", func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, rebound, hash, username)
		if err != nil {
			return err
		}

		affected, err = res.RowsAffected()
		return err
	})

	if err != nil {
		return false, r.wrap("update password hash", err)
	}

	return affected > 0, nil
}

// GetAllUsersForSync fetches every external user in one unpaged query.
func (r *Repository) GetAllUsersForSync(ctx context.Context) ([]*types.ExternalUserRecord, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Repository.GetAllUsersForSync")
	defer span.End()

	return r.query(ctx, "list-all-for-sync", r.config.syncQuery(), nil)
}

func (r *Repository) findOne(ctx context.Context, name, template string, arg string) (*types.ExternalUserRecord, error) {
	records, err := r.query(ctx, name, template, nil, arg)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, nil
	}

	if len(records) > 1 {
		r.logger.Warnf("%s matched %d rows, using the first one", name, len(records))
	}

	return records[0], nil
}

func (r *Repository) query(ctx context.Context, name, template string, page *datasource.PageRequest, args ...any) ([]*types.ExternalUserRecord, error) {
	paged, pageArgs := r.config.Dialect.Paginate(template, page)
	args = append(args, pageArgs...)

	rebound, err := r.config.Dialect.Rebind(paged)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query: %w", err)
	}

	var records []*types.ExternalUserRecord
	err = r.withConn(ctx, name, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, rebound, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		records, err = mapRows(name, rows)
		return err
	})

	if err != nil {
		return nil, r.wrap("execute "+name, err)
	}

	return records, nil
}

// withConn runs fn on a borrowed connection and records how long the named
// template took.
func (r *Repository) withConn(ctx context.Context, name string, fn func(*sql.Conn) error) error {
	start := time.Now()
	err := r.provider.WithConn(ctx, fn)

	outcome := "success"
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		outcome = "error"
	}

	tags := map[string]string{"dialect": r.config.Dialect.String(), "query": name, "outcome": outcome}
	if merr := r.monitor.SetQueryTimeMetric(tags, time.Since(start).Seconds()); merr != nil {
		r.logger.Debugf("failed to record query time: %v", merr)
	}

	return err
}

// searchArgs binds `%TERM%` to every placeholder of the search template.
func (r *Repository) searchArgs(search string) []any {
	pattern := "%" + strings.ToUpper(strings.TrimSpace(search)) + "%"

	n := datasource.CountPlaceholders(r.config.FindBySearchTerm)
	args := make([]any, n)
	for i := range args {
		args[i] = pattern
	}

	return args
}

func (r *Repository) wrap(action string, err error) error {
	if errors.Is(err, types.ErrConnection) || errors.Is(err, types.ErrRowMapping) {
		return err
	}

	r.logger.Errorf("failed to %s: %v", action, err)

	return fmt.Errorf("failed to %s: %w", action, err)
}

// NewRepository validates the configuration and resolves its hash algorithm.
func NewRepository(provider datasource.ProviderInterface, config QueryConfig, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*Repository, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	verifier, err := credentials.NewVerifier(config.HashAlgorithm, config.PBKDF2Iterations)
	if err != nil {
		return nil, err
	}

	r := new(Repository)

	r.provider = provider
	r.config = config
	r.verifier = verifier

	r.tracer = tracer
	r.monitor = monitor
	r.logger = logger

	return r, nil
}
