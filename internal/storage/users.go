// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/canonical/db-federation-service/internal/types"
)

var userColumns = []string{
	"id", "username", "email", "first_name", "last_name", "enabled",
	"federation_link", "attributes", "created_at", "updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*types.User, error) {
	var (
		u                                types.User
		email, firstName, lastName, link sql.NullString
		attributes                       []byte
	)

	err := row.Scan(
		&u.ID, &u.Username, &email, &firstName, &lastName, &u.Enabled,
		&link, &attributes, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Email = email.String
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.FederationLink = link.String

	if len(attributes) > 0 {
		if err := json.Unmarshal(attributes, &u.Attributes); err != nil {
			return nil, fmt.Errorf("failed to decode attributes: %v", err)
		}
	}

	if len(u.Attributes) == 0 {
		u.Attributes = nil
	}

	return &u, nil
}

func encodeAttributes(attrs map[string]string) (string, error) {
	if attrs == nil {
		attrs = map[string]string{}
	}

	b, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("failed to encode attributes: %v", err)
	}

	return string(b), nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateUser inserts a new local user, generating its id when empty.
func (s *Storage) CreateUser(ctx context.Context, user *types.User) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateUser")
	defer span.End()

	id := user.ID
	if id == "" {
		id = uuid.New().String()
	}

	attrs, err := encodeAttributes(user.Attributes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	row := s.db.Statement(ctx).
		Insert("users").
		Columns(userColumns...).
		Values(
			id, user.Username, nullable(user.Email), nullable(user.FirstName), nullable(user.LastName),
			user.Enabled, nullable(user.FederationLink), attrs, now, now,
		).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		QueryRowContext(ctx)

	created, err := scanUser(row)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, WrapDuplicateKeyError(err, "username already exists")
		}
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	return created, nil
}

func (s *Storage) GetUser(ctx context.Context, id string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetUser")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	return s.getUserBy(ctx, sq.Eq{"id": id})
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetUserByUsername")
	defer span.End()

	return s.getUserBy(ctx, sq.Eq{"username": username})
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetUserByEmail")
	defer span.End()

	return s.getUserBy(ctx, sq.Expr("lower(email) = lower(?)", email))
}

func (s *Storage) getUserBy(ctx context.Context, pred sq.Sqlizer) (*types.User, error) {
	row := s.db.Statement(ctx).
		Select(userColumns...).
		From("users").
		Where(pred).
		OrderBy("created_at ASC").
		Limit(1).
		QueryRowContext(ctx)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %v", err)
	}

	return user, nil
}

// UpdateUser overwrites the mutable fields of an existing user.
func (s *Storage) UpdateUser(ctx context.Context, user *types.User) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpdateUser")
	defer span.End()

	attrs, err := encodeAttributes(user.Attributes)
	if err != nil {
		return nil, err
	}

	row := s.db.Statement(ctx).
		Update("users").
		Set("email", nullable(user.Email)).
		Set("first_name", nullable(user.FirstName)).
		Set("last_name", nullable(user.LastName)).
		Set("enabled", user.Enabled).
		Set("federation_link", nullable(user.FederationLink)).
		Set("attributes", attrs).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": user.ID}).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		QueryRowContext(ctx)

	updated, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %v", err)
	}

	return updated, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.DeleteUser")
	defer span.End()

	result, err := s.db.Statement(ctx).
		Delete("users").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListUsersByFederationLink returns the local users materialized by one
// instance, ordered by username. A zero limit returns every user.
func (s *Storage) ListUsersByFederationLink(ctx context.Context, link string, offset, limit uint64) ([]*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListUsersByFederationLink")
	defer span.End()

	query := s.db.Statement(ctx).
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"federation_link": link}).
		OrderBy("username ASC").
		Offset(offset)

	if limit > 0 {
		query = query.Limit(limit)
	}

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %v", err)
	}
	defer rows.Close()

	users := make([]*types.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %v", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %v", err)
	}

	return users, nil
}
