// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/canonical/db-federation-service/internal/db"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/internal/types"
	"github.com/canonical/db-federation-service/migrations"
)

func setupStoragePostgres(t *testing.T) (string, *postgres.PostgresContainer) {
	t.Helper()
	ctx := context.Background()

	name := strings.ToLower(strings.NewReplacer("/", "-", " ", "-").Replace(t.Name()))

	var pgContainer *postgres.PostgresContainer
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("Skipping: Docker not available (%v)", r)
			}
		}()
		var err error
		pgContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.CustomizeRequest(testcontainers.GenericContainerRequest{
				ContainerRequest: testcontainers.ContainerRequest{
					Name: fmt.Sprintf("federation-storage-%s", name),
				},
			}),
		)
		if err != nil {
			t.Fatalf("Failed to start PostgreSQL container: %v", err)
		}
	}()

	if pgContainer == nil {
		return "", nil
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	config, err := pgx.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("Failed to parse DSN: %v", err)
	}

	sqlDB := stdlib.OpenDB(*config)
	defer sqlDB.Close()

	for i := 0; i < 10; i++ {
		if err = sqlDB.Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}

	goose.SetBaseFS(migrations.EmbedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("Failed to set dialect: %v", err)
	}
	if err := goose.Up(sqlDB, "."); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return connStr, pgContainer
}

func TestStorageUsersIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Parallel()

	connStr, container := setupStoragePostgres(t)
	if container == nil {
		return
	}
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	tracer := tracing.NewNoopTracer()
	logger := logging.NewNoopLogger()
	monitor := monitoring.NewNoopMonitor("test", logger)

	dbClient, err := db.NewDBClient(db.Config{DSN: connStr, MinConns: 1, MaxConns: 4}, tracer, monitor, logger)
	if err != nil {
		t.Fatalf("Failed to create DB client: %v", err)
	}
	defer dbClient.Close()

	ctx := context.Background()
	s := NewStorage(dbClient, tracer, monitor, logger)

	alice, err := s.CreateUser(ctx, &types.User{
		Username:       "alice",
		Email:          "Alice@Example.com",
		FirstName:      "Alice",
		Enabled:        true,
		FederationLink: "erp",
		Attributes:     map[string]string{"department": "r&d"},
	})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	if _, err := s.CreateUser(ctx, &types.User{Username: "alice"}); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	got, err := s.GetUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if got.Attributes["department"] != "r&d" || got.LastName != "" {
		t.Fatalf("Unexpected user: %+v", got)
	}

	if _, err := s.GetUser(ctx, "f:erp:1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for a non uuid id, got %v", err)
	}

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	if err != nil || byEmail.ID != alice.ID {
		t.Fatalf("Expected case-insensitive email lookup, got %v %v", byEmail, err)
	}

	got.FederationLink = ""
	got.LastName = "Liddell"
	updated, err := s.UpdateUser(ctx, got)
	if err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	if updated.FederationLink != "" || updated.LastName != "Liddell" {
		t.Fatalf("Unexpected update result: %+v", updated)
	}

	for _, u := range []string{"carol", "bob"} {
		if _, err := s.CreateUser(ctx, &types.User{Username: u, FederationLink: "erp"}); err != nil {
			t.Fatalf("Failed to create %s: %v", u, err)
		}
	}

	linked, err := s.ListUsersByFederationLink(ctx, "erp", 0, 1)
	if err != nil {
		t.Fatalf("Failed to list users: %v", err)
	}
	if len(linked) != 1 || linked[0].Username != "bob" {
		t.Fatalf("Expected bob on the first page, got %v", linked)
	}

	if err := s.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}
	if err := s.DeleteUser(ctx, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
