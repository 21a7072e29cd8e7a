// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/canonical/db-federation-service/internal/credentials"
	"github.com/canonical/db-federation-service/internal/datasource"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/internal/types"
)

const externalSchema = `
CREATE TABLE accounts (
	account_id  integer PRIMARY KEY,
	login       text NOT NULL,
	mail        text,
	given_name  text,
	family_name text,
	pwd         text
)`

// sanitizeName converts test names to valid container names.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ToLower(name)
	return name
}

func setupExternalPostgres(t *testing.T) (string, *postgres.PostgresContainer) {
	t.Helper()
	ctx := context.Background()

	containerName := fmt.Sprintf("federation-external-%s", sanitizeName(t.Name()))

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
			postgres.WithDatabase("erp"),
			postgres.WithUsername("reader"),
			postgres.WithPassword("readerpass"),
			testcontainers.CustomizeRequest(testcontainers.GenericContainerRequest{
				ContainerRequest: testcontainers.ContainerRequest{
					Name: containerName,
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
		t.Fatalf("Failed to parse config: %v", err)
	}

	sqlDB := stdlib.OpenDB(*config)
	defer sqlDB.Close()

	// Wait for PostgreSQL to be ready
	for i := 0; i < 10; i++ {
		if err = sqlDB.Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}

	if _, err := sqlDB.Exec(externalSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	md5, _ := credentials.NewVerifier(credentials.AlgorithmMD5, 0)
	for i := 1; i <= 7; i++ {
		hash, _ := md5.Hash(fmt.Sprintf("password-%d", i))
		_, err := sqlDB.Exec(
			"INSERT INTO accounts (account_id, login, mail, given_name, family_name, pwd) VALUES ($1, $2, $3, $4, $5, $6)",
			i, fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("Given%d", i), "Family", hash,
		)
		if err != nil {
			t.Fatalf("Failed to seed row %d: %v", i, err)
		}
	}

	return connStr, pgContainer
}

func externalConfig() QueryConfig {
	columns := `CAST(account_id AS text) AS "id", login AS "username", mail AS "email", given_name AS "firstName", family_name AS "lastName"`

	return QueryConfig{
		Count:            "SELECT COUNT(*) FROM accounts",
		ListAll:          "SELECT " + columns + " FROM accounts ORDER BY account_id",
		FindByID:         "SELECT " + columns + " FROM accounts WHERE CAST(account_id AS text) = ?",
		FindByUsername:   "SELECT " + columns + " FROM accounts WHERE login = ?",
		FindByEmail:      "SELECT " + columns + " FROM accounts WHERE mail = ?",
		FindBySearchTerm: "SELECT " + columns + " FROM accounts WHERE UPPER(login) LIKE ? OR UPPER(mail) LIKE ? ORDER BY account_id",
		FindPasswordHash: "SELECT pwd FROM accounts WHERE login = ?",
		Dialect:          datasource.DialectPostgreSQL,
		HashAlgorithm:    credentials.AlgorithmMD5,
	}
}

func usernames(records []*types.ExternalUserRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Username())
	}
	sort.Strings(out)
	return out
}

func TestRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Parallel()

	connStr, container := setupExternalPostgres(t)
	if container == nil {
		return // skipped due to Docker unavailability
	}
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	ctx := context.Background()
	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test", logger)

	provider := datasource.NewProvider(tracer, monitor, logger)
	if err := provider.Configure(ctx, datasource.Options{URL: "jdbc:" + connStr, Dialect: datasource.DialectPostgreSQL, PoolID: "integration"}); err != nil {
		t.Fatalf("Failed to configure provider: %v", err)
	}
	defer provider.Close()

	r, err := NewRepository(provider, externalConfig(), tracer, monitor, logger)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	all, err := r.FindUsers(ctx, "", nil)
	if err != nil {
		t.Fatalf("Failed to list users: %v", err)
	}

	if len(all) != 7 {
		t.Fatalf("expected 7 users, got %d", len(all))
	}

	t.Run("pagination round trip", func(t *testing.T) {
		for _, k := range []int{1, 3, 7} {
			var collected []*types.ExternalUserRecord

			for i := 0; i < (len(all)+k-1)/k; i++ {
				page, err := r.FindUsers(ctx, "", &datasource.PageRequest{Offset: i * k, Limit: k})
				if err != nil {
					t.Fatalf("k=%d page %d: %v", k, i, err)
				}
				collected = append(collected, page...)
			}

			if fmt.Sprint(usernames(collected)) != fmt.Sprint(usernames(all)) {
				t.Fatalf("k=%d: expected %v, got %v", k, usernames(all), usernames(collected))
			}
		}
	})

	t.Run("search and count agree", func(t *testing.T) {
		found, err := r.FindUsers(ctx, "USER1", nil)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}

		count, err := r.Count(ctx, "user1")
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}

		if len(found) != 1 || count != 1 {
			t.Fatalf("expected one match, got %d records and count %d", len(found), count)
		}

		total, err := r.Count(ctx, "")
		if err != nil || total != 7 {
			t.Fatalf("expected total 7, got %d, %v", total, err)
		}
	})

	t.Run("lookups and credentials", func(t *testing.T) {
		u, err := r.FindByEmail(ctx, "user3@example.com")
		if err != nil || u == nil || u.ID() != "3" || u.FirstName() != "Given3" {
			t.Fatalf("unexpected lookup result %v, %v", u, err)
		}

		ok, err := r.ValidateCredentials(ctx, "user3", "password-3")
		if err != nil || !ok {
			t.Fatalf("expected valid credentials, got %v, %v", ok, err)
		}

		ok, err = r.ValidateCredentials(ctx, "user3", "password-4")
		if err != nil || ok {
			t.Fatalf("expected invalid credentials, got %v, %v", ok, err)
		}
	})
}
