// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package synclock

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
)

func setupTestRedis(t *testing.T) (string, testcontainers.Container) {
	t.Helper()
	ctx := context.Background()

	var container testcontainers.Container
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("Skipping: Docker not available (%v)", r)
			}
		}()

		var err error
		container, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections"),
			},
			Started: true,
		})
		if err != nil {
			t.Fatalf("Failed to start Redis container: %v", err)
		}
	}()

	if container == nil {
		return "", nil
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}

	return fmt.Sprintf("%s:%s", host, port.Port()), container
}

func TestRedisLockerIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Parallel()

	addr, container := setupTestRedis(t)
	if container == nil {
		return
	}
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	ctx := context.Background()

	client, err := NewRedisClient(ctx, addr, "", 0)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	logger := logging.NewNoopLogger()
	l := NewRedisLocker(client, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	if err := l.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	release, err := l.Acquire(ctx, "erp", time.Minute)
	if err != nil {
		t.Fatalf("Failed to acquire: %v", err)
	}

	if _, err := l.Acquire(ctx, "erp", time.Minute); !errors.Is(err, ErrLocked) {
		t.Fatalf("Expected ErrLocked, got %v", err)
	}

	if err := release(ctx); err != nil {
		t.Fatalf("Failed to release: %v", err)
	}

	short, err := l.Acquire(ctx, "erp", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Expected lock to be free after release, got %v", err)
	}

	time.Sleep(300 * time.Millisecond)

	next, err := l.Acquire(ctx, "erp", time.Minute)
	if err != nil {
		t.Fatalf("Expected expired lock to be free, got %v", err)
	}

	// the stale holder must not delete the new holder's key
	if err := short(ctx); err != nil {
		t.Fatalf("Stale release failed: %v", err)
	}
	if _, err := l.Acquire(ctx, "erp", time.Minute); !errors.Is(err, ErrLocked) {
		t.Fatalf("Expected lock to still be held, got %v", err)
	}

	_ = next(ctx)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "127.0.0.1:1", "", 0); err == nil {
		t.Fatal("expected an error for an unreachable server")
	}
}
