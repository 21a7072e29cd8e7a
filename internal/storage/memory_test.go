// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/canonical/db-federation-service/internal/types"
)

func TestMemoryStorageUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	alice, err := s.CreateUser(ctx, &types.User{Username: "alice", Email: "Alice@Example.com", FederationLink: "erp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alice.ID == "" || alice.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamps to be set, got %+v", alice)
	}

	if _, err := s.CreateUser(ctx, &types.User{Username: "alice"}); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	if err != nil || got.ID != alice.ID {
		t.Fatalf("expected case-insensitive email lookup, got %v %v", got, err)
	}

	got.Email = "changed@example.com"
	if stored, _ := s.GetUser(ctx, alice.ID); stored.Email != "Alice@Example.com" {
		t.Fatal("returned users must be copies")
	}

	got.Username = "mallory"
	updated, err := s.UpdateUser(ctx, got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Username != "alice" || updated.Email != "changed@example.com" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := s.UpdateUser(ctx, &types.User{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.DeleteUser(ctx, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserByUsername(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStorageListUsersByFederationLink(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	for _, u := range []string{"dave", "bob", "carol", "alice"} {
		if _, err := s.CreateUser(ctx, &types.User{Username: u, FederationLink: "erp"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := s.CreateUser(ctx, &types.User{Username: "eve"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		offset   uint64
		limit    uint64
		expected []string
	}{
		{name: "all", expected: []string{"alice", "bob", "carol", "dave"}},
		{name: "first page", limit: 2, expected: []string{"alice", "bob"}},
		{name: "second page", offset: 2, limit: 2, expected: []string{"carol", "dave"}},
		{name: "past the end", offset: 10, limit: 2, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := s.ListUsersByFederationLink(ctx, "erp", tt.offset, tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(users) != len(tt.expected) {
				t.Fatalf("expected %d users, got %d", len(tt.expected), len(users))
			}
			for i, u := range users {
				if u.Username != tt.expected[i] {
					t.Fatalf("expected %q at %d, got %q", tt.expected[i], i, u.Username)
				}
			}
		})
	}
}
