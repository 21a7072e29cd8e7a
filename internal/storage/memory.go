// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/canonical/db-federation-service/internal/types"
)

var _ StorageInterface = (*MemoryStorage)(nil)

// MemoryStorage keeps local users in process, it is used by tests and by
// the sync command when no local database is configured.
type MemoryStorage struct {
	mu    sync.RWMutex
	users map[string]*types.User
}

func (m *MemoryStorage) CreateUser(ctx context.Context, user *types.User) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return nil, fmt.Errorf("%w: username %q already exists", ErrDuplicateKey, user.Username)
		}
	}

	created := user.Clone()
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt

	m.users[created.ID] = created

	return created.Clone(), nil
}

func (m *MemoryStorage) GetUser(ctx context.Context, id string) (*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return u.Clone(), nil
}

func (m *MemoryStorage) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	return m.find(func(u *types.User) bool { return u.Username == username })
}

func (m *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	return m.find(func(u *types.User) bool { return u.Email != "" && strings.EqualFold(u.Email, email) })
}

func (m *MemoryStorage) find(match func(*types.User) bool) (*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			return u.Clone(), nil
		}
	}

	return nil, ErrNotFound
}

func (m *MemoryStorage) UpdateUser(ctx context.Context, user *types.User) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return nil, ErrNotFound
	}

	updated := user.Clone()
	updated.Username = existing.Username
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	m.users[user.ID] = updated

	return updated.Clone(), nil
}

func (m *MemoryStorage) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}

	delete(m.users, id)

	return nil
}

func (m *MemoryStorage) ListUsersByFederationLink(ctx context.Context, link string, offset, limit uint64) ([]*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*types.User, 0)
	for _, u := range m.users {
		if u.FederationLink == link {
			users = append(users, u.Clone())
		}
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	if offset >= uint64(len(users)) {
		return []*types.User{}, nil
	}

	users = users[offset:]
	if limit > 0 && limit < uint64(len(users)) {
		users = users[:limit]
	}

	return users, nil
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users: make(map[string]*types.User),
	}
}
