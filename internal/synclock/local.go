// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package synclock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrLocked = errors.New("lock is held by another run")

var _ LockerInterface = (*LocalLocker)(nil)

// LocalLocker serializes runs inside one process.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]localLock
	clock func() time.Time
}

type localLock struct {
	token   string
	expires time.Time
}

func (l *LocalLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (ReleaseFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if current, ok := l.held[name]; ok && now.Before(current.expires) {
		return nil, ErrLocked
	}

	token := uuid.NewString()
	l.held[name] = localLock{token: token, expires: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()

		if current, ok := l.held[name]; ok && current.token == token {
			delete(l.held, name)
		}

		return nil
	}, nil
}

func NewLocalLocker() *LocalLocker {
	l := new(LocalLocker)
	l.held = make(map[string]localLock)
	l.clock = time.Now

	return l
}
