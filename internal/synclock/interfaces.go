// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package synclock

import (
	"context"
	"time"
)

type LockerInterface interface {
	// Acquire takes the named lock for at most ttl, it returns ErrLocked
	// when another holder has it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (ReleaseFunc, error)
}

// ReleaseFunc gives the lock back, releasing an expired or stolen lock is a
// no-op.
type ReleaseFunc func(ctx context.Context) error
