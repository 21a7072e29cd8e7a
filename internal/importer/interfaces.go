// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package importer

import (
	"context"

	"github.com/canonical/db-federation-service/internal/types"
)

// SourceInterface feeds the full external user set into a run.
type SourceInterface interface {
	GetAllUsersForSync(ctx context.Context) ([]*types.ExternalUserRecord, error)
}

// StorageInterface defines the local store operations required by the Importer.
type StorageInterface interface {
	CreateUser(ctx context.Context, user *types.User) (*types.User, error)
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	UpdateUser(ctx context.Context, user *types.User) (*types.User, error)
}

type ImporterInterface interface {
	Run(ctx context.Context) (*types.SyncResult, error)
	State() types.SyncState
	LastResult() *types.SyncResult
}
