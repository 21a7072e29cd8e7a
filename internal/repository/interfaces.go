// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package repository

import (
	"context"

	"github.com/canonical/db-federation-service/internal/datasource"
	"github.com/canonical/db-federation-service/internal/types"
)

type RepositoryInterface interface {
	Config() QueryConfig
	Count(context.Context, string) (int, error)
	FindByID(context.Context, string) (*types.ExternalUserRecord, error)
	FindByUsername(context.Context, string) (*types.ExternalUserRecord, error)
	FindByEmail(context.Context, string) (*types.ExternalUserRecord, error)
	FindUsers(context.Context, string, *datasource.PageRequest) ([]*types.ExternalUserRecord, error)
	FindPasswordHash(context.Context, string) (string, bool, error)
	ValidateCredentials(context.Context, string, string) (bool, error)
	UpdateCredentials(context.Context, string, string) (bool, error)
	GetAllUsersForSync(context.Context) ([]*types.ExternalUserRecord, error)
}
