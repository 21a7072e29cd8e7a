// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package federation

import (
	"context"

	"github.com/canonical/db-federation-service/internal/config"
	"github.com/canonical/db-federation-service/internal/datasource"
	"github.com/canonical/db-federation-service/internal/types"
)

type RegistryInterface interface {
	Get(string) (*Instance, error)
	List() []*Instance
	Configure(context.Context, *config.InstanceSpec) (*Instance, error)
	Remove(string) error
}

type ServiceInterface interface {
	ListInstances(context.Context) []*InstanceView
	GetInstance(context.Context, string) (*InstanceView, error)
	ConfigureInstance(context.Context, *config.InstanceSpec) (*InstanceView, error)
	RemoveInstance(context.Context, string) error

	GetUserByID(context.Context, string, string) (*types.User, error)
	GetUserByUsername(context.Context, string, string) (*types.User, error)
	GetUserByEmail(context.Context, string, string) (*types.User, error)
	SearchUsers(context.Context, string, string, *datasource.PageRequest) ([]*types.User, error)
	CountUsers(context.Context, string, string) (int, error)

	ValidateCredentials(context.Context, string, string, string) (bool, error)
	UpdateCredentials(context.Context, string, string, string) (bool, error)

	ListLinkedUsers(context.Context, string, uint64, uint64) ([]*types.User, error)
	RemoveUser(context.Context, string, string) error
	UnlinkUser(context.Context, string, string) (*types.User, error)

	Sync(context.Context, string) (*types.SyncResult, error)
	SyncStatus(context.Context, string) (*types.SyncResult, error)
}
