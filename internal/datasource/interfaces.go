// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package datasource

import (
	"context"
	"database/sql"
)

type ProviderInterface interface {
	Configure(context.Context, Options) error
	Acquire(context.Context) (*sql.Conn, error)
	WithConn(context.Context, func(*sql.Conn) error) error
	Dialect() Dialect
	Close() error
}
