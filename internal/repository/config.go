// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package repository

import (
	"fmt"
	"strings"

	"github.com/canonical/db-federation-service/internal/credentials"
	"github.com/canonical/db-federation-service/internal/datasource"
	"github.com/canonical/db-federation-service/internal/types"
)

// QueryConfig holds the SQL templates and policy of one federation instance.
// Templates use `?` placeholders bound positionally.
type QueryConfig struct {
	Count            string
	ListAll          string
	ListAllForSync   string
	FindByID         string
	FindByUsername   string
	FindByEmail      string
	FindBySearchTerm string
	FindPasswordHash string
	// UpdatePasswordHash binds the new hash then the username, optional.
	UpdatePasswordHash string

	Dialect          datasource.Dialect
	HashAlgorithm    credentials.Algorithm
	PBKDF2Iterations int

	AllowOverwrite      bool
	SyncEnabled         bool
	SyncCreateMissing   bool
	SyncNewUsersOnLogin bool
	AllowLocalDelete    bool
	UnlinkEnabled       bool
}

type templateRule struct {
	name     string
	query    string
	required bool
	min      int
	max      int
}

func (c *QueryConfig) rules() []templateRule {
	return []templateRule{
		{name: "count", query: c.Count, required: true, min: 0, max: 0},
		{name: "list-all", query: c.ListAll, required: true, min: 0, max: 0},
		{name: "list-all-for-sync", query: c.ListAllForSync, min: 0, max: 0},
		{name: "find-by-id", query: c.FindByID, required: true, min: 1, max: 1},
		{name: "find-by-username", query: c.FindByUsername, required: true, min: 1, max: 1},
		{name: "find-by-email", query: c.FindByEmail, required: true, min: 1, max: 1},
		{name: "find-by-search-term", query: c.FindBySearchTerm, required: true, min: 1, max: -1},
		{name: "find-password-hash", query: c.FindPasswordHash, required: true, min: 1, max: 1},
		{name: "update-password-hash", query: c.UpdatePasswordHash, min: 2, max: 2},
	}
}

// Validate checks that every template is present when required and carries
// the expected number of placeholders.
func (c *QueryConfig) Validate() error {
	op := "repository.QueryConfig.Validate"

	if !c.Dialect.Valid() {
		return types.NewConfigurationError(op, "unsupported dialect", nil)
	}

	for _, r := range c.rules() {
		if strings.TrimSpace(r.query) == "" {
			if r.required {
				return types.NewConfigurationError(op, fmt.Sprintf("template %s is required", r.name), nil)
			}
			continue
		}

		n := datasource.CountPlaceholders(r.query)
		if n < r.min || (r.max >= 0 && n > r.max) {
			return types.NewConfigurationError(
				op,
				fmt.Sprintf("template %s has %d placeholders, expected %s", r.name, n, expectation(r.min, r.max)),
				nil,
			)
		}

		if _, err := c.Dialect.Rebind(r.query); err != nil {
			return types.NewConfigurationError(op, fmt.Sprintf("template %s is malformed", r.name), err)
		}
	}

	if c.PBKDF2Iterations < 0 {
		return types.NewConfigurationError(op, "pbkdf2 iterations must not be negative", nil)
	}

	return nil
}

func (c *QueryConfig) syncQuery() string {
	if strings.TrimSpace(c.ListAllForSync) != "" {
		return c.ListAllForSync
	}
	return c.ListAll
}

func expectation(lo, hi int) string {
	switch {
	case hi < 0:
		return fmt.Sprintf("at least %d", lo)
	case lo == hi:
		return fmt.Sprint(lo)
	default:
		return fmt.Sprintf("between %d and %d", lo, hi)
	}
}
