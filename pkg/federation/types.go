// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package federation

import (
	"fmt"
	"strings"

	"github.com/canonical/db-federation-service/internal/types"
)

const storageIDPrefix = "f"

// InstanceView is the public description of a configured instance, it never
// carries connection secrets.
type InstanceView struct {
	ID            string `json:"id"`
	Dialect       string `json:"dialect"`
	HashAlgorithm string `json:"hash_algorithm"`

	AllowOverwrite      bool `json:"allow_overwrite"`
	SyncEnabled         bool `json:"sync_enabled"`
	SyncCreateMissing   bool `json:"sync_create_missing"`
	SyncNewUsersOnLogin bool `json:"sync_new_users_on_login"`
	AllowLocalDelete    bool `json:"allow_local_delete"`
	UnlinkEnabled       bool `json:"unlink_enabled"`

	LastSync *types.SyncResult `json:"last_sync,omitempty"`
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type PasswordUpdate struct {
	Password string `json:"password" validate:"required"`
}

type CredentialsResult struct {
	Valid bool `json:"valid"`
}

type PasswordUpdateResult struct {
	Updated bool `json:"updated"`
}

type CountResult struct {
	Count int `json:"count"`
}

// StorageID is the id under which an external user is exposed before it
// has a local copy.
func StorageID(instance, externalID string) string {
	return fmt.Sprintf("%s:%s:%s", storageIDPrefix, instance, externalID)
}

// ParseStorageID splits a storage id, ok is false for ids of local users.
// The external part may itself contain colons.
func ParseStorageID(id string) (instance, externalID string, ok bool) {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) != 3 || parts[0] != storageIDPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}

	return parts[1], parts[2], true
}

func newInstanceView(i *Instance) *InstanceView {
	v := new(InstanceView)

	v.ID = i.ID
	v.Dialect = i.Config.Dialect.String()
	v.HashAlgorithm = i.Config.HashAlgorithm.String()

	v.AllowOverwrite = i.Config.AllowOverwrite
	v.SyncEnabled = i.Config.SyncEnabled
	v.SyncCreateMissing = i.Config.SyncCreateMissing
	v.SyncNewUsersOnLogin = i.Config.SyncNewUsersOnLogin
	v.AllowLocalDelete = i.Config.AllowLocalDelete
	v.UnlinkEnabled = i.Config.UnlinkEnabled

	if i.Importer != nil {
		v.LastSync = i.Importer.LastResult()
	}

	return v
}
