// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"maps"
	"time"
)

// User is an identity record held by the local store.
type User struct {
	ID             string            `json:"id"`
	Username       string            `json:"username"`
	Email          string            `json:"email,omitempty"`
	FirstName      string            `json:"first_name,omitempty"`
	LastName       string            `json:"last_name,omitempty"`
	Enabled        bool              `json:"enabled"`
	FederationLink string            `json:"federation_link,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// IsFederated reports whether the user was materialized by a federation
// instance.
func (u *User) IsFederated() bool {
	return u.FederationLink != ""
}

// ApplyExternal copies the mapped fields of the record onto the user and
// sets the federation link, reporting whether anything changed. Absent
// columns leave the local value untouched.
func (u *User) ApplyExternal(r *ExternalUserRecord, instance string) bool {
	changed := false

	set := func(dst *string, v string) {
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}

	set(&u.Email, r.Email())
	set(&u.FirstName, r.FirstName())
	set(&u.LastName, r.LastName())
	set(&u.FederationLink, instance)

	attrs := r.Attributes()
	if len(attrs) > 0 {
		if u.Attributes == nil {
			u.Attributes = make(map[string]string, len(attrs))
		}
		for k, v := range attrs {
			if u.Attributes[k] != v {
				u.Attributes[k] = v
				changed = true
			}
		}
	}

	return changed
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.Attributes = maps.Clone(u.Attributes)
	return &c
}

// NewUserFromExternal builds the local copy of an external record, linked
// to the given federation instance.
func NewUserFromExternal(r *ExternalUserRecord, instance string) *User {
	u := new(User)
	u.Username = r.Username()
	u.Enabled = true
	u.ApplyExternal(r, instance)

	return u
}
