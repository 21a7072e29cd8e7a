// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	ColumnID        = "id"
	ColumnUsername  = "username"
	ColumnEmail     = "email"
	ColumnFirstName = "firstName"
	ColumnLastName  = "lastName"
)

// Column is a single named value read from an external row.
type Column struct {
	Name  string
	Value *string
}

// ExternalUserRecord is one row of the external user database, exposed as an
// ordered column to value mapping. It is immutable once built.
type ExternalUserRecord struct {
	columns []string
	values  map[string]string
}

// NewExternalUserRecord builds a record from the row columns in order. Null
// values are dropped, the rest are trimmed and dropped when empty. A repeated
// column keeps its first position and its last value. The record must carry
// the id and username columns, matched case-insensitively when the exact
// name is absent.
func NewExternalUserRecord(columns ...Column) (*ExternalUserRecord, error) {
	r := new(ExternalUserRecord)
	r.values = make(map[string]string, len(columns))
	r.columns = make([]string, 0, len(columns))

	for _, c := range columns {
		if c.Value == nil {
			continue
		}

		v := strings.TrimSpace(*c.Value)
		if v == "" {
			continue
		}

		if _, ok := r.values[c.Name]; !ok {
			r.columns = append(r.columns, c.Name)
		}
		r.values[c.Name] = v
	}

	for _, required := range []string{ColumnID, ColumnUsername} {
		if _, ok := r.Get(required); !ok {
			return nil, &FederationError{
				Code:     ErrCodeRowMapping,
				Message:  "missing required column " + required,
				Metadata: map[string]string{"column": required},
			}
		}
	}

	return r, nil
}

// Get returns the value of a column, falling back to a case-insensitive
// match for dialects that fold unquoted aliases.
func (r *ExternalUserRecord) Get(column string) (string, bool) {
	if v, ok := r.values[column]; ok {
		return v, true
	}

	for _, c := range r.columns {
		if strings.EqualFold(c, column) {
			return r.values[c], true
		}
	}

	return "", false
}

func (r *ExternalUserRecord) value(column string) string {
	v, _ := r.Get(column)
	return v
}

func (r *ExternalUserRecord) ID() string {
	return r.value(ColumnID)
}

func (r *ExternalUserRecord) Username() string {
	return r.value(ColumnUsername)
}

func (r *ExternalUserRecord) Email() string {
	return r.value(ColumnEmail)
}

func (r *ExternalUserRecord) FirstName() string {
	return r.value(ColumnFirstName)
}

func (r *ExternalUserRecord) LastName() string {
	return r.value(ColumnLastName)
}

// Columns returns the column names in row order.
func (r *ExternalUserRecord) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Attributes returns the columns that are not mapped onto a first class user
// field.
func (r *ExternalUserRecord) Attributes() map[string]string {
	attrs := make(map[string]string)

	for _, c := range r.columns {
		switch strings.ToLower(c) {
		case "id", "username", "email", "firstname", "lastname":
			continue
		}
		attrs[c] = r.values[c]
	}

	return attrs
}

// ToMap returns a copy of the record values keyed by column.
func (r *ExternalUserRecord) ToMap() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON keeps the column order of the external row.
func (r *ExternalUserRecord) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer

	b.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			b.WriteByte(',')
		}

		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[c])
		if err != nil {
			return nil, err
		}

		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')

	return b.Bytes(), nil
}
