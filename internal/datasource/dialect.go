// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package datasource

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/db-federation-service/internal/types"
)

// Dialect is the SQL variant spoken by an external user database.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectPostgreSQL
	DialectMySQL
	DialectSQLServer
	DialectSQLServer2008
	DialectOracle
	DialectOracle11g
	DialectDB2
	DialectSnowflake
)

type paginationStyle int

const (
	paginationLimitOffset paginationStyle = iota
	paginationOffsetFetch
	paginationRowNumber
	paginationRownum
)

type dialectSpec struct {
	name        string
	driver      string
	placeholder sq.PlaceholderFormat
	pagination  paginationStyle
	openQuote   string
	closeQuote  string
}

var dialects = map[Dialect]dialectSpec{
	DialectPostgreSQL:    {name: "postgresql", driver: "pgx", placeholder: sq.Dollar, pagination: paginationLimitOffset, openQuote: `"`, closeQuote: `"`},
	DialectMySQL:         {name: "mysql", driver: "mysql", placeholder: sq.Question, pagination: paginationLimitOffset, openQuote: "`", closeQuote: "`"},
	DialectSQLServer:     {name: "sqlserver", driver: "sqlserver", placeholder: sq.AtP, pagination: paginationOffsetFetch, openQuote: "[", closeQuote: "]"},
	DialectSQLServer2008: {name: "sqlserver-2008", driver: "sqlserver", placeholder: sq.AtP, pagination: paginationRowNumber, openQuote: "[", closeQuote: "]"},
	DialectOracle:        {name: "oracle", driver: "oracle", placeholder: sq.Colon, pagination: paginationOffsetFetch, openQuote: `"`, closeQuote: `"`},
	DialectOracle11g:     {name: "oracle-11g", driver: "oracle", placeholder: sq.Colon, pagination: paginationRownum, openQuote: `"`, closeQuote: `"`},
	DialectDB2:           {name: "db2", driver: "go_ibm_db", placeholder: sq.Question, pagination: paginationOffsetFetch, openQuote: `"`, closeQuote: `"`},
	DialectSnowflake:     {name: "snowflake", driver: "snowflake", placeholder: sq.Question, pagination: paginationLimitOffset, openQuote: `"`, closeQuote: `"`},
}

// ParseDialect resolves a configured dialect name, unknown names are a
// configuration error.
func ParseDialect(s string) (Dialect, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	// common aliases
	switch name {
	case "postgres", "pg":
		name = "postgresql"
	case "mssql":
		name = "sqlserver"
	case "mssql-2008":
		name = "sqlserver-2008"
	}

	for d, spec := range dialects {
		if spec.name == name {
			return d, nil
		}
	}

	return DialectUnknown, types.NewConfigurationError(
		"datasource.ParseDialect",
		fmt.Sprintf("unsupported dialect %q", s),
		nil,
	)
}

func (d Dialect) spec() dialectSpec {
	return dialects[d]
}

func (d Dialect) Valid() bool {
	_, ok := dialects[d]
	return ok
}

func (d Dialect) String() string {
	if !d.Valid() {
		return "unknown"
	}
	return d.spec().name
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	return d.spec().driver
}

// PlaceholderFormat rewrites the positional `?` markers of a template into
// the driver's bind syntax.
func (d Dialect) PlaceholderFormat() sq.PlaceholderFormat {
	if !d.Valid() {
		return sq.Question
	}
	return d.spec().placeholder
}

// Rebind converts a `?` template to the bind syntax of the dialect.
func (d Dialect) Rebind(query string) (string, error) {
	return d.PlaceholderFormat().ReplacePlaceholders(query)
}

// QuoteIdentifier quotes a column or table name, doubling any embedded
// closing quote.
func (d Dialect) QuoteIdentifier(ident string) string {
	spec := d.spec()
	if spec.openQuote == "" {
		spec.openQuote, spec.closeQuote = `"`, `"`
	}

	escaped := strings.ReplaceAll(ident, spec.closeQuote, spec.closeQuote+spec.closeQuote)

	return spec.openQuote + escaped + spec.closeQuote
}

func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Dialect) UnmarshalText(b []byte) error {
	parsed, err := ParseDialect(string(b))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// CountPlaceholders returns the number of `?` bind markers in a template,
// `??` being an escaped literal question mark.
func CountPlaceholders(query string) int {
	n := 0

	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			continue
		}

		if i+1 < len(query) && query[i+1] == '?' {
			i++
			continue
		}

		n++
	}

	return n
}
