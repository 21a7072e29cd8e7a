// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package datasource

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// RowNumberColumn is the helper column added by the row numbering wrappers,
// row mappers are expected to drop it.
const RowNumberColumn = "bridge_rn"

const countAlias = "bridge_count"

var orderByPattern = regexp.MustCompile(`(?i)\bORDER\s+BY\b`)

// mysqlMaxRows is the documented way of expressing an unbounded LIMIT.
const mysqlMaxRows = "18446744073709551615"

// PageRequest selects one page of a result set. A zero Limit means no upper
// bound.
type PageRequest struct {
	Offset int `json:"first"`
	Limit  int `json:"max"`
}

func NewPageRequest(offset, limit int) (*PageRequest, error) {
	if offset < 0 {
		return nil, fmt.Errorf("page offset must not be negative, got %d", offset)
	}

	if limit < 0 {
		return nil, fmt.Errorf("page limit must not be negative, got %d", limit)
	}

	return &PageRequest{Offset: offset, Limit: limit}, nil
}

func (p *PageRequest) unbounded() bool {
	return p.Limit == 0
}

// end is the exclusive row bound of the page, saturated at math.MaxInt.
func (p *PageRequest) end() int {
	if p.Offset > math.MaxInt-p.Limit {
		return math.MaxInt
	}
	return p.Offset + p.Limit
}

// Paginate wraps or suffixes the query so that only the requested page is
// returned. The query keeps its `?` placeholders and the returned arguments
// must be bound after the query's own. Stable pages require the query to be
// deterministically ordered.
func (d Dialect) Paginate(query string, page *PageRequest) (string, []any) {
	if page == nil || (page.Offset == 0 && page.unbounded()) {
		return query, nil
	}

	offset, limit := page.Offset, page.Limit

	switch d.spec().pagination {
	case paginationOffsetFetch:
		if page.unbounded() {
			return query + " OFFSET ? ROWS", []any{offset}
		}
		return query + " OFFSET ? ROWS FETCH NEXT ? ROWS ONLY", []any{offset, limit}

	case paginationRowNumber:
		wrapped := fmt.Sprintf(
			"SELECT * FROM (SELECT bridge_q.*, ROW_NUMBER() OVER (ORDER BY (SELECT NULL)) AS %s FROM (%s) bridge_q) bridge_p WHERE %s > ?",
			RowNumberColumn, query, RowNumberColumn,
		)
		if page.unbounded() {
			return wrapped, []any{offset}
		}
		return wrapped + fmt.Sprintf(" AND %s <= ?", RowNumberColumn), []any{offset, page.end()}

	case paginationRownum:
		if page.unbounded() {
			return fmt.Sprintf(
				"SELECT * FROM (SELECT bridge_q.*, ROWNUM %s FROM (%s) bridge_q) WHERE %s > ?",
				RowNumberColumn, query, RowNumberColumn,
			), []any{offset}
		}
		return fmt.Sprintf(
			"SELECT * FROM (SELECT bridge_q.*, ROWNUM %s FROM (%s) bridge_q WHERE ROWNUM <= ?) WHERE %s > ?",
			RowNumberColumn, query, RowNumberColumn,
		), []any{page.end(), offset}

	default:
		if !page.unbounded() {
			return query + " LIMIT ? OFFSET ?", []any{limit, offset}
		}

		switch d {
		case DialectMySQL:
			return query + " LIMIT " + mysqlMaxRows + " OFFSET ?", []any{offset}
		case DialectSnowflake:
			return query + " LIMIT NULL OFFSET ?", []any{offset}
		default:
			return query + " OFFSET ?", []any{offset}
		}
	}
}

// CountQuery counts the rows of query as a derived table. SQL Server only
// accepts a trailing ORDER BY in a derived table together with OFFSET, which
// is added when the query does not page itself.
func (d Dialect) CountQuery(query string) string {
	inner := strings.TrimRight(strings.TrimSpace(query), "; \t\n")

	if d == DialectSQLServer && endsWithOrderBy(inner) {
		inner += " OFFSET 0 ROWS"
	}

	return fmt.Sprintf("SELECT COUNT(*) FROM (%s) %s", inner, d.QuoteIdentifier(countAlias))
}

// endsWithOrderBy reports whether the last ORDER BY of query applies to the
// outer statement and is not followed by an OFFSET clause.
func endsWithOrderBy(query string) bool {
	matches := orderByPattern.FindAllStringIndex(query, -1)
	if len(matches) == 0 {
		return false
	}

	tail := strings.ToUpper(query[matches[len(matches)-1][0]:])

	return !strings.Contains(tail, ")") && !strings.Contains(tail, "OFFSET")
}
