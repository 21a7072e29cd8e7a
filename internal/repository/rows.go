// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/canonical/db-federation-service/internal/datasource"
	"github.com/canonical/db-federation-service/internal/types"
)

// mapRows turns every row into an ExternalUserRecord. A row missing a
// required column fails the whole result set.
func mapRows(op string, rows *sql.Rows) ([]*types.ExternalUserRecord, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	records := make([]*types.ExternalUserRecord, 0)
	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	row := 0
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", row, err)
		}

		cols := make([]types.Column, 0, len(columns))
		for i, name := range columns {
			if strings.EqualFold(name, datasource.RowNumberColumn) {
				continue
			}

			c := types.Column{Name: name}
			if values[i].Valid {
				v := values[i].String
				c.Value = &v
			}
			cols = append(cols, c)
		}

		record, err := types.NewExternalUserRecord(cols...)
		if err != nil {
			column := types.ColumnID
			fe := new(types.FederationError)
			if errors.As(err, &fe) && fe.Metadata["column"] != "" {
				column = fe.Metadata["column"]
			}
			return nil, types.NewRowMappingError(op, column, row)
		}

		records = append(records, record)
		row++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return records, nil
}
