package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/relrdf/internal/ir"
)

// ErrScan marks failures to read a row back into its projection, as opposed
// to failures to run the query at all.
var ErrScan = errors.New("scan failed")

// QueryRows runs a query and calls fn once per row, in result order.
//
// projection names the attribute behind each selected column, in SELECT
// order. Values are handed to fn in their text form; SQL NULL is absent
// from the row. An empty projection accepts queries selecting a single
// placeholder column (SELECT 1) and passes empty rows.
//
// Iteration stops at the first error returned by fn, which QueryRows
// returns unwrapped.
func (s *Store) QueryRows(ctx context.Context, query string, params []any, projection []ir.Attribute, fn func(ir.ResultRow) error) error {
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("read columns: %w", err)
	}
	if len(projection) > 0 && len(cols) != len(projection) {
		return fmt.Errorf("%w: query returns %d columns, projection has %d", ErrScan, len(cols), len(projection))
	}

	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("%w: %w", ErrScan, err)
		}
		row := make(ir.MapRow, len(projection))
		for i, a := range projection {
			if values[i].Valid {
				row[a] = values[i].String
			}
		}
		if err := fn(row); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	return nil
}

// TableColumns returns the column names of a table in declaration order.
// Returns an empty slice (not nil) when the table does not exist.
func (s *Store) TableColumns(ctx context.Context, table ir.RelationName) ([]string, error) {
	query := "PRAGMA table_info(" + quoteIdent(table.Table) + ")"
	if table.Schema != "" {
		query = "PRAGMA " + quoteIdent(table.Schema) + ".table_info(" + quoteIdent(table.Table) + ")"
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	columns := []string{}
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan table info %s: %w", table, err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table info %s: %w", table, err)
	}
	return columns, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
