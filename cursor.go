package wire

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/orsinium-labs/enum"

	"github.com/panchr/wire/internal/log"
)

// FetchMode selects how many rows a fetch returns.
type FetchMode enum.Member[string]

var (
	// FetchAll returns every row of the result set.
	FetchAll = FetchMode{Value: "all"}
	// FetchOne returns at most one row.
	FetchOne = FetchMode{Value: "one"}

	// FetchModes enumerates the valid fetch modes.
	FetchModes = enum.New(FetchAll, FetchOne)
)

// Cursor holds the materialized result rows of one executed statement.
// Rows are drained from the driver before the cursor is handed out, so
// holding a cursor never pins the connection; Fetch and Export serve
// from the cached rows in either shape, as often as needed, until
// Close.
type Cursor struct {
	id      string
	db      *DB
	columns []string
	rows    [][]any
	closed  bool
}

// materializeRows drains and closes the driver iterator, returning the
// column names and every row as positional values.
func materializeRows(rows *sqlx.Rows) ([]string, [][]any, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var values [][]any
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return columns, values, nil
}

// Columns returns the column names of the result set.
func (c *Cursor) Columns() ([]string, error) {
	if c.closed {
		return nil, &MisuseError{Op: "columns on a closed cursor"}
	}
	return c.columns, nil
}

// Fetch returns the result rows in mapping shape, zipping column names
// with each row's values.
func (c *Cursor) Fetch(mode FetchMode) ([]map[string]any, error) {
	values, err := c.FetchValues(mode)
	if err != nil {
		return nil, err
	}

	mapped := make([]map[string]any, len(values))
	for i, row := range values {
		record := make(map[string]any, len(c.columns))
		for j, column := range c.columns {
			if j < len(row) {
				record[column] = row[j]
			}
		}
		mapped[i] = record
	}
	return mapped, nil
}

// FetchValues returns the result rows in positional tuple shape. The
// first fetch also releases the cursor from its connection's registry;
// the cached rows stay available until Close.
func (c *Cursor) FetchValues(mode FetchMode) ([][]any, error) {
	if c.closed {
		return nil, &MisuseError{Op: "fetch on a closed cursor"}
	}
	if !FetchModes.Contains(mode) {
		return nil, fmt.Errorf("unknown fetch mode: %s", mode.Value)
	}

	c.deregister()
	if mode == FetchOne && len(c.rows) > 1 {
		return c.rows[:1], nil
	}
	return c.rows, nil
}

// Export writes the result rows to a CSV file at path, header row
// first. The cached rows are written in full, whether or not they were
// fetched before.
func (c *Cursor) Export(path string) error {
	if c.closed {
		return &MisuseError{Op: "export on a closed cursor"}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(c.columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range c.rows {
		record := make([]string, len(row))
		for i, value := range row {
			record[i] = valueString(value)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	if c.db != nil && c.db.debug {
		c.db.logger.DebugNs(log.NsCursor, "export", log.KV{
			"path": path,
			"rows": len(c.rows),
		})
	}

	c.deregister()
	return nil
}

// Close invalidates the cursor and removes it from its connection's
// registry. It is safe to call more than once.
func (c *Cursor) Close() error {
	c.invalidate()
	c.deregister()
	return nil
}

// invalidate marks the cursor unusable. DB.Close and PurgeCursors call
// it with the registry lock already held.
func (c *Cursor) invalidate() {
	c.closed = true
}

// deregister removes the cursor from its connection's registry.
// Cursors produced inside a transaction have no registry entry.
func (c *Cursor) deregister() {
	if c.db != nil {
		c.db.releaseCursor(c.id)
	}
}

// valueString renders a driver value for CSV output. NULL renders as
// an empty field.
func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
