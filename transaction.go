package wire

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/panchr/wire/sqlstring"
)

// Tx is a restricted view of a connection whose statements accumulate
// until Commit. It deliberately has no Begin, no cursor registry, and
// no table-creation entry points, so nested transactions are ruled out
// at compile time rather than at run time.
type Tx struct {
	tx   *sqlx.Tx
	db   *DB
	done bool

	// Rows affected by the statements run so far, see Count.
	affected int64
}

func (t *Tx) guard(op string) error {
	if t.done {
		return &MisuseError{Op: op + " on a finished transaction"}
	}
	return nil
}

// Execute runs a single statement inside the transaction and returns a
// cursor over its result rows. The rows are drained before Execute
// returns; the cursor is scoped to the caller, not tracked by the
// connection registry.
func (t *Tx) Execute(query string, args ...any) (*Cursor, error) {
	if err := t.guard("execute"); err != nil {
		return nil, err
	}
	t.db.logStatement(query, args)

	rows, err := t.tx.Queryx(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	columns, values, err := materializeRows(rows)
	if err != nil {
		return nil, err
	}
	return &Cursor{columns: columns, rows: values}, nil
}

// Exec runs a single write statement inside the transaction.
func (t *Tx) Exec(query string, args ...any) (WriteResult, error) {
	if err := t.guard("exec"); err != nil {
		return WriteResult{}, err
	}
	t.db.logStatement(query, args)

	result, err := t.tx.Exec(query, args...)
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to execute write query: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to get rows affected: %w", err)
	}

	t.affected += rowsAffected
	return WriteResult{
		LastInsertID: lastInsertID,
		RowsAffected: rowsAffected,
	}, nil
}

// Insert inserts one row into the table inside the transaction.
func (t *Tx) Insert(table string, columns sqlstring.Bindings) (WriteResult, error) {
	query, values := sqlstring.Insert(t.db.resolveTable(table), columns)
	return t.Exec(query, values...)
}

// Update updates the rows matching clauses inside the transaction.
func (t *Tx) Update(table string, clauses sqlstring.Clauses, set sqlstring.Bindings) (WriteResult, error) {
	query, values := sqlstring.Update(t.db.resolveTable(table), clauses, set)
	return t.Exec(query, values...)
}

// Select returns a cursor over the rows matching clauses, observing
// the transaction's uncommitted writes.
func (t *Tx) Select(table string, columns []string, clauses sqlstring.Clauses) (*Cursor, error) {
	query, values := sqlstring.Select(t.db.resolveTable(table), columns, clauses)
	return t.Execute(query, values...)
}

// Delete removes the rows matching clauses inside the transaction.
func (t *Tx) Delete(table string, clauses sqlstring.Clauses) (WriteResult, error) {
	query, values := sqlstring.Delete(t.db.resolveTable(table), clauses)
	return t.Exec(query, values...)
}

// Commit persists the accumulated statements.
func (t *Tx) Commit() error {
	if err := t.guard("commit"); err != nil {
		return err
	}
	t.done = true

	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback discards the accumulated statements.
func (t *Tx) Rollback() error {
	if err := t.guard("rollback"); err != nil {
		return err
	}
	t.done = true

	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Count returns the number of rows affected by the write statements
// run on this transaction so far.
func (t *Tx) Count() int64 {
	return t.affected
}
