package wire

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/panchr/wire/sqlstring"
)

// Table scopes CRUD calls to one table name. It owns no connection
// state of its own; every operation forwards to the connection that
// produced it.
type Table struct {
	db   *DB
	name string
}

// ColumnInfo is one row of the engine's table_info pragma.
type ColumnInfo struct {
	CID        int            `db:"cid"`
	Name       string         `db:"name"`
	Type       string         `db:"type"`
	NotNull    int            `db:"notnull"`
	Default    sql.NullString `db:"dflt_value"`
	PrimaryKey int            `db:"pk"`
}

// ColumnRename maps an existing column name to its new name.
type ColumnRename struct {
	Old string
	New string
}

// Name returns the table name the facade is bound to.
func (t *Table) Name() string {
	return t.name
}

// Info returns the column metadata reported by the engine.
func (t *Table) Info() ([]ColumnInfo, error) {
	query := sqlstring.Pragma(fmt.Sprintf("table_info(%s)", t.name))
	t.db.logStatement(query, nil)

	var info []ColumnInfo
	if err := t.db.conn.Select(&info, query); err != nil {
		return nil, fmt.Errorf("failed to get table info: %w", err)
	}
	return info, nil
}

// Columns returns the column names of the table, in declaration order.
func (t *Table) Columns() ([]string, error) {
	info, err := t.Info()
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(info))
	for i, column := range info {
		columns[i] = column.Name
	}
	return columns, nil
}

// Insert inserts one row into the table.
func (t *Table) Insert(columns sqlstring.Bindings) (WriteResult, error) {
	return t.db.Insert(t.name, columns)
}

// Update updates the rows matching clauses.
func (t *Table) Update(clauses sqlstring.Clauses, set sqlstring.Bindings) (WriteResult, error) {
	return t.db.Update(t.name, clauses, set)
}

// Select returns a cursor over the rows matching clauses.
func (t *Table) Select(columns []string, clauses sqlstring.Clauses) (*Cursor, error) {
	return t.db.Select(t.name, columns, clauses)
}

// Delete removes the rows matching clauses.
func (t *Table) Delete(clauses sqlstring.Clauses) (WriteResult, error) {
	return t.db.Delete(t.name, clauses)
}

// Drop drops the table.
func (t *Table) Drop() error {
	return t.db.DropTable(t.name)
}

// Rename renames the table and rebinds the facade to the new name.
func (t *Table) Rename(newName string) error {
	if _, err := t.db.Exec(sqlstring.Rename(t.name, newName)); err != nil {
		return err
	}
	t.name = newName
	return nil
}

// AddColumns adds columns to the table, one ALTER TABLE statement per
// column, all inside a single transaction.
func (t *Table) AddColumns(columns []sqlstring.ColumnDef) error {
	tx, err := t.db.Begin()
	if err != nil {
		return err
	}

	for _, column := range columns {
		if _, err := tx.Exec(sqlstring.AddColumn(t.name, column)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// DropColumns removes columns from the table using the temp-table copy
// procedure: a replacement table with the surviving columns is created
// under a transient name, rows are copied over, the original is
// dropped, and the replacement takes its name. The steps run inside
// one transaction but are not crash-safe across an engine failure.
func (t *Table) DropColumns(columns ...string) error {
	info, err := t.Info()
	if err != nil {
		return err
	}

	dropped := make(map[string]bool, len(columns))
	for _, column := range columns {
		if !columnExists(info, column) {
			return &SchemaError{Table: t.name, Column: column}
		}
		dropped[column] = true
	}

	surviving := make([]ColumnInfo, 0, len(info))
	for _, column := range info {
		if !dropped[column.Name] {
			surviving = append(surviving, column)
		}
	}

	return t.rebuild(surviving, columnNames(surviving))
}

// RenameColumns renames columns using the same temp-table copy
// procedure as DropColumns. Column order and declared types carry over
// to the rebuilt table.
func (t *Table) RenameColumns(renames []ColumnRename) error {
	info, err := t.Info()
	if err != nil {
		return err
	}

	newNames := make(map[string]string, len(renames))
	for _, rename := range renames {
		if !columnExists(info, rename.Old) {
			return &SchemaError{Table: t.name, Column: rename.Old}
		}
		newNames[rename.Old] = rename.New
	}

	rebuilt := make([]ColumnInfo, len(info))
	copy(rebuilt, info)
	for i, column := range rebuilt {
		if newName, renamed := newNames[column.Name]; renamed {
			rebuilt[i].Name = newName
		}
	}

	// Rows are copied from the original column positions, which line
	// up with the renamed declarations.
	return t.rebuild(rebuilt, columnNames(info))
}

// rebuild replaces the table with one declared from the given columns,
// copying every row via INSERT ... SELECT of sourceColumns.
func (t *Table) rebuild(columns []ColumnInfo, sourceColumns []string) error {
	tempName := t.name + strconv.FormatInt(time.Now().Unix(), 10)

	specs := make([]string, len(columns))
	for i, column := range columns {
		specs[i] = columnSpec(column)
	}

	tx, err := t.db.Begin()
	if err != nil {
		return err
	}

	steps := []string{
		fmt.Sprintf("CREATE TABLE %s (%s)", tempName, strings.Join(specs, ", ")),
		fmt.Sprintf(
			"INSERT INTO %s SELECT %s FROM %s",
			tempName, strings.Join(sourceColumns, ", "), t.name,
		),
		sqlstring.DropTable(t.name),
		sqlstring.Rename(tempName, t.name),
	}
	for _, step := range steps {
		if _, err := tx.Exec(step); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// columnSpec renders a column declaration for the rebuilt table,
// keeping the declared type when the engine reports one.
func columnSpec(column ColumnInfo) string {
	if column.Type == "" {
		return column.Name
	}
	return column.Name + " " + column.Type
}

func columnNames(info []ColumnInfo) []string {
	names := make([]string, len(info))
	for i, column := range info {
		names[i] = column.Name
	}
	return names
}

func columnExists(info []ColumnInfo, name string) bool {
	for _, column := range info {
		if column.Name == name {
			return true
		}
	}
	return false
}
