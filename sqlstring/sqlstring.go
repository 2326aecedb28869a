package sqlstring

import (
	"fmt"
	"strings"
)

// All selects every column of a table.
const All = "*"

// ColumnDef describes one column of a CREATE TABLE or ALTER TABLE ADD
// COLUMN statement. A column without a default renders as NOT NULL
// unless its type is literally "null" (case-insensitive); a column
// with a default renders as "type DEFAULT value" instead.
type ColumnDef struct {
	Name       string
	Type       string
	Default    string
	HasDefault bool
}

// Col returns a ColumnDef without a default value.
func Col(name, colType string) ColumnDef {
	return ColumnDef{Name: name, Type: colType}
}

// ColDefault returns a ColumnDef with a default value. The default is
// rendered verbatim, so string defaults need their own quotes, e.g.
// ColDefault("username", "VARCHAR(50)", "'user'").
func ColDefault(name, colType, defaultValue string) ColumnDef {
	return ColumnDef{Name: name, Type: colType, Default: defaultValue, HasDefault: true}
}

// spec renders the type portion of the column definition.
func (c ColumnDef) spec() string {
	if c.HasDefault {
		return fmt.Sprintf("%s DEFAULT %s", c.Type, c.Default)
	}
	if strings.EqualFold(c.Type, "null") {
		return c.Type
	}
	return c.Type + " NOT NULL"
}

// Binding pairs a column name with a value to bind. Slices of Binding
// replace the mapping inputs of the original API so insertion order is
// preserved.
type Binding struct {
	Column string
	Value  any
}

// Bindings is an ordered set of column/value pairs.
type Bindings []Binding

// Bind returns a single column/value pair.
func Bind(column string, value any) Binding {
	return Binding{Column: column, Value: value}
}

func (b Bindings) columns() []string {
	columns := make([]string, len(b))
	for i, binding := range b {
		columns[i] = binding.Column
	}
	return columns
}

func (b Bindings) values() []any {
	values := make([]any, len(b))
	for i, binding := range b {
		values[i] = binding.Value
	}
	return values
}

// Clauses describes the WHERE portion of a SELECT, UPDATE, or DELETE
// statement. Equal pairs render as `column` = ?, Like pairs as
// `column` LIKE ?, and Where is a free-form fragment appended as the
// final AND term. When no predicate is given at all, the statement's
// default applies: "1 = 1" for SELECT and UPDATE, "1 = 0" for DELETE.
type Clauses struct {
	Equal Bindings
	Like  Bindings
	Where string
}

// predicates renders the LIKE and equality clauses and collects their
// bound values, LIKE values first.
func (c Clauses) predicates() (likeClause, equalClause string, values []any) {
	likeClause = joinOperatorExpressions(c.Like.columns(), "AND", "LIKE")
	equalClause = joinOperatorExpressions(c.Equal.columns(), "AND", "=")
	values = append(append([]any{}, c.Like.values()...), c.Equal.values()...)
	return likeClause, equalClause, values
}

// where ANDs the rendered predicate clauses with the free-form
// fragment, falling back to the given default when everything else is
// empty.
func (c Clauses) where(likeClause, equalClause, fallback string) string {
	joined := joinClauses(likeClause, equalClause, c.Where)
	if joined == "" {
		return fallback
	}
	return joined
}

// Pragma generates a PRAGMA statement.
func Pragma(cmd string) string {
	return "PRAGMA " + cmd
}

// CheckIntegrity generates a PRAGMA INTEGRITY_CHECK statement limited
// to maxErrors reported problems.
func CheckIntegrity(maxErrors int) string {
	return Pragma(fmt.Sprintf("INTEGRITY_CHECK(%d)", maxErrors))
}

// CreateTable generates a CREATE TABLE statement. Columns render in
// the given order. Table and column names are not validated; the
// caller is responsible for supplying valid identifiers.
func CreateTable(name string, temporary bool, columns []ColumnDef) string {
	specs := make([]string, len(columns))
	for i, column := range columns {
		specs[i] = column.Name + " " + column.spec()
	}

	temp := ""
	if temporary {
		temp = "TEMPORARY "
	}
	return fmt.Sprintf("CREATE %sTABLE %s (%s)", temp, name, strings.Join(specs, ","))
}

// DropTable generates a DROP TABLE statement.
func DropTable(name string) string {
	return "DROP TABLE " + name
}

// Rename generates an ALTER TABLE RENAME TO statement.
func Rename(name, newName string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", name, newName)
}

// AddColumn generates an ALTER TABLE ADD COLUMN statement, using the
// same type-spec rules as CreateTable.
func AddColumn(table string, column ColumnDef) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column.Name, column.spec())
}

// Insert generates an INSERT statement with one placeholder per
// column. The bound values follow the column order.
func Insert(table string, columns Bindings) (string, []any) {
	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, column := range columns {
		names[i] = escapeColumn(column.Column)
		placeholders[i] = "?"
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "),
	)
	return query, columns.values()
}

// Update generates an UPDATE statement. Bound values are ordered SET
// values first, then LIKE values, then equality values.
func Update(table string, clauses Clauses, set Bindings) (string, []any) {
	setClause := joinOperatorExpressions(set.columns(), ",", "=")
	likeClause, equalClause, predicateValues := clauses.predicates()
	where := clauses.where(likeClause, equalClause, "1 = 1")

	values := append(append([]any{}, set.values()...), predicateValues...)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, setClause, where)
	return query, values
}

// Select generates a SELECT statement. A nil or empty column list
// projects every column. Without any predicate the WHERE clause
// defaults to "1 = 1", so an unconstrained select returns all rows.
func Select(table string, columns []string, clauses Clauses) (string, []any) {
	projection := All
	if len(columns) > 0 {
		escaped := make([]string, len(columns))
		for i, column := range columns {
			escaped[i] = escapeColumn(column)
		}
		projection = strings.Join(escaped, ",")
	}

	likeClause, equalClause, values := clauses.predicates()
	where := clauses.where(likeClause, equalClause, "1 = 1")
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", projection, table, where)
	return query, values
}

// Delete generates a DELETE statement. Without any predicate the WHERE
// clause defaults to "1 = 0": an unconstrained delete call must delete
// nothing unless a free-form where fragment asks for it.
func Delete(table string, clauses Clauses) (string, []any) {
	likeClause, equalClause, values := clauses.predicates()
	where := clauses.where(likeClause, equalClause, "1 = 0")
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", table, where)
	return query, values
}

// escapeColumn wraps a column name in back-ticks.
func escapeColumn(name string) string {
	return "`" + name + "`"
}

// joinExpressions joins expressions with " operator ".
func joinExpressions(expressions []string, operator string) string {
	return strings.Join(expressions, " "+operator+" ")
}

// joinOperatorExpressions renders "`column` secondOperator ?" for each
// column and joins the results with the first operator.
func joinOperatorExpressions(columns []string, operator, secondOperator string) string {
	expressions := make([]string, len(columns))
	for i, column := range columns {
		expressions[i] = fmt.Sprintf("%s %s ?", escapeColumn(column), secondOperator)
	}
	return joinExpressions(expressions, operator)
}

// joinClauses ANDs the non-empty clauses together. Empty clauses are
// omitted entirely rather than rendered as dangling ANDs.
func joinClauses(clauses ...string) string {
	kept := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		if clause != "" {
			kept = append(kept, clause)
		}
	}
	return strings.Join(kept, " AND ")
}
