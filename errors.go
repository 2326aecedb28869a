package wire

import "fmt"

// SchemaError reports a reference to a table or column that does not
// exist in the database.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("column %s does not exist in table %s", e.Column, e.Table)
	}
	return fmt.Sprintf("table %s does not exist in database", e.Table)
}

// MisuseError reports an operation invoked on an object that no longer
// supports it, such as executing on a finished transaction or fetching
// from a closed cursor.
type MisuseError struct {
	Op string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("invalid use: %s", e.Op)
}
