package repl

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/panchr/wire"
	"github.com/panchr/wire/internal/cli/styled"
)

func cmdQuery(r *Repl, input string) {
	tw := styled.NewTableWriter()
	trimmed := strings.ToLower(strings.TrimSpace(input))

	switch {
	case strings.HasPrefix(trimmed, "begin"):
		if r.tx != nil {
			appendError(tw, "a transaction is already in progress")
			break
		}
		tx, err := r.db.Begin()
		if err != nil {
			appendError(tw, err.Error())
			break
		}
		r.tx = tx
		appendOK(tw, "Transaction started")

	case strings.HasPrefix(trimmed, "commit"), strings.HasPrefix(trimmed, "end transaction"):
		if r.tx == nil {
			appendError(tw, "no transaction in progress")
			break
		}
		if err := r.tx.Commit(); err != nil {
			appendError(tw, err.Error())
		} else {
			appendOK(tw, "Transaction committed")
		}
		r.tx = nil

	case strings.HasPrefix(trimmed, "rollback"):
		if r.tx == nil {
			appendError(tw, "no transaction in progress")
			break
		}
		if err := r.tx.Rollback(); err != nil {
			appendError(tw, err.Error())
		} else {
			appendOK(tw, "Transaction rolled back")
		}
		r.tx = nil

	case isReadQuery(trimmed):
		cursor, err := r.execute(input)
		if err != nil {
			appendError(tw, err.Error())
			break
		}
		appendRows(tw, cursor)

	default:
		result, err := r.exec(input)
		if err != nil {
			appendError(tw, err.Error())
			break
		}
		tw.AppendHeader(table.Row{"-", "Rows Affected", "Last Insert ID"})
		tw.AppendRow(table.Row{"OK", result.RowsAffected, result.LastInsertID})
	}

	fmt.Println(tw.Render())
}

// isReadQuery reports whether the statement produces result rows.
func isReadQuery(trimmed string) bool {
	for _, prefix := range []string{"select", "pragma", "with", "explain", "values"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

func appendError(tw table.Writer, msg string) {
	tw.AppendHeader(table.Row{"Error"})
	tw.AppendRow(table.Row{msg})
}

func appendOK(tw table.Writer, msg string) {
	tw.AppendHeader(table.Row{"OK"})
	tw.AppendRow(table.Row{msg})
}

// appendRows drains the cursor into the table writer.
func appendRows(tw table.Writer, cursor *wire.Cursor) {
	columns, err := cursor.Columns()
	if err != nil {
		appendError(tw, err.Error())
		return
	}

	rows, err := cursor.FetchValues(wire.FetchAll)
	if err != nil {
		appendError(tw, err.Error())
		return
	}

	header := table.Row{}
	for _, column := range columns {
		header = append(header, column)
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		tw.AppendRow(table.Row(row))
	}
}
