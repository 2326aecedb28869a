package repl

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/panchr/wire/internal/cli/styled"
	"github.com/panchr/wire/sqlstring"
)

func cmdTables(r *Repl) {
	renderQuery(r, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
}

func cmdColumns(r *Repl, tableName string) {
	if tableName == "" {
		fmt.Println("Usage: .columns table_name")
		return
	}
	renderQuery(r, sqlstring.Pragma(fmt.Sprintf("table_info(%s)", tableName)))
}

func cmdCount(r *Repl, tableName string) {
	if tableName == "" {
		fmt.Println("Usage: .count table_name")
		return
	}
	renderQuery(r, fmt.Sprintf("SELECT COUNT(*) AS rows FROM %s", tableName))
}

func cmdSchema(r *Repl) {
	renderQuery(r, `SELECT name, sql FROM sqlite_master WHERE type = 'table' ORDER BY name`)
}

func cmdIntegrity(r *Repl) {
	if r.tx != nil {
		fmt.Println("Finish the open transaction before checking integrity")
		return
	}

	tw := styled.NewTableWriter()
	problems, err := r.db.CheckIntegrity(100)
	switch {
	case err != nil:
		appendError(tw, err.Error())
	case problems == nil:
		appendOK(tw, "Integrity check passed")
	default:
		tw.AppendHeader(table.Row{"Error"})
		for _, problem := range problems {
			tw.AppendRow(table.Row{problem})
		}
	}
	fmt.Println(tw.Render())
}

// renderQuery runs a read statement and prints the result table.
func renderQuery(r *Repl, query string) {
	tw := styled.NewTableWriter()
	cursor, err := r.execute(query)
	if err != nil {
		appendError(tw, err.Error())
	} else {
		appendRows(tw, cursor)
	}
	fmt.Println(tw.Render())
}
