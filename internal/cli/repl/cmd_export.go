package repl

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/panchr/wire/internal/cli/styled"
	"github.com/panchr/wire/sqlstring"
)

func cmdExport(r *Repl, args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: .export table_name file.csv")
		return
	}
	if r.tx != nil {
		fmt.Println("Finish the open transaction before exporting")
		return
	}
	tableName, path := args[0], args[1]

	cursor, err := r.db.Select(tableName, nil, sqlstring.Clauses{})
	if err != nil {
		fmt.Println(err)
		return
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("exporting "+tableName),
		progressbar.OptionSpinnerType(14),
	)

	done := make(chan error, 1)
	go func() {
		done <- cursor.Export(path)
	}()

	for {
		select {
		case err := <-done:
			_ = bar.Finish()
			fmt.Println()
			if err != nil {
				fmt.Println(err)
				return
			}
			styled.DimmedColor().Printf("Exported %s to %s\n", tableName, path)
			return
		case <-time.After(100 * time.Millisecond):
			_ = bar.Add(1)
		}
	}
}
