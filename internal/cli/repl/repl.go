package repl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/panchr/wire"
	"github.com/panchr/wire/internal/cli/config"
	"github.com/panchr/wire/internal/util/sysutil"
)

type Repl struct {
	conf        config.Config
	db          *wire.DB
	tx          *wire.Tx
	ctx         context.Context
	stop        context.CancelFunc
	historyPath string
}

func NewRepl(
	ctx context.Context,
	stop context.CancelFunc,
	conf config.Config,
	db *wire.DB,
) *Repl {
	return &Repl{
		conf:        conf,
		db:          db,
		ctx:         ctx,
		stop:        stop,
		historyPath: filepath.Join(os.TempDir(), ".wire_history"),
	}
}

func (r *Repl) Start() error {
	fmt.Println()
	fmt.Printf("Connected to %s\n", r.conf.Database)
	fmt.Println(`Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Println()

	for {
		select {
		case <-r.ctx.Done():
			return nil
		default:
			input := r.prompt()

			if input == "" {
				continue
			}

			if input == "exit" || input == ".exit" || input == ".quit" {
				r.Shutdown()
				return nil
			}

			if input == "clear" || input == ".clear" {
				sysutil.ClearTerminal()
				continue
			}

			if input == "help" || input == ".help" {
				cmdHelp()
				continue
			}

			if input == ".tables" {
				cmdTables(r)
				continue
			}

			if name, ok := strings.CutPrefix(input, ".columns "); ok {
				cmdColumns(r, strings.TrimSpace(name))
				continue
			}

			if name, ok := strings.CutPrefix(input, ".count "); ok {
				cmdCount(r, strings.TrimSpace(name))
				continue
			}

			if input == ".schema" {
				cmdSchema(r)
				continue
			}

			if input == ".integrity" {
				cmdIntegrity(r)
				continue
			}

			if rest, ok := strings.CutPrefix(input, ".export "); ok {
				cmdExport(r, strings.Fields(rest))
				continue
			}

			if strings.HasPrefix(input, ".") {
				fmt.Println("Unknown command, type .help for usage hints")
				continue
			}

			cmdQuery(r, input)
		}
	}
}

// Shutdown stops the REPL, rolling back any open transaction.
func (r *Repl) Shutdown() {
	if r.tx != nil {
		_ = r.tx.Rollback()
		r.tx = nil
	}
	r.stop()
}

// execute runs a read statement against the open transaction if one
// exists, otherwise against the connection.
func (r *Repl) execute(query string, args ...any) (*wire.Cursor, error) {
	if r.tx != nil {
		return r.tx.Execute(query, args...)
	}
	return r.db.Execute(query, args...)
}

// exec runs a write statement against the open transaction if one
// exists, otherwise against the connection.
func (r *Repl) exec(query string, args ...any) (wire.WriteResult, error) {
	if r.tx != nil {
		return r.tx.Exec(query, args...)
	}
	return r.db.Exec(query, args...)
}

// prompt shows the prompt and reads the input from the user.
func (r *Repl) prompt() string {
	label := "wire> "
	if r.tx != nil {
		label = "wire(tx)> "
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	if file, err := os.Open(r.historyPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}

	prompt, err := line.Prompt(label)
	if err != nil {
		if err == liner.ErrPromptAborted {
			fmt.Println("CTRL+C pressed, exiting...")
			return ".quit"
		}
		return ""
	}

	line.AppendHistory(prompt)
	if file, err := os.Create(r.historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}

	return strings.TrimSpace(prompt)
}
