// Package cli implements the interactive wire shell.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/panchr/wire"
	"github.com/panchr/wire/internal/cli/config"
	"github.com/panchr/wire/internal/cli/repl"
	"github.com/panchr/wire/internal/version"
)

// Run runs the wire shell.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.CLIVersion())

	db, err := wire.New(wire.Config{
		Path:  conf.Database,
		Debug: conf.Debug,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	rp := repl.NewRepl(ctx, stop, conf, db)
	defer rp.Shutdown()
	go func() {
		if err := rp.Start(); err != nil {
			fmt.Println(err)
			stop()
		}
	}()

	<-ctx.Done()
	fmt.Printf("\nGoodbye!\n\n")
	return nil
}
