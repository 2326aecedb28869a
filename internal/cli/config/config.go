package config

import (
	"fmt"
	"log"

	"github.com/alexflint/go-arg"

	"github.com/panchr/wire/internal/version"
)

// Config represents the configuration for the wire shell.
type Config struct {
	Database string `arg:"positional" help:"Path to the SQLite database file, created if missing (defaults to an in-memory database)" default:":memory:"`
	Debug    bool   `arg:"--debug" help:"Log every executed statement and its bound values"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.CLIVersion())
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	return cfg
}
