package version

import (
	"fmt"

	"github.com/fatih/color"
)

// Version is the released version of wire.
const Version = "v0.2.0"

// CLIVersion returns the banner shown when the shell starts.
func CLIVersion() string {
	name := color.New(color.FgCyan, color.Bold).Sprint("wire")
	return fmt.Sprintf("%s %s - interactive SQLite shell", name, Version)
}
