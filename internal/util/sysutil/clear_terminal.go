package sysutil

import (
	"os"
	"os/exec"
	"runtime"
)

// ClearTerminal wipes the visible terminal content. Platforms without
// a known clear command are left untouched.
func ClearTerminal() {
	switch runtime.GOOS {
	case "windows":
		cmd := exec.Command("cmd", "/c", "cls")
		cmd.Stdout = os.Stdout
		_ = cmd.Run()
	case "linux", "darwin":
		cmd := exec.Command("clear")
		cmd.Stdout = os.Stdout
		_ = cmd.Run()
	}
}
