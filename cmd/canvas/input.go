package main

import (
	"fmt"
	"io"
	"os"
)

// scriptPath picks the script source:
// 1. An explicit path, or - for stdin
// 2. Piped input when no path is given
func (a *app) scriptPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if a.piped() {
		return "-", nil
	}
	return "", &CLIError{
		Type:    "usage",
		Message: "no script given",
		Hint:    "pass a script file, or - to read from stdin",
	}
}

// readScript reads a script from a file, or from stdin for "-"
func (a *app) readScript(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", &CLIError{
			Type:    "input",
			Message: fmt.Sprintf("cannot read %s", path),
			Details: err.Error(),
		}
	}
	return string(data), nil
}

// hasPipedInput detects if there's data piped to stdin
func hasPipedInput() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	// Pipes may not report a size, so only the mode is checked
	return (stat.Mode() & os.ModeCharDevice) == 0
}
