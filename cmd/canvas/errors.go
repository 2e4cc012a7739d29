package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KevinPriv/canvas-lang/core/command"
	"github.com/KevinPriv/canvas-lang/runtime/interpreter"
	"github.com/KevinPriv/canvas-lang/runtime/parser"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "input", "output", "config", "usage"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var (
		cliErr     *CLIError
		syntaxErr  *parser.SyntaxError
		runtimeErr *interpreter.RuntimeError
		commandErr *interpreter.CommandError
	)

	switch {
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	case errors.As(err, &syntaxErr):
		formatSyntaxError(w, syntaxErr, useColor)
	case errors.As(err, &runtimeErr):
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), runtimeErr.Error())
	case errors.As(err, &commandErr):
		formatCommandError(w, commandErr, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatSyntaxError prints the message, then the source snippet
func formatSyntaxError(w io.Writer, err *parser.SyntaxError, useColor bool) {
	message, snippet, _ := strings.Cut(err.Error(), "\n")
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), message)
	if snippet != "" {
		_, _ = fmt.Fprintf(w, "%s\n", Colorize(snippet, ColorGray, useColor))
	}
}

// formatCommandError adds hints for failures the host reported
func formatCommandError(w io.Writer, err *interpreter.CommandError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())

	var hint string
	switch {
	case errors.Is(err, command.ErrInvalidCommand):
		hint = "run 'canvas commands' to list available commands"
	case errors.Is(err, command.ErrArgumentCount), errors.Is(err, command.ErrSchemaViolation):
		hint = fmt.Sprintf("run 'canvas commands' to see how %s is called", err.Name)
	case errors.Is(err, command.ErrOutOfBounds):
		hint = "coordinates must stay inside the canvas, measured from the pen for rectangle and triangle"
	}
	if hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), hint)
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}
