// Package formatter renders parsed programs for humans.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/KevinPriv/canvas-lang/core/ast"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// FormatTree renders a program as a tree, one statement per line with
// nested blocks indented under their header.
func FormatTree(w io.Writer, name string, program *ast.Block, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s:\n", name)

	if program == nil || len(program.Statements) == 0 {
		_, _ = fmt.Fprintf(w, "(no statements)\n")
		return
	}

	renderBlock(w, program, "", useColor)
}

// renderBlock renders statements with tree characters. indent is the
// prefix carried down from enclosing blocks.
func renderBlock(w io.Writer, block *ast.Block, indent string, useColor bool) {
	for i, stmt := range block.Statements {
		isLast := i == len(block.Statements)-1

		prefix, childIndent := indent+"├─ ", indent+"│  "
		if isLast {
			prefix, childIndent = indent+"└─ ", indent+"   "
		}

		_, _ = fmt.Fprintf(w, "%s%s\n", prefix, renderStatement(stmt, useColor))

		if body := nestedBody(stmt); body != nil && len(body.Statements) > 0 {
			renderBlock(w, body, childIndent, useColor)
		}
	}
}

// renderStatement renders a statement's header line
func renderStatement(stmt ast.Statement, useColor bool) string {
	switch s := stmt.(type) {
	case *ast.If:
		return Colorize("If", ColorBlue, useColor) + " " + s.Condition.String() + lineSuffix(s.Line, useColor)
	case *ast.While:
		return Colorize("While", ColorBlue, useColor) + " " + s.Condition.String() + lineSuffix(s.Line, useColor)
	case *ast.MethodDef:
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Name
		}
		header := fmt.Sprintf("%s(%s)", Colorize(s.Name, ColorYellow, useColor), strings.Join(params, ", "))
		return Colorize("Method", ColorBlue, useColor) + " " + header + lineSuffix(s.Line, useColor)
	case *ast.Assignment:
		return s.String() + lineSuffix(s.Line, useColor)
	case *ast.MethodInvoke:
		return Colorize(s.Name, ColorYellow, useColor) + strings.TrimPrefix(s.String(), s.Name) + lineSuffix(s.Line, useColor)
	case *ast.CommandInvoke:
		return Colorize(s.Name, ColorGreen, useColor) + strings.TrimPrefix(s.String(), s.Name) + lineSuffix(s.Line, useColor)
	case *ast.Block:
		return Colorize("(block)", ColorGray, useColor)
	default:
		return fmt.Sprintf("(unknown statement type: %T)", stmt)
	}
}

func nestedBody(stmt ast.Statement) *ast.Block {
	switch s := stmt.(type) {
	case *ast.If:
		return s.Body
	case *ast.While:
		return s.Body
	case *ast.MethodDef:
		return s.Body
	case *ast.Block:
		return s
	}
	return nil
}

func lineSuffix(line int, useColor bool) string {
	if line <= 0 {
		return ""
	}
	return " " + Colorize(fmt.Sprintf("[line %d]", line), ColorGray, useColor)
}
