package parser

import (
	"fmt"
	"strings"

	"github.com/KevinPriv/canvas-lang/runtime/lexer"
)

// SyntaxError reports the first grammar violation in a script.
// The parser does not recover: one SyntaxError aborts the whole parse.
type SyntaxError struct {
	Line    int    // 1-based, counted from consumed NEWLINE tokens
	Token   string // Offending lexeme ("" at end of script)
	Message string
	Source  string // Script text, used for the code snippet when available
}

// Error returns the formatted error message with line and code snippet
func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("syntax error: line %d: %s", e.Line, e.Message)
	if snippet := e.createCodeSnippet(); snippet != "" {
		msg += "\n" + snippet
	}
	return msg
}

// createCodeSnippet shows the offending source line, with a caret under the
// offending lexeme when it can be located on that line
func (e *SyntaxError) createCodeSnippet() string {
	if e.Source == "" || e.Line <= 0 {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line > len(lines) {
		return ""
	}
	lineContent := strings.TrimRight(lines[e.Line-1], "\r")

	// Rust/Clang style
	var snippet strings.Builder
	snippet.WriteString(fmt.Sprintf("  --> line %d\n", e.Line))
	snippet.WriteString("   |\n")
	snippet.WriteString(fmt.Sprintf("%2d | %s\n", e.Line, lineContent))
	snippet.WriteString("   |")
	if e.Token != "" && e.Token != "\n" {
		if col := strings.Index(lineContent, e.Token); col >= 0 {
			snippet.WriteString(" " + strings.Repeat(" ", col) + strings.Repeat("^", len(e.Token)))
		}
	}

	return snippet.String()
}

// errorf creates a syntax error at the current line, naming the current token
func (p *Parser) errorf(format string, args ...interface{}) error {
	return p.errorAt(p.current(), format, args...)
}

// errorAt creates a syntax error naming tok
func (p *Parser) errorAt(tok lexer.Token, format string, args ...interface{}) error {
	return &SyntaxError{
		Line:    p.line,
		Token:   tok.Text,
		Message: fmt.Sprintf(format, args...),
		Source:  p.config.source,
	}
}

// describe renders a token for error messages
func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of script"
	case lexer.NEWLINE:
		return "newline"
	default:
		return tok.Text
	}
}
