package parser

import "time"

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Statement and node counts
	TelemetryTiming                      // Counts + parse duration
)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff   DebugLevel = iota // No debug info (default)
	DebugPaths                   // Grammar rule enter/exit tracing
)

// ParserConfig holds parser configuration
type ParserConfig struct {
	telemetry TelemetryMode
	debug     DebugLevel
	source    string
}

// WithSource attaches the script text so syntax errors can show a code snippet
func WithSource(source string) ParserOpt {
	return func(c *ParserConfig) {
		c.source = source
	}
}

// WithTelemetryBasic enables basic telemetry (statement and node counts)
func WithTelemetryBasic() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + parse duration)
func WithTelemetryTiming() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithDebugPaths enables grammar rule tracing (development only)
func WithDebugPaths() ParserOpt {
	return func(c *ParserConfig) {
		c.debug = DebugPaths
	}
}

// ParseTelemetry holds parser metrics (production-safe)
type ParseTelemetry struct {
	TokenCount     int           // Number of tokens
	StatementCount int           // Statements at every nesting level
	NodeCount      int           // All AST nodes, expressions included
	ParseTime      time.Duration // Only with TelemetryTiming
}

// DebugEvent holds debug tracing information (development only)
type DebugEvent struct {
	Timestamp time.Time
	Event     string // "enter_if", "exit_if", etc.
	TokenPos  int    // Current token position
	Line      int    // Current line
	Context   string // Additional context
}
