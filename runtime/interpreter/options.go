package interpreter

import (
	"log/slog"
	"time"
)

// DefaultMaxDepth bounds method call nesting unless overridden
const DefaultMaxDepth = 1000

// Option configures an Interpreter
type Option func(*Config)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff   TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                      // Per-command counts, loop passes, depth, duration
)

// Config holds interpreter configuration
type Config struct {
	maxSteps  int
	maxDepth  int
	logger    *slog.Logger
	telemetry TelemetryMode
}

// WithMaxSteps stops a run after n steps with ErrStepLimit. A step is one
// executed statement or one While condition check. Zero means unlimited.
func WithMaxSteps(n int) Option {
	return func(c *Config) {
		c.maxSteps = n
	}
}

// WithMaxDepth bounds method call nesting; deeper calls fail with ErrCallDepth
func WithMaxDepth(n int) Option {
	return func(c *Config) {
		c.maxDepth = n
	}
}

// WithLogger traces dispatches and method calls at debug level
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithTelemetryBasic enables run telemetry
func WithTelemetryBasic() Option {
	return func(c *Config) {
		c.telemetry = TelemetryBasic
	}
}

// RunTelemetry holds run metrics (production-safe)
type RunTelemetry struct {
	CommandCounts map[string]int // Dispatches per command name
	LoopPasses    int            // While bodies entered
	MaxDepth      int            // Deepest method nesting reached
	Duration      time.Duration
}
