// Package runtime composes the lexer, parser and interpreter into the single
// entry point hosts call to run a script.
package runtime

import (
	"context"
	"log/slog"

	"github.com/KevinPriv/canvas-lang/core/ast"
	"github.com/KevinPriv/canvas-lang/core/command"
	"github.com/KevinPriv/canvas-lang/runtime/interpreter"
	"github.com/KevinPriv/canvas-lang/runtime/lexer"
	"github.com/KevinPriv/canvas-lang/runtime/parser"
)

// ExecutionOptions configures how a script is executed
type ExecutionOptions struct {
	MaxSteps  int          // Stop runaway loops after this many steps (0 = unlimited)
	MaxDepth  int          // Method nesting bound (0 = interpreter default)
	Logger    *slog.Logger // Debug trace of dispatches and method calls
	Telemetry bool         // Collect run telemetry into the result
}

// Execute lexes, parses and interprets script with a fresh interpreter,
// sending every command to dispatcher. Errors are returned unmodified:
// *parser.SyntaxError, *interpreter.RuntimeError or
// *interpreter.CommandError wrapping the dispatcher's failure.
func Execute(script string, dispatcher command.Dispatcher) error {
	_, err := ExecuteContext(context.Background(), script, dispatcher, ExecutionOptions{})
	return err
}

// ExecuteContext is Execute with cancellation, limits and the run result.
// The result is nil only when the script fails to parse.
func ExecuteContext(ctx context.Context, script string, dispatcher command.Dispatcher, opts ExecutionOptions) (*interpreter.Result, error) {
	program, err := parser.Parse(lexer.Lex(script), parser.WithSource(script))
	if err != nil {
		return nil, err
	}

	return ExecuteProgram(ctx, program, dispatcher, opts)
}

// ExecuteProgram interprets an already parsed program with a fresh
// interpreter
func ExecuteProgram(ctx context.Context, program *ast.Block, dispatcher command.Dispatcher, opts ExecutionOptions) (*interpreter.Result, error) {
	return interpreter.New(dispatcher, opts.interpreterOptions()...).Run(ctx, program)
}

func (o ExecutionOptions) interpreterOptions() []interpreter.Option {
	var opts []interpreter.Option
	if o.MaxSteps > 0 {
		opts = append(opts, interpreter.WithMaxSteps(o.MaxSteps))
	}
	if o.MaxDepth > 0 {
		opts = append(opts, interpreter.WithMaxDepth(o.MaxDepth))
	}
	if o.Logger != nil {
		opts = append(opts, interpreter.WithLogger(o.Logger))
	}
	if o.Telemetry {
		opts = append(opts, interpreter.WithTelemetryBasic())
	}
	return opts
}
