// Package interpreter walks a parsed program, keeping variables in scopes and
// forwarding command statements to a command.Dispatcher.
//
// All per-run state lives in an execution context created by Run and passed
// explicitly through execute and evaluate. An Interpreter holds only
// configuration, so running it twice never shares variables or methods.
package interpreter

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/KevinPriv/canvas-lang/core/ast"
	"github.com/KevinPriv/canvas-lang/core/command"
	"github.com/KevinPriv/canvas-lang/core/invariant"
)

// Interpreter executes programs against one dispatcher
type Interpreter struct {
	dispatcher command.Dispatcher
	config     Config
}

// Result summarizes a run. On failure it reflects the state at the fault.
type Result struct {
	Globals    map[string]int // Final global bindings
	Methods    []string       // Defined method names, in definition order
	Statements int            // Statements executed
	Commands   int            // Commands dispatched successfully
	Calls      int            // Method invocations
	Telemetry  *RunTelemetry  // nil unless telemetry is enabled
}

// execContext is the state of one run
type execContext struct {
	ctx     context.Context
	globals *Scope
	methods *methodTable

	steps      int
	statements int
	commands   int
	calls      int
	depth      int
	line       int

	telemetry *RunTelemetry
}

// New creates an interpreter that sends commands to dispatcher
func New(dispatcher command.Dispatcher, opts ...Option) *Interpreter {
	invariant.NotNil(dispatcher, "dispatcher")

	config := Config{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&config)
	}
	if config.logger == nil {
		config.logger = slog.New(slog.DiscardHandler)
	}

	return &Interpreter{dispatcher: dispatcher, config: config}
}

// Run executes program in a fresh global scope with an empty method table.
// ctx is checked before every step; cancelling it stops the run with
// ctx.Err().
func (in *Interpreter) Run(ctx context.Context, program *ast.Block) (*Result, error) {
	invariant.NotNil(ctx, "ctx")
	invariant.NotNil(program, "program")

	ec := &execContext{
		ctx:     ctx,
		globals: NewScope(),
		methods: &methodTable{},
	}

	var start time.Time
	if in.config.telemetry > TelemetryOff {
		ec.telemetry = &RunTelemetry{CommandCounts: make(map[string]int)}
		start = time.Now()
	}

	err := in.executeBlock(ec, program, ec.globals)

	if ec.telemetry != nil {
		ec.telemetry.Duration = time.Since(start)
	}

	invariant.Postcondition(ec.depth == 0, "call depth %d after run", ec.depth)

	return &Result{
		Globals:    ec.globals.Snapshot(),
		Methods:    ec.methods.names(),
		Statements: ec.statements,
		Commands:   ec.commands,
		Calls:      ec.calls,
		Telemetry:  ec.telemetry,
	}, err
}

// step accounts for one unit of work and enforces cancellation and limits
func (in *Interpreter) step(ec *execContext, node ast.Node) error {
	if err := ec.ctx.Err(); err != nil {
		return err
	}
	ec.steps++
	if in.config.maxSteps > 0 && ec.steps > in.config.maxSteps {
		return ec.fail(StepLimit, node, "exceeded %d steps", in.config.maxSteps)
	}
	return nil
}

func (in *Interpreter) executeBlock(ec *execContext, block *ast.Block, scope *Scope) error {
	for _, stmt := range block.Statements {
		if err := in.execute(ec, stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

// execute runs one statement in scope
func (in *Interpreter) execute(ec *execContext, stmt ast.Statement, scope *Scope) error {
	if err := in.step(ec, stmt); err != nil {
		return err
	}
	ec.statements++

	switch s := stmt.(type) {
	case *ast.Block:
		return in.executeBlock(ec, s, scope)

	case *ast.Assignment:
		ec.line = s.Line
		// The right-hand side always reads the global scope, even inside a method
		v, err := in.evaluateInt(ec, s.Value, ec.globals)
		if err != nil {
			return err
		}
		scope.Set(s.Name, v)
		return nil

	case *ast.If:
		ec.line = s.Line
		cond, err := in.evaluateBool(ec, s.Condition, scope)
		if err != nil {
			return err
		}
		if cond {
			return in.executeBlock(ec, s.Body, scope)
		}
		return nil

	case *ast.While:
		return in.executeWhile(ec, s, scope)

	case *ast.MethodDef:
		ec.line = s.Line
		ec.methods.define(s)
		in.config.logger.Debug("method defined", "method", s.Name, "arity", len(s.Params), "line", s.Line)
		return nil

	case *ast.MethodInvoke:
		return in.invokeMethod(ec, s, scope)

	case *ast.CommandInvoke:
		return in.invokeCommand(ec, s, scope)
	}

	invariant.Invariant(false, "unhandled statement type %T", stmt)
	return nil
}

func (in *Interpreter) executeWhile(ec *execContext, s *ast.While, scope *Scope) error {
	for {
		ec.line = s.Line
		cond, err := in.evaluateBool(ec, s.Condition, scope)
		if err != nil {
			return err
		}
		if !cond {
			return nil
		}
		if ec.telemetry != nil {
			ec.telemetry.LoopPasses++
		}
		if err := in.executeBlock(ec, s.Body, scope); err != nil {
			return err
		}
		// An empty body still has to observe cancellation and limits
		if err := in.step(ec, s); err != nil {
			return err
		}
	}
}

// invokeMethod runs the first method whose arity matches. Arguments are
// evaluated in the caller's scope and bound in a fresh scope that sees
// nothing else.
func (in *Interpreter) invokeMethod(ec *execContext, s *ast.MethodInvoke, scope *Scope) error {
	ec.line = s.Line

	m, ok := ec.methods.resolve(len(s.Args))
	if !ok {
		return ec.fail(MethodResolution, s, "no method takes %d arguments (invoked as %s)", len(s.Args), s.Name)
	}

	local := NewScope()
	for i, arg := range s.Args {
		v, err := in.evaluateInt(ec, arg, scope)
		if err != nil {
			return err
		}
		local.Set(m.params[i].Name, v)
	}

	if in.config.maxDepth > 0 && ec.depth >= in.config.maxDepth {
		return ec.fail(CallDepth, s, "method calls nested deeper than %d", in.config.maxDepth)
	}

	in.config.logger.Debug("method call", "invoked", s.Name, "method", m.name, "args", len(s.Args), "line", s.Line)

	ec.calls++
	ec.depth++
	if ec.telemetry != nil && ec.depth > ec.telemetry.MaxDepth {
		ec.telemetry.MaxDepth = ec.depth
	}
	err := in.executeBlock(ec, m.body, local)
	ec.depth--
	return err
}

// invokeCommand narrows every argument to its decimal form and dispatches
func (in *Interpreter) invokeCommand(ec *execContext, s *ast.CommandInvoke, scope *Scope) error {
	ec.line = s.Line

	args := make([]string, len(s.Args))
	for i, arg := range s.Args {
		v, err := in.evaluateInt(ec, arg, scope)
		if err != nil {
			return err
		}
		args[i] = strconv.Itoa(v)
	}

	in.config.logger.Debug("dispatch", "command", s.Name, "args", args, "line", s.Line)

	if err := in.dispatcher.Dispatch(ec.ctx, s.Name, args); err != nil {
		return &CommandError{Name: s.Name, Args: args, Line: s.Line, Err: err}
	}

	ec.commands++
	if ec.telemetry != nil {
		ec.telemetry.CommandCounts[s.Name]++
	}
	return nil
}

// evaluate computes an expression against scope
func (in *Interpreter) evaluate(ec *execContext, expr ast.Expression, scope *Scope) (Value, error) {
	switch e := expr.(type) {
	case *ast.Integer:
		return IntValue(e.Value), nil

	case *ast.Identifier:
		v, ok := scope.Get(e.Name)
		if !ok {
			return Value{}, ec.fail(UndefinedVariable, e, "undefined variable %s", e.Name)
		}
		return IntValue(v), nil

	case *ast.BinaryOp:
		return in.evaluateBinary(ec, e, scope)

	case *ast.Comparison:
		return in.evaluateComparison(ec, e, scope)
	}

	invariant.Invariant(false, "unhandled expression type %T", expr)
	return Value{}, nil
}

func (in *Interpreter) evaluateBinary(ec *execContext, e *ast.BinaryOp, scope *Scope) (Value, error) {
	left, err := in.evaluateInt(ec, e.Left, scope)
	if err != nil {
		return Value{}, err
	}
	right, err := in.evaluateInt(ec, e.Right, scope)
	if err != nil {
		return Value{}, err
	}

	switch e.Operator {
	case "+":
		return IntValue(left + right), nil
	case "-":
		return IntValue(left - right), nil
	case "*":
		return IntValue(left * right), nil
	case "/":
		if right == 0 {
			return Value{}, ec.fail(Arithmetic, e, "division by zero in %s", e)
		}
		return IntValue(left / right), nil
	}
	return Value{}, ec.fail(UnknownOperator, e, "unknown arithmetic operator %q", e.Operator)
}

func (in *Interpreter) evaluateComparison(ec *execContext, e *ast.Comparison, scope *Scope) (Value, error) {
	left, err := in.evaluate(ec, e.Left, scope)
	if err != nil {
		return Value{}, err
	}
	right, err := in.evaluate(ec, e.Right, scope)
	if err != nil {
		return Value{}, err
	}

	switch e.Operator {
	case "==", "!=", "<=", ">=", ">", "<":
		if left.Kind != KindInt || right.Kind != KindInt {
			return Value{}, ec.fail(TypeMismatch, e, "%s needs integer operands, got %s and %s", e.Operator, left.Kind, right.Kind)
		}
		return BoolValue(compareInts(e.Operator, left.Int, right.Int)), nil

	case "&&", "||":
		if left.Kind != KindBool || right.Kind != KindBool {
			return Value{}, ec.fail(TypeMismatch, e, "%s needs boolean operands, got %s and %s", e.Operator, left.Kind, right.Kind)
		}
		if e.Operator == "&&" {
			return BoolValue(left.Bool && right.Bool), nil
		}
		return BoolValue(left.Bool || right.Bool), nil
	}
	return Value{}, ec.fail(UnknownOperator, e, "unknown comparison operator %q", e.Operator)
}

func compareInts(op string, a, b int) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	case ">":
		return a > b
	default:
		return a < b
	}
}

func (in *Interpreter) evaluateInt(ec *execContext, expr ast.Expression, scope *Scope) (int, error) {
	v, err := in.evaluate(ec, expr, scope)
	if err != nil {
		return 0, err
	}
	if v.Kind != KindInt {
		return 0, ec.fail(TypeMismatch, expr, "expected an integer, got %s %s", v.Kind, v)
	}
	return v.Int, nil
}

func (in *Interpreter) evaluateBool(ec *execContext, expr ast.Expression, scope *Scope) (bool, error) {
	v, err := in.evaluate(ec, expr, scope)
	if err != nil {
		return false, err
	}
	if v.Kind != KindBool {
		return false, ec.fail(TypeMismatch, expr, "expected a condition, got %s %s", v.Kind, v)
	}
	return v.Bool, nil
}
