package interpreter

import (
	"errors"
	"fmt"

	"github.com/KevinPriv/canvas-lang/core/ast"
)

// ErrorKind classifies runtime failures
type ErrorKind int

const (
	UndefinedVariable ErrorKind = iota
	Arithmetic
	MethodResolution
	TypeMismatch
	UnknownOperator
	StepLimit
	CallDepth
)

// Sentinels matched by errors.Is against a *RuntimeError of the same kind
var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrMethodResolution  = errors.New("method resolution failed")
	ErrType              = errors.New("type mismatch")
	ErrUnknownOperator   = errors.New("unknown operator")
	ErrStepLimit         = errors.New("step limit exceeded")
	ErrCallDepth         = errors.New("call depth exceeded")
)

var kindSentinels = map[ErrorKind]error{
	UndefinedVariable: ErrUndefinedVariable,
	Arithmetic:        ErrDivisionByZero,
	MethodResolution:  ErrMethodResolution,
	TypeMismatch:      ErrType,
	UnknownOperator:   ErrUnknownOperator,
	StepLimit:         ErrStepLimit,
	CallDepth:         ErrCallDepth,
}

// RuntimeError is a fault raised while interpreting. Execution stops at the
// first one.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Node    ast.Node // Node being evaluated, if any
	Line    int      // Line of the enclosing statement, 0 if unknown
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("runtime error: line %d: %s", e.Line, e.Message)
	}
	return "runtime error: " + e.Message
}

// Unwrap exposes the sentinel for the error's kind
func (e *RuntimeError) Unwrap() error {
	return kindSentinels[e.Kind]
}

// CommandError wraps a dispatcher failure with the command that caused it
type CommandError struct {
	Name string
	Args []string
	Line int
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("line %d: command %s: %v", e.Line, e.Name, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func (ec *execContext) fail(kind ErrorKind, node ast.Node, format string, args ...interface{}) error {
	return &RuntimeError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Node:    node,
		Line:    ec.line,
	}
}
