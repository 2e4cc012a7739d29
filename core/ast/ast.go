// Package ast defines the syntax tree produced by the parser and walked by
// the interpreter.
//
// The node set is closed: Statement and Expression are sealed by unexported
// marker methods, so the interpreter's type switches cover every variant that
// can exist. Nodes are created once per parse and never mutated afterwards.
package ast

import (
	"strconv"
	"strings"
)

// Node represents any node in the AST
type Node interface {
	// String renders the node back to script syntax
	String() string
	node()
}

// Statement is a node that Execute runs for its side effects
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that Evaluate turns into a value
type Expression interface {
	Node
	exprNode()
}

// Block is an ordered sequence of statements executed in source order
type Block struct {
	Statements []Statement
}

// If runs Body once when Condition is true. There is no else branch.
type If struct {
	Condition Expression
	Body      *Block
	Line      int
}

// While re-evaluates Condition before every pass over Body
type While struct {
	Condition Expression
	Body      *Block
	Line      int
}

// Assignment binds Name to the value of Value
type Assignment struct {
	Name  string
	Value Expression
	Line  int
}

// Integer is an integer literal
type Integer struct {
	Value int
}

// Identifier is a variable reference (or a method parameter name)
type Identifier struct {
	Name string
}

// BinaryOp is an arithmetic operation: + - * /
type BinaryOp struct {
	Left     Expression
	Operator string
	Right    Expression
}

// Comparison is a relational or logical operation: == != <= >= > < && ||
type Comparison struct {
	Left     Expression
	Operator string
	Right    Expression
}

// MethodDef registers a user-defined method when executed
type MethodDef struct {
	Name   string
	Params []*Identifier
	Body   *Block
	Line   int
}

// MethodInvoke calls a user-defined method for its side effects
type MethodInvoke struct {
	Name string
	Args []Expression
	Line int
}

// CommandInvoke forwards a host command to the dispatcher
type CommandInvoke struct {
	Name string
	Args []Expression
	Line int
}

func (*Block) node()         {}
func (*If) node()            {}
func (*While) node()         {}
func (*Assignment) node()    {}
func (*Integer) node()       {}
func (*Identifier) node()    {}
func (*BinaryOp) node()      {}
func (*Comparison) node()    {}
func (*MethodDef) node()     {}
func (*MethodInvoke) node()  {}
func (*CommandInvoke) node() {}

func (*Block) stmtNode()         {}
func (*If) stmtNode()            {}
func (*While) stmtNode()         {}
func (*Assignment) stmtNode()    {}
func (*MethodDef) stmtNode()     {}
func (*MethodInvoke) stmtNode()  {}
func (*CommandInvoke) stmtNode() {}

func (*Integer) exprNode()    {}
func (*Identifier) exprNode() {}
func (*BinaryOp) exprNode()   {}
func (*Comparison) exprNode() {}

func (b *Block) String() string {
	parts := make([]string, 0, len(b.Statements))
	for _, s := range b.Statements {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "\n")
}

func (n *If) String() string {
	return "If " + n.Condition.String() + "\n" + blockBody(n.Body) + "Endif"
}

func (n *While) String() string {
	return "While " + n.Condition.String() + "\n" + blockBody(n.Body) + "Endloop"
}

func (n *Assignment) String() string {
	return n.Name + " = " + n.Value.String()
}

func (n *Integer) String() string {
	return strconv.Itoa(n.Value)
}

func (n *Identifier) String() string {
	return n.Name
}

func (n *BinaryOp) String() string {
	return n.Left.String() + " " + n.Operator + " " + n.Right.String()
}

func (n *Comparison) String() string {
	return n.Left.String() + " " + n.Operator + " " + n.Right.String()
}

func (n *MethodDef) String() string {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Name
	}
	return "Method " + n.Name + "(" + strings.Join(params, ", ") + ")\n" + blockBody(n.Body) + "Endmethod"
}

func (n *MethodInvoke) String() string {
	return n.Name + "(" + joinExpressions(n.Args) + ")"
}

func (n *CommandInvoke) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	return n.Name + " " + joinExpressions(n.Args)
}

// blockBody renders a nested block followed by a newline, or nothing if empty
func blockBody(b *Block) string {
	if b == nil || len(b.Statements) == 0 {
		return ""
	}
	return b.String() + "\n"
}

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
