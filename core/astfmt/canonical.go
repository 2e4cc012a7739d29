// Package astfmt encodes parsed programs into a canonical binary form.
//
// The canonical form drops source positions, so two scripts that differ only
// in blank lines or spacing encode to the same bytes and share a
// fingerprint.
package astfmt

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/KevinPriv/canvas-lang/core/ast"
	"github.com/KevinPriv/canvas-lang/core/invariant"
)

// Version is the canonical format version
const Version uint8 = 1

// Node type tags
const (
	TypeIf         = "if"
	TypeWhile      = "while"
	TypeAssign     = "assign"
	TypeMethodDef  = "method"
	TypeInvoke     = "invoke"
	TypeCommand    = "command"
	TypeInteger    = "int"
	TypeIdentifier = "ident"
	TypeBinary     = "binary"
	TypeComparison = "compare"
)

// CanonicalProgram is the deterministic encoding of a program
type CanonicalProgram struct {
	Version uint8
	Body    []CanonicalNode
}

// CanonicalNode is a union of every AST node in canonical form
type CanonicalNode struct {
	Type string

	Name     string          `cbor:",omitempty"` // assignment target, method, command, identifier
	Operator string          `cbor:",omitempty"` // binary and comparison
	Value    int64           `cbor:",omitempty"` // integer literal
	Params   []string        `cbor:",omitempty"` // method parameters
	Args     []CanonicalNode `cbor:",omitempty"` // invocation arguments
	Body     []CanonicalNode `cbor:",omitempty"` // If, While, Method

	Left      *CanonicalNode `cbor:",omitempty"`
	Right     *CanonicalNode `cbor:",omitempty"`
	Condition *CanonicalNode `cbor:",omitempty"`
	Expr      *CanonicalNode `cbor:",omitempty"` // assigned value
}

// Canonicalize converts a program into canonical form
func Canonicalize(program *ast.Block) (*CanonicalProgram, error) {
	invariant.NotNil(program, "program")

	body, err := canonicalizeBlock(program)
	if err != nil {
		return nil, err
	}
	return &CanonicalProgram{Version: Version, Body: body}, nil
}

func canonicalizeBlock(b *ast.Block) ([]CanonicalNode, error) {
	if b == nil {
		return nil, nil
	}
	nodes := make([]CanonicalNode, len(b.Statements))
	for i, stmt := range b.Statements {
		cn, err := toCanonicalNode(stmt)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		nodes[i] = cn
	}
	return nodes, nil
}

func canonicalizeExprs(exprs []ast.Expression) ([]CanonicalNode, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	nodes := make([]CanonicalNode, len(exprs))
	for i, e := range exprs {
		cn, err := toCanonicalNode(e)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		nodes[i] = cn
	}
	return nodes, nil
}

func canonicalizeExpr(e ast.Expression) (*CanonicalNode, error) {
	cn, err := toCanonicalNode(e)
	if err != nil {
		return nil, err
	}
	return &cn, nil
}

// toCanonicalNode converts an AST node into canonical form
func toCanonicalNode(node ast.Node) (CanonicalNode, error) {
	switch n := node.(type) {
	case *ast.If:
		return canonicalizeConditional(TypeIf, n.Condition, n.Body)
	case *ast.While:
		return canonicalizeConditional(TypeWhile, n.Condition, n.Body)

	case *ast.Assignment:
		expr, err := canonicalizeExpr(n.Value)
		if err != nil {
			return CanonicalNode{}, fmt.Errorf("assignment to %s: %w", n.Name, err)
		}
		return CanonicalNode{Type: TypeAssign, Name: n.Name, Expr: expr}, nil

	case *ast.MethodDef:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		body, err := canonicalizeBlock(n.Body)
		if err != nil {
			return CanonicalNode{}, fmt.Errorf("method %s: %w", n.Name, err)
		}
		return CanonicalNode{Type: TypeMethodDef, Name: n.Name, Params: params, Body: body}, nil

	case *ast.MethodInvoke:
		args, err := canonicalizeExprs(n.Args)
		if err != nil {
			return CanonicalNode{}, err
		}
		return CanonicalNode{Type: TypeInvoke, Name: n.Name, Args: args}, nil

	case *ast.CommandInvoke:
		args, err := canonicalizeExprs(n.Args)
		if err != nil {
			return CanonicalNode{}, err
		}
		return CanonicalNode{Type: TypeCommand, Name: n.Name, Args: args}, nil

	case *ast.Integer:
		return CanonicalNode{Type: TypeInteger, Value: int64(n.Value)}, nil

	case *ast.Identifier:
		return CanonicalNode{Type: TypeIdentifier, Name: n.Name}, nil

	case *ast.BinaryOp:
		return canonicalizeBinary(TypeBinary, n.Left, n.Operator, n.Right)

	case *ast.Comparison:
		return canonicalizeBinary(TypeComparison, n.Left, n.Operator, n.Right)

	default:
		return CanonicalNode{}, fmt.Errorf("unknown node type: %T", node)
	}
}

func canonicalizeConditional(typ string, cond ast.Expression, body *ast.Block) (CanonicalNode, error) {
	c, err := canonicalizeExpr(cond)
	if err != nil {
		return CanonicalNode{}, fmt.Errorf("%s condition: %w", typ, err)
	}
	b, err := canonicalizeBlock(body)
	if err != nil {
		return CanonicalNode{}, fmt.Errorf("%s body: %w", typ, err)
	}
	return CanonicalNode{Type: typ, Condition: c, Body: b}, nil
}

func canonicalizeBinary(typ string, left ast.Expression, op string, right ast.Expression) (CanonicalNode, error) {
	l, err := canonicalizeExpr(left)
	if err != nil {
		return CanonicalNode{}, fmt.Errorf("left: %w", err)
	}
	r, err := canonicalizeExpr(right)
	if err != nil {
		return CanonicalNode{}, fmt.Errorf("right: %w", err)
	}
	return CanonicalNode{Type: typ, Operator: op, Left: l, Right: r}, nil
}

// MarshalBinary encodes the canonical form as deterministic CBOR
func (cp *CanonicalProgram) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	// Alias type so CBOR does not call MarshalBinary recursively
	type canonicalProgramAlias CanonicalProgram
	alias := (*canonicalProgramAlias)(cp)

	data, err := encMode.Marshal(alias)
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// UnmarshalBinary decodes CBOR produced by MarshalBinary
func (cp *CanonicalProgram) UnmarshalBinary(data []byte) error {
	type canonicalProgramAlias CanonicalProgram
	alias := (*canonicalProgramAlias)(cp)

	if err := cbor.Unmarshal(data, alias); err != nil {
		return fmt.Errorf("CBOR decoding failed: %w", err)
	}
	if cp.Version != Version {
		return fmt.Errorf("unsupported canonical format version %d", cp.Version)
	}
	return nil
}

// Hash computes the BLAKE2b-256 hash of the canonical bytes
func (cp *CanonicalProgram) Hash() ([32]byte, error) {
	data, err := cp.MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}

// Fingerprint returns "blake2b:<hex>" for a program's canonical form
func Fingerprint(program *ast.Block) (string, error) {
	cp, err := Canonicalize(program)
	if err != nil {
		return "", err
	}
	hash, err := cp.Hash()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("blake2b:%x", hash), nil
}
