package astfmt

import (
	"fmt"

	"github.com/KevinPriv/canvas-lang/core/ast"
)

// Decode reads canonical CBOR back into a program. Source lines are not
// part of the encoding, so every Line field of the result is zero.
func Decode(data []byte) (*ast.Block, error) {
	var cp CanonicalProgram
	if err := cp.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return cp.Program()
}

// Program rebuilds the AST from canonical form
func (cp *CanonicalProgram) Program() (*ast.Block, error) {
	return toBlock(cp.Body)
}

func toBlock(nodes []CanonicalNode) (*ast.Block, error) {
	block := &ast.Block{}
	for i := range nodes {
		stmt, err := toStatement(&nodes[i])
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		block.Statements = append(block.Statements, stmt)
	}
	return block, nil
}

func toStatement(cn *CanonicalNode) (ast.Statement, error) {
	switch cn.Type {
	case TypeIf, TypeWhile:
		cond, err := toExpression(cn.Condition)
		if err != nil {
			return nil, fmt.Errorf("%s condition: %w", cn.Type, err)
		}
		body, err := toBlock(cn.Body)
		if err != nil {
			return nil, err
		}
		if cn.Type == TypeIf {
			return &ast.If{Condition: cond, Body: body}, nil
		}
		return &ast.While{Condition: cond, Body: body}, nil

	case TypeAssign:
		value, err := toExpression(cn.Expr)
		if err != nil {
			return nil, fmt.Errorf("assignment to %s: %w", cn.Name, err)
		}
		return &ast.Assignment{Name: cn.Name, Value: value}, nil

	case TypeMethodDef:
		var params []*ast.Identifier
		for _, p := range cn.Params {
			params = append(params, &ast.Identifier{Name: p})
		}
		body, err := toBlock(cn.Body)
		if err != nil {
			return nil, err
		}
		return &ast.MethodDef{Name: cn.Name, Params: params, Body: body}, nil

	case TypeInvoke, TypeCommand:
		args, err := toExpressions(cn.Args)
		if err != nil {
			return nil, err
		}
		if cn.Type == TypeInvoke {
			return &ast.MethodInvoke{Name: cn.Name, Args: args}, nil
		}
		return &ast.CommandInvoke{Name: cn.Name, Args: args}, nil
	}
	return nil, fmt.Errorf("%q is not a statement", cn.Type)
}

func toExpressions(nodes []CanonicalNode) ([]ast.Expression, error) {
	var exprs []ast.Expression
	for i := range nodes {
		e, err := toExpression(&nodes[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func toExpression(cn *CanonicalNode) (ast.Expression, error) {
	if cn == nil {
		return nil, fmt.Errorf("missing expression")
	}

	switch cn.Type {
	case TypeInteger:
		return &ast.Integer{Value: int(cn.Value)}, nil
	case TypeIdentifier:
		return &ast.Identifier{Name: cn.Name}, nil
	case TypeBinary, TypeComparison:
		left, err := toExpression(cn.Left)
		if err != nil {
			return nil, fmt.Errorf("left: %w", err)
		}
		right, err := toExpression(cn.Right)
		if err != nil {
			return nil, fmt.Errorf("right: %w", err)
		}
		if cn.Type == TypeBinary {
			return &ast.BinaryOp{Left: left, Operator: cn.Operator, Right: right}, nil
		}
		return &ast.Comparison{Left: left, Operator: cn.Operator, Right: right}, nil
	}
	return nil, fmt.Errorf("%q is not an expression", cn.Type)
}
