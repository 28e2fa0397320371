// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathexpr

// =============================================================================
// AST NODES
// =============================================================================

// Node is one node of a parsed expression tree. Exactly five concrete kinds
// exist; Validate rejects anything else. Nodes are immutable once built and
// live only for the duration of a single Parse/Evaluate call.
type Node interface {
	node()
}

// NumberNode is a numeric literal.
type NumberNode struct {
	Value float64
}

// IdentNode is a bare name, resolved against the constant table at
// evaluation time.
type IdentNode struct {
	Name string
}

// UnaryNode applies a prefix operator to a single operand.
type UnaryNode struct {
	Op      UnaryOp
	Operand Node
}

// BinaryNode applies an infix operator to two operands.
type BinaryNode struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

// CallNode invokes a function from the allow-list. Arguments are positional
// only; the parser rejects keyword arguments before a CallNode is built.
type CallNode struct {
	Func string
	Args []Node
}

func (*NumberNode) node() {}
func (*IdentNode) node()  {}
func (*UnaryNode) node()  {}
func (*BinaryNode) node() {}
func (*CallNode) node()   {}

// =============================================================================
// OPERATOR TABLE
// =============================================================================

// BinaryOp enumerates the fixed set of infix operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

// String returns the operator symbol.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	default:
		return "?"
	}
}

// UnaryOp enumerates the fixed set of prefix operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
)

// String returns the operator symbol.
func (op UnaryOp) String() string {
	if op == OpNeg {
		return "-"
	}
	return "+"
}

// =============================================================================
// STRUCTURAL VALIDATION
// =============================================================================

// Validate walks every reachable node and rejects anything that is not one
// of the five allowed kinds. The parser cannot actually produce other kinds,
// but the evaluator must be safe when invoked directly, so this check runs
// unconditionally before every evaluation.
func Validate(n Node) error {
	if n == nil {
		return errorf(KindUnsupportedOperation, "empty expression tree")
	}
	switch v := n.(type) {
	case *NumberNode, *IdentNode:
		return nil
	case *UnaryNode:
		return Validate(v.Operand)
	case *BinaryNode:
		if err := Validate(v.Left); err != nil {
			return err
		}
		return Validate(v.Right)
	case *CallNode:
		for _, arg := range v.Args {
			if err := Validate(arg); err != nil {
				return err
			}
		}
		return nil
	default:
		return errorf(KindUnsupportedOperation, "disallowed expression node %T", n)
	}
}
