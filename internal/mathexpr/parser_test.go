// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathexpr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireKind asserts that err carries the given error kind.
func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, kind, e.Kind, "got %v", err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "2 * 3 / 4 - 1", Normalize("2 × 3 ÷ 4 − 1"))
	assert.Equal(t, "2*3", Normalize("2⋅3"))

	// Normalizing twice changes nothing.
	once := Normalize("√9 × 2 − 1")
	assert.Equal(t, once, Normalize(once))

	// Grammar operators pass through untouched.
	assert.Equal(t, "2^3 + √4", Normalize("2^3 + √4"))
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, n Node)
	}{
		{
			name:  "precedence multiplication over addition",
			input: "1 + 2 * 3",
			check: func(t *testing.T, n Node) {
				root := n.(*BinaryNode)
				assert.Equal(t, OpAdd, root.Op)
				right := root.Right.(*BinaryNode)
				assert.Equal(t, OpMul, right.Op)
			},
		},
		{
			name:  "power is right associative",
			input: "2^3^2",
			check: func(t *testing.T, n Node) {
				root := n.(*BinaryNode)
				assert.Equal(t, OpPow, root.Op)
				_, leftIsNumber := root.Left.(*NumberNode)
				assert.True(t, leftIsNumber)
				right := root.Right.(*BinaryNode)
				assert.Equal(t, OpPow, right.Op)
			},
		},
		{
			name:  "unary minus binds the whole power chain",
			input: "-2^2",
			check: func(t *testing.T, n Node) {
				root := n.(*UnaryNode)
				assert.Equal(t, OpNeg, root.Op)
				inner := root.Operand.(*BinaryNode)
				assert.Equal(t, OpPow, inner.Op)
			},
		},
		{
			name:  "square root sign desugars to a sqrt call",
			input: "√16",
			check: func(t *testing.T, n Node) {
				call := n.(*CallNode)
				assert.Equal(t, "sqrt", call.Func)
				require.Len(t, call.Args, 1)
			},
		},
		{
			name:  "call with several arguments",
			input: "min(1, 2, 3)",
			check: func(t *testing.T, n Node) {
				call := n.(*CallNode)
				assert.Equal(t, "min", call.Func)
				assert.Len(t, call.Args, 3)
			},
		},
		{
			name:  "grouping overrides precedence",
			input: "(1 + 2) * 3",
			check: func(t *testing.T, n Node) {
				root := n.(*BinaryNode)
				assert.Equal(t, OpMul, root.Op)
				left := root.Left.(*BinaryNode)
				assert.Equal(t, OpAdd, left.Op)
			},
		},
		{
			name:  "bare identifier",
			input: "pi",
			check: func(t *testing.T, n Node) {
				ident := n.(*IdentNode)
				assert.Equal(t, "pi", ident.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.input)
			require.NoError(t, err)
			require.NoError(t, Validate(node))
			tt.check(t, node)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"unbalanced open paren", "(1 + 2", KindSyntax},
		{"dangling operator", "2 +", KindSyntax},
		{"doubled operator", "1 // 2", KindSyntax},
		{"empty parens as expression", "()", KindSyntax},
		{"stray closing paren", "1)", KindSyntax},
		{"unknown character", "1 ? 2", KindSyntax},
		{"string literal", `__import__('os')`, KindUnsupportedOperation},
		{"double quoted string", `eval("1+1")`, KindUnsupportedOperation},
		{"subscript", "a[0]", KindUnsupportedOperation},
		{"attribute access", "math.pi", KindUnsupportedOperation},
		{"lambda colon", "lambda x: x", KindUnsupportedOperation},
		{"comparison", "1 < 2", KindUnsupportedOperation},
		{"assignment statement", "x = 1", KindUnsupportedOperation},
		{"standalone assignment target", "= 1", KindUnsupportedOperation},
		{"sequence in parens", "(1, 2)", KindUnsupportedOperation},
		{"keyword argument", "round(2, ndigits=1)", KindUnsupportedArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestParseNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		value float64
	}{
		{"42", 42},
		{"2.5", 2.5},
		{".5", 0.5},
		{"1e3", 1000},
		{"1.5E-2", 0.015},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, err := Parse(tt.input)
			require.NoError(t, err)
			num, ok := node.(*NumberNode)
			require.True(t, ok)
			assert.Equal(t, tt.value, num.Value)
		})
	}

	// "2e" has no exponent digits, so the e is the constant.
	node, err := Parse("2 + e")
	require.NoError(t, err)
	root := node.(*BinaryNode)
	ident, ok := root.Right.(*IdentNode)
	require.True(t, ok)
	assert.Equal(t, "e", ident.Name)
}

func TestErrorMatching(t *testing.T) {
	_, err := Parse("(1 + 2")
	assert.True(t, errors.Is(err, &Error{Kind: KindSyntax}))
	assert.False(t, errors.Is(err, &Error{Kind: KindDivisionByZero}))
	assert.Contains(t, err.Error(), "syntax")
}
