// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathexpr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeMath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple sum", "2 + 2", true},
		{"function call", "sqrt(16)", true},
		{"square root sign", "√16", true},
		{"constant with operator", "pi * 2", true},
		{"power", "2^10", true},
		{"grouped", "(3*4)", true},
		{"surrounding whitespace", "  7 - 5  ", true},
		{"calculator multiply", "6 × 7", true},
		{"calculator divide", "8 ÷ 2", true},
		{"calculator minus", "9 − 4", true},
		{"calculator dot", "3 ⋅ 4", true},
		{"negative number", "-5 + 3", true},
		{"nested call", "max(1, min(2, 3))", true},

		{"empty", "", false},
		{"blank", "   ", false},
		{"plain greeting", "hello there", false},
		{"bare number", "42", false},
		{"number in prose", "I woke up at 7 o'clock", false},
		{"math question in words", "what is 2 + 2", false},
		{"unbalanced parens", "(2 + 2", false},
		{"dangling operator", "2 +", false},
		{"injection attempt", `__import__('os')`, false},
		{"assignment", "x = 1", false},
		{"unknown word with operator", "apples + oranges", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeMath(tt.input), "input: %q", tt.input)
		})
	}
}

func TestLooksLikeMathLimits(t *testing.T) {
	// Over the length ceiling, even a valid expression is not classified.
	long := "1+" + strings.Repeat("1+", 200) + "1"
	assert.Greater(t, len(long), MaxInputLength)
	assert.False(t, LooksLikeMath(long))

	// Over the word ceiling, prose-shaped input short-circuits before parsing.
	words := strings.Repeat("2 + ", 11) + "2"
	assert.Greater(t, len(strings.Fields(words)), MaxWords)
	assert.False(t, LooksLikeMath(words))
}

func TestLooksLikeMathAgreesWithEvaluate(t *testing.T) {
	// Anything the classifier accepts must evaluate without a syntax-level
	// failure; runtime failures like division by zero are still possible.
	inputs := []string{"2 + 2", "sqrt(16)", "pi * e", "2^3^2", "min(1, 2)"}
	for _, in := range inputs {
		assert.True(t, LooksLikeMath(in), "input: %q", in)
		_, err := Evaluate(in)
		assert.NoError(t, err, "input: %q", in)
	}
}
