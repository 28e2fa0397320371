// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathexpr

import (
	"strings"
	"unicode"
)

// =============================================================================
// CLASSIFICATION
// =============================================================================

// MaxWords is the word-count ceiling above which input is treated as prose
// rather than arithmetic.
const MaxWords = 10

// LooksLikeMath reports whether a chat message should be routed to Evaluate
// instead of the conversational model. It is a cheap pre-filter: the final
// gate is a full parse, so anything it accepts is already known to be a
// well-formed expression. False negatives cost a worse answer, never a crash.
func LooksLikeMath(message string) bool {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" || len(trimmed) > MaxInputLength {
		return false
	}
	if len(strings.Fields(trimmed)) > MaxWords {
		return false
	}

	// Map display symbols (× ⋅ ÷ −) to operators before the signal checks,
	// so "6 × 7" counts as having an operator.
	normalized := Normalize(trimmed)
	if !hasNumericSignal(normalized) || !hasOperatorSignal(normalized) {
		return false
	}

	node, err := Parse(normalized)
	if err != nil {
		return false
	}
	return Validate(node) == nil
}

// hasNumericSignal looks for a digit or a named constant anywhere in the
// message.
func hasNumericSignal(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	for _, word := range splitWords(s) {
		if _, ok := constants[word]; ok {
			return true
		}
	}
	return false
}

// hasOperatorSignal looks for an arithmetic operator or a known function
// name. Bare numbers like "42" stay with the conversational model.
func hasOperatorSignal(s string) bool {
	if strings.ContainsAny(s, "+-*/^%()") || strings.ContainsRune(s, '√') {
		return true
	}
	for _, word := range splitWords(s) {
		if _, ok := functions[word]; ok {
			return true
		}
	}
	return false
}

// splitWords breaks the message into identifier-shaped runs so "sqrt(16)"
// yields "sqrt" even without whitespace.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
