// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathexpr

import (
	"strconv"
	"strings"
	"unicode"
)

// =============================================================================
// INPUT NORMALIZATION
// =============================================================================

// normalizer canonicalizes display symbols people paste from calculators or
// rendered math: multiplication/division signs and the Unicode minus. The
// square-root sign is left alone because the lexer understands it directly.
var normalizer = strings.NewReplacer(
	"×", "*", // ×
	"⋅", "*", // ⋅
	"÷", "/", // ÷
	"−", "-", // −
)

// Normalize canonicalizes display symbols to grammar operators.
// Normalizing an already-normalized string is a no-op.
func Normalize(s string) string {
	return normalizer.Replace(s)
}

// =============================================================================
// TOKENS
// =============================================================================

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokCaret
	tokSqrt
	tokLParen
	tokRParen
	tokComma
	tokAssign // '=' is never valid; it only exists so keyword args get a precise error
)

type token struct {
	kind  tokenKind
	text  string
	pos   int     // byte offset in the normalized input
	value float64 // set for tokNumber
}

// disallowedRunes maps characters that belong to a richer language than this
// grammar: they parse fine elsewhere (strings, subscripts, lambdas, attribute
// access, comparisons) and must be reported as unsupported operations rather
// than generic syntax errors, so hostile input like __import__('os') gets the
// "not in this language" answer.
const disallowedRunes = `'"[]{}.:<>&|!~@;` + "`"

// lex scans a normalized expression into tokens. It never panics; malformed
// input produces a typed *Error.
func lex(input string) ([]token, *Error) {
	var tokens []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r >= '0' && r <= '9' || r == '.' && i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9':
			tok, next, err := lexNumber(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[start:i]), pos: start})
		default:
			kind, ok := operatorToken(r)
			if !ok {
				if strings.ContainsRune(disallowedRunes, r) {
					return nil, errorf(KindUnsupportedOperation, "character %q is not part of arithmetic expressions", r)
				}
				return nil, errorf(KindSyntax, "unexpected character %q", r)
			}
			tokens = append(tokens, token{kind: kind, text: string(r), pos: i})
			i++
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(runes)})
	return tokens, nil
}

// operatorToken maps a single rune to its operator token kind.
func operatorToken(r rune) (tokenKind, bool) {
	switch r {
	case '+':
		return tokPlus, true
	case '-':
		return tokMinus, true
	case '*':
		return tokStar, true
	case '/':
		return tokSlash, true
	case '%':
		return tokPercent, true
	case '^':
		return tokCaret, true
	case '√': // √
		return tokSqrt, true
	case '(':
		return tokLParen, true
	case ')':
		return tokRParen, true
	case ',':
		return tokComma, true
	case '=':
		return tokAssign, true
	}
	return tokEOF, false
}

// lexNumber scans a numeric literal: digits, optional fraction, optional
// exponent part. A literal whose magnitude overflows float64 is kept as an
// infinity so the evaluator can report it as a magnitude violation instead
// of a parse failure.
func lexNumber(runes []rune, start int) (token, int, *Error) {
	i := start
	for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
		i++
	}
	if i < len(runes) && runes[i] == '.' {
		i++
		for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
			i++
		}
	}
	// Exponent part only counts when followed by digits; otherwise the 'e'
	// is the constant e (as in "2e" meaning 2*e is still a syntax error,
	// but "2+e" must lex as ident).
	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		if j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
			for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
				j++
			}
			i = j
		}
	}
	text := string(runes[start:i])
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Out-of-range literals still parse; the magnitude check rejects them.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return token{kind: tokNumber, text: text, pos: start, value: v}, i, nil
		}
		return token{}, i, errorf(KindSyntax, "invalid number %q", text)
	}
	return token{kind: tokNumber, text: text, pos: start, value: v}, i, nil
}
