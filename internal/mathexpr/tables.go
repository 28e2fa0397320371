// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathexpr

import "math"

// =============================================================================
// EVALUATION LIMITS
// =============================================================================

// Build-time limits bounding input size and numeric magnitude. Everything the
// evaluator touches - literals, intermediates, results - stays inside
// MaxNumber, which keeps evaluation time proportional to expression size.
const (
	// MaxInputLength is the maximum accepted expression length in bytes.
	MaxInputLength = 256

	// MaxNumber bounds the absolute value of any literal, intermediate, or
	// result.
	MaxNumber = 1e300

	// MaxExponent bounds |exponent| for the ^ operator and 2-argument pow.
	MaxExponent = 100

	// MaxFactorial bounds the factorial argument.
	MaxFactorial = 100

	// MaxModExponent bounds the exponent of 3-argument modular pow. Modular
	// exponentiation is cheap (square-and-multiply over a bounded modulus),
	// so it tolerates a far larger exponent than plain power.
	MaxModExponent = 1_000_000

	// MaxModOperand bounds |base| and |modulus| of 3-argument pow so results
	// stay exactly representable in a float64.
	MaxModOperand = 1e15
)

// =============================================================================
// FUNCTION ALLOW-LIST
// =============================================================================

// builtin tags each allow-listed function. Dispatch happens through a switch
// in applyBuiltin so the compiler checks exhaustiveness instead of a map of
// closures hiding the arity and domain rules.
type builtin int

const (
	fnAbs builtin = iota
	fnSqrt
	fnFloor
	fnCeil
	fnRound
	fnMin
	fnMax
	fnFactorial
	fnPow
	fnLog
	fnLog10
	fnSin
	fnCos
	fnTan
)

// functions is the closed set of callable names. There is no registration
// API; extending the language means editing this table and applyBuiltin.
var functions = map[string]builtin{
	"abs":       fnAbs,
	"sqrt":      fnSqrt,
	"floor":     fnFloor,
	"ceil":      fnCeil,
	"round":     fnRound,
	"min":       fnMin,
	"max":       fnMax,
	"factorial": fnFactorial,
	"pow":       fnPow,
	"log":       fnLog,
	"log10":     fnLog10,
	"sin":       fnSin,
	"cos":       fnCos,
	"tan":       fnTan,
}

// =============================================================================
// CONSTANT TABLE
// =============================================================================

// constants maps identifier names to fixed values.
var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
}

// =============================================================================
// HELP TEXT
// =============================================================================

const helpText = `Supported math expressions:

Operators:
  +  -  *  /      add, subtract, multiply, divide
  %               modulo
  ^               power (right-associative, exponent up to 100)
  ( )             grouping
  × ÷ √           accepted as aliases for * / sqrt

Functions:
  abs(x)          absolute value
  sqrt(x)         square root (x >= 0)
  floor(x)        round down
  ceil(x)         round up
  round(x [, n])  round to n decimal places (default 0)
  min(a, b, ...)  smallest argument
  max(a, b, ...)  largest argument
  factorial(n)    n! for whole n from 0 to 100
  pow(a, b)       a to the power b (|b| up to 100)
  pow(a, b, m)    a^b mod m for whole numbers (b up to 1000000)
  log(x)          natural logarithm (x > 0)
  log10(x)        base-10 logarithm (x > 0)
  sin(x) cos(x) tan(x)  trigonometry in radians

Constants:
  pi  e  tau

Examples: 2 + 2, (3 + 4) * 5, 2^10, sqrt(16), round(10/3, 2)`

// Help returns a static reference describing the supported operators,
// functions, and constants.
func Help() string {
	return helpText
}
