// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mathexpr implements a sandboxed arithmetic expression evaluator.
//
// The package accepts untrusted user input and evaluates it as a numeric
// expression without exposing any general-purpose code execution. The
// grammar is closed: numeric literals, named constants, the operators
// + - * / % ^, unary +/- and the square-root sign, parentheses, and calls
// to a fixed allow-list of math functions. Nothing else parses, and every
// parsed tree is validated node-by-node before evaluation.
//
// # Key Functions
//
//   - LooksLikeMath: cheap heuristic filter deciding whether a chat message
//     is worth routing to the evaluator at all
//   - Evaluate: parse, validate, and compute an expression, returning a
//     formatted result string or a typed *Error
//   - Help: static reference text listing supported operators, functions,
//     and constants
//
// # Safety Model
//
// Safety comes from construction, not from denylisting: the parser cannot
// express attribute access, subscripts, lambdas, collection literals, or
// any other construct outside the five AST node kinds (literal, identifier,
// unary, binary, call). Numeric magnitudes, exponents, factorial arguments,
// and input length are all bounded so evaluation always terminates in time
// proportional to the expression size.
//
// Both LooksLikeMath and Evaluate are pure and reentrant; the operator,
// function, and constant tables are read-only after package init, so calls
// may run concurrently without coordination.
package mathexpr
