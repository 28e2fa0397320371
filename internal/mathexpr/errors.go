// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathexpr

import "fmt"

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// ErrorKind categorizes evaluation failures. Every error returned by this
// package carries exactly one kind; callers that only need a yes/no answer
// can ignore it, callers that log can switch on it.
type ErrorKind int

const (
	// KindSyntax means the input did not parse under the grammar.
	KindSyntax ErrorKind = iota
	// KindUnsupportedOperation means the input used a syntactic construct
	// outside the closed grammar (strings, brackets, attribute access, ...).
	KindUnsupportedOperation
	// KindUnknownIdentifier means a name was not in the constant table.
	KindUnknownIdentifier
	// KindUnknownFunction means a called name was not in the allow-list.
	KindUnknownFunction
	// KindUnsupportedArgument means a keyword/named argument was supplied.
	KindUnsupportedArgument
	// KindDivisionByZero means division or modulo by exact zero.
	KindDivisionByZero
	// KindExponentTooLarge means an exponent exceeded its ceiling.
	KindExponentTooLarge
	// KindNumberTooLarge means a literal exceeded the magnitude bound.
	KindNumberTooLarge
	// KindResultTooLarge means an intermediate or final result exceeded the
	// magnitude bound.
	KindResultTooLarge
	// KindNonFiniteResult means the result was NaN or infinite.
	KindNonFiniteResult
	// KindArity means a function was called with the wrong argument count.
	KindArity
	// KindDomain means an argument was outside a function's domain
	// (negative factorial, sqrt of a negative, ...).
	KindDomain
)

// String returns the human-readable name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindUnsupportedOperation:
		return "unsupported operation"
	case KindUnknownIdentifier:
		return "unknown identifier"
	case KindUnknownFunction:
		return "unknown function"
	case KindUnsupportedArgument:
		return "unsupported argument"
	case KindDivisionByZero:
		return "division by zero"
	case KindExponentTooLarge:
		return "exponent too large"
	case KindNumberTooLarge:
		return "number too large"
	case KindResultTooLarge:
		return "result too large"
	case KindNonFiniteResult:
		return "non-finite result"
	case KindArity:
		return "wrong number of arguments"
	case KindDomain:
		return "argument out of domain"
	default:
		return "evaluation error"
	}
}

// Error is the single error type returned by this package. It is always
// returned by value through the error interface and never panics across
// the package boundary.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface with a short one-line message
// suitable for rendering directly to a user.
func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// Is implements errors.Is support: two *Error values match when their kinds
// match, so callers can compare against a bare &Error{Kind: ...}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// errorf builds an *Error with a formatted message.
func errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
