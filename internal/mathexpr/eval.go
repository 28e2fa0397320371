// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathexpr

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// =============================================================================
// EVALUATION
// =============================================================================

// Evaluate parses and computes an arithmetic expression, returning the
// formatted result. It is a total function over strings: every failure comes
// back as a *Error and no panic crosses the boundary. Each call is
// stateless and safe to run concurrently with any other.
func Evaluate(expression string) (string, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return "", errorf(KindSyntax, "empty expression")
	}
	if len(trimmed) > MaxInputLength {
		return "", errorf(KindSyntax, "expression exceeds %d characters", MaxInputLength)
	}

	node, err := Parse(Normalize(trimmed))
	if err != nil {
		return "", err
	}
	// Mandatory even though Parse can only build allowed kinds: Evaluate must
	// hold the invariant on its own when handed a tree directly.
	if err := Validate(node); err != nil {
		return "", err
	}

	value, evalErr := evalNode(node)
	if evalErr != nil {
		return "", evalErr
	}
	return formatResult(value)
}

// evalNode computes a validated subtree bottom-up.
func evalNode(n Node) (float64, *Error) {
	switch v := n.(type) {
	case *NumberNode:
		if math.Abs(v.Value) > MaxNumber {
			return 0, errorf(KindNumberTooLarge, "literal exceeds the magnitude limit")
		}
		return v.Value, nil

	case *IdentNode:
		value, ok := constants[v.Name]
		if !ok {
			return 0, errorf(KindUnknownIdentifier, "%q is not a known constant", v.Name)
		}
		return value, nil

	case *UnaryNode:
		operand, err := evalNode(v.Operand)
		if err != nil {
			return 0, err
		}
		if v.Op == OpNeg {
			return -operand, nil
		}
		return operand, nil

	case *BinaryNode:
		left, err := evalNode(v.Left)
		if err != nil {
			return 0, err
		}
		right, err := evalNode(v.Right)
		if err != nil {
			return 0, err
		}
		return applyBinary(v.Op, left, right)

	case *CallNode:
		fn, ok := functions[v.Func]
		if !ok {
			return 0, errorf(KindUnknownFunction, "%q is not a supported function", v.Func)
		}
		args := make([]float64, len(v.Args))
		for i, argNode := range v.Args {
			arg, err := evalNode(argNode)
			if err != nil {
				return 0, err
			}
			args[i] = arg
		}
		result, err := applyBuiltin(fn, v.Func, args)
		if err != nil {
			return 0, err
		}
		return checkMagnitude(result)

	default:
		return 0, errorf(KindUnsupportedOperation, "disallowed expression node %T", n)
	}
}

// checkMagnitude enforces the result bound after every operation so huge
// intermediates cannot hide inside a small final result.
func checkMagnitude(v float64) (float64, *Error) {
	if math.IsInf(v, 0) || math.Abs(v) > MaxNumber {
		return 0, errorf(KindResultTooLarge, "result exceeds the magnitude limit")
	}
	return v, nil
}

// applyBinary dispatches the operator table.
func applyBinary(op BinaryOp, left, right float64) (float64, *Error) {
	switch op {
	case OpAdd:
		return checkMagnitude(left + right)
	case OpSub:
		return checkMagnitude(left - right)
	case OpMul:
		return checkMagnitude(left * right)
	case OpDiv:
		if right == 0 {
			return 0, errorf(KindDivisionByZero, "cannot divide by zero")
		}
		return checkMagnitude(left / right)
	case OpMod:
		if right == 0 {
			return 0, errorf(KindDivisionByZero, "cannot take modulo by zero")
		}
		return checkMagnitude(math.Mod(left, right))
	case OpPow:
		return applyPower(left, right)
	default:
		return 0, errorf(KindUnsupportedOperation, "disallowed operator")
	}
}

// applyPower implements ^ and 2-argument pow with the exponent ceiling.
func applyPower(base, exponent float64) (float64, *Error) {
	if math.Abs(exponent) > MaxExponent {
		return 0, errorf(KindExponentTooLarge, "exponent magnitude exceeds %d", MaxExponent)
	}
	return checkMagnitude(math.Pow(base, exponent))
}

// =============================================================================
// FUNCTION DISPATCH
// =============================================================================

// applyBuiltin applies one allow-listed function with its arity and domain
// rules. Arguments arrive already evaluated and magnitude-checked.
func applyBuiltin(fn builtin, name string, args []float64) (float64, *Error) {
	switch fn {
	case fnAbs:
		if err := wantArgs(name, args, 1, 1); err != nil {
			return 0, err
		}
		return math.Abs(args[0]), nil

	case fnSqrt:
		if err := wantArgs(name, args, 1, 1); err != nil {
			return 0, err
		}
		if args[0] < 0 {
			return 0, errorf(KindDomain, "sqrt of a negative number")
		}
		return math.Sqrt(args[0]), nil

	case fnFloor:
		if err := wantArgs(name, args, 1, 1); err != nil {
			return 0, err
		}
		return math.Floor(args[0]), nil

	case fnCeil:
		if err := wantArgs(name, args, 1, 1); err != nil {
			return 0, err
		}
		return math.Ceil(args[0]), nil

	case fnRound:
		return applyRound(name, args)

	case fnMin:
		if err := wantArgs(name, args, 1, -1); err != nil {
			return 0, err
		}
		result := args[0]
		for _, v := range args[1:] {
			result = math.Min(result, v)
		}
		return result, nil

	case fnMax:
		if err := wantArgs(name, args, 1, -1); err != nil {
			return 0, err
		}
		result := args[0]
		for _, v := range args[1:] {
			result = math.Max(result, v)
		}
		return result, nil

	case fnFactorial:
		return applyFactorial(name, args)

	case fnPow:
		return applyPow(name, args)

	case fnLog:
		if err := wantArgs(name, args, 1, 1); err != nil {
			return 0, err
		}
		if args[0] <= 0 {
			return 0, errorf(KindDomain, "log of a non-positive number")
		}
		return math.Log(args[0]), nil

	case fnLog10:
		if err := wantArgs(name, args, 1, 1); err != nil {
			return 0, err
		}
		if args[0] <= 0 {
			return 0, errorf(KindDomain, "log10 of a non-positive number")
		}
		return math.Log10(args[0]), nil

	case fnSin:
		if err := wantArgs(name, args, 1, 1); err != nil {
			return 0, err
		}
		return math.Sin(args[0]), nil

	case fnCos:
		if err := wantArgs(name, args, 1, 1); err != nil {
			return 0, err
		}
		return math.Cos(args[0]), nil

	case fnTan:
		if err := wantArgs(name, args, 1, 1); err != nil {
			return 0, err
		}
		return math.Tan(args[0]), nil

	default:
		return 0, errorf(KindUnknownFunction, "%q is not a supported function", name)
	}
}

// wantArgs enforces an arity range; max of -1 means unbounded.
func wantArgs(name string, args []float64, min, max int) *Error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		if min == max {
			return errorf(KindArity, "%s expects %d argument(s), got %d", name, min, len(args))
		}
		if max < 0 {
			return errorf(KindArity, "%s expects at least %d argument(s), got %d", name, min, len(args))
		}
		return errorf(KindArity, "%s expects %d to %d arguments, got %d", name, min, max, len(args))
	}
	return nil
}

// applyRound implements round(x) and round(x, ndigits).
func applyRound(name string, args []float64) (float64, *Error) {
	if err := wantArgs(name, args, 1, 2); err != nil {
		return 0, err
	}
	if len(args) == 1 {
		return math.Round(args[0]), nil
	}
	digits := args[1]
	if digits != math.Trunc(digits) || math.Abs(digits) > 15 {
		return 0, errorf(KindDomain, "round digits must be a whole number between -15 and 15")
	}
	scale := math.Pow(10, digits)
	return math.Round(args[0]*scale) / scale, nil
}

// applyFactorial implements factorial(n) for whole 0 <= n <= MaxFactorial.
func applyFactorial(name string, args []float64) (float64, *Error) {
	if err := wantArgs(name, args, 1, 1); err != nil {
		return 0, err
	}
	n := args[0]
	if n != math.Trunc(n) || n < 0 {
		return 0, errorf(KindDomain, "factorial needs a non-negative whole number")
	}
	if n > MaxFactorial {
		return 0, errorf(KindDomain, "factorial argument exceeds %d", MaxFactorial)
	}
	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
	}
	return result, nil
}

// applyPow implements pow(base, exp) and the modular pow(base, exp, mod).
// The 3-argument form computes exactly over integers, which is why it
// tolerates a much larger exponent than the floating 2-argument form.
func applyPow(name string, args []float64) (float64, *Error) {
	if err := wantArgs(name, args, 2, 3); err != nil {
		return 0, err
	}
	if len(args) == 2 {
		return applyPower(args[0], args[1])
	}

	base, exp, mod := args[0], args[1], args[2]
	for _, v := range []float64{base, exp, mod} {
		if v != math.Trunc(v) {
			return 0, errorf(KindDomain, "3-argument pow needs whole numbers")
		}
	}
	if exp < 0 {
		return 0, errorf(KindDomain, "3-argument pow needs a non-negative exponent")
	}
	if exp > MaxModExponent {
		return 0, errorf(KindExponentTooLarge, "modular exponent exceeds %d", MaxModExponent)
	}
	if mod == 0 {
		return 0, errorf(KindDivisionByZero, "modulus must not be zero")
	}
	if math.Abs(base) > MaxModOperand || math.Abs(mod) > MaxModOperand {
		return 0, errorf(KindDomain, "modular base and modulus must stay within %g", MaxModOperand)
	}

	result := new(big.Int).Exp(
		big.NewInt(int64(base)),
		big.NewInt(int64(exp)),
		big.NewInt(int64(mod)),
	)
	if result == nil {
		return 0, errorf(KindDomain, "modular power is undefined for these arguments")
	}
	return float64(result.Int64()), nil
}

// =============================================================================
// RESULT FORMATTING
// =============================================================================

// formatResult renders a finite value: whole numbers print as integers,
// everything else with 10 significant digits and trailing zeros trimmed, so
// floating-point noise never reaches the chat reply.
func formatResult(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", errorf(KindNonFiniteResult, "expression has no finite value")
	}
	if math.Abs(v) > MaxNumber {
		return "", errorf(KindResultTooLarge, "result exceeds the magnitude limit")
	}
	if v == 0 {
		// Collapse negative zero.
		v = 0
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64), nil
	}
	return strconv.FormatFloat(v, 'g', 10, 64), nil
}
