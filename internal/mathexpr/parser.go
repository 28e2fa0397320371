// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathexpr

// =============================================================================
// GRAMMAR
// =============================================================================
//
// expression  := binary(1)
// binary(p)   := prefix { op[prec>=p] binary(prec(+1)) }
// prefix      := ("+" | "-" | "√") power-operand | primary
// primary     := NUMBER | IDENT | IDENT "(" args ")" | "(" expression ")"
// args        := [ expression { "," expression } ]
//
// Precedence: + - (1)  <  * / % (2)  <  ^ (3, right-associative).
// Unary +/- and √ take their operand at power precedence, so -2^2 is -(2^2),
// matching how every mainstream calculator and language treats it.

const (
	precAddSub = 1
	precMulDiv = 2
	precPower  = 3
)

// Parse parses a normalized expression string into an AST. It performs no
// evaluation and no allow-list lookups; unknown names only fail later, at
// evaluation time. The same parser backs both the classifier and the
// evaluator so the two can never disagree about what the grammar accepts.
func Parse(input string) (Node, error) {
	tokens, lexErr := lex(input)
	if lexErr != nil {
		return nil, lexErr
	}
	p := &parser{tokens: tokens}
	node, err := p.parseBinary(precAddSub)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		if tok.kind == tokAssign {
			return nil, errorf(KindUnsupportedOperation, "assignment is not supported")
		}
		return nil, errorf(KindSyntax, "unexpected %q after expression", tok.text)
	}
	return node, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

// binaryPrec returns the precedence of a binary operator token, or 0 when
// the token is not a binary operator.
func binaryPrec(kind tokenKind) (BinaryOp, int) {
	switch kind {
	case tokPlus:
		return OpAdd, precAddSub
	case tokMinus:
		return OpSub, precAddSub
	case tokStar:
		return OpMul, precMulDiv
	case tokSlash:
		return OpDiv, precMulDiv
	case tokPercent:
		return OpMod, precMulDiv
	case tokCaret:
		return OpPow, precPower
	}
	return 0, 0
}

// parseBinary is precedence-climbing over the operator table.
func (p *parser) parseBinary(minPrec int) (Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		op, prec := binaryPrec(p.peek().kind)
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		p.next()
		nextMin := prec + 1
		if op == OpPow { // right-associative
			nextMin = prec
		}
		right, err := p.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
}

// parsePrefix handles unary +/- and the √ sign, which desugars to a sqrt
// call with the same binding as unary minus.
func (p *parser) parsePrefix() (Node, error) {
	switch p.peek().kind {
	case tokPlus:
		p.next()
		operand, err := p.parsePowerOperand()
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: OpPos, Operand: operand}, nil
	case tokMinus:
		p.next()
		// The operand keeps power precedence: -2^2 parses as -(2^2).
		operand, err := p.parsePowerOperand()
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: OpNeg, Operand: operand}, nil
	case tokSqrt:
		p.next()
		operand, err := p.parsePowerOperand()
		if err != nil {
			return nil, err
		}
		return &CallNode{Func: "sqrt", Args: []Node{operand}}, nil
	}
	return p.parsePrimary()
}

// parsePowerOperand parses the operand of a prefix operator so that an
// exponent chain stays inside the operand.
func (p *parser) parsePowerOperand() (Node, error) {
	return p.parseBinary(precPower)
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokNumber:
		p.next()
		return &NumberNode{Value: tok.value}, nil

	case tokIdent:
		p.next()
		if p.peek().kind == tokLParen {
			return p.parseCall(tok.text)
		}
		return &IdentNode{Name: tok.text}, nil

	case tokLParen:
		p.next()
		inner, err := p.parseBinary(precAddSub)
		if err != nil {
			return nil, err
		}
		switch p.peek().kind {
		case tokRParen:
			p.next()
			return inner, nil
		case tokComma:
			// (1, 2) is a sequence literal in richer languages, not grouping.
			return nil, errorf(KindUnsupportedOperation, "sequence expressions are not supported")
		default:
			return nil, errorf(KindSyntax, "missing closing parenthesis")
		}

	case tokAssign:
		return nil, errorf(KindUnsupportedOperation, "assignment is not supported")

	case tokEOF:
		return nil, errorf(KindSyntax, "unexpected end of expression")

	default:
		return nil, errorf(KindSyntax, "unexpected %q", tok.text)
	}
}

// parseCall parses "name(args...)" with the opening paren as the current
// token. Keyword arguments are recognized and rejected with their own error
// kind; the function name itself is checked at evaluation time.
func (p *parser) parseCall(name string) (Node, error) {
	p.next() // consume '('
	call := &CallNode{Func: name}

	if p.peek().kind == tokRParen {
		p.next()
		return call, nil
	}

	for {
		// name=value inside an argument list is a keyword argument.
		if p.peek().kind == tokIdent && p.tokens[p.pos+1].kind == tokAssign {
			return nil, errorf(KindUnsupportedArgument, "%s does not accept keyword arguments", name)
		}
		arg, err := p.parseBinary(precAddSub)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		switch p.peek().kind {
		case tokComma:
			p.next()
		case tokRParen:
			p.next()
			return call, nil
		default:
			return nil, errorf(KindSyntax, "missing closing parenthesis in call to %s", name)
		}
	}
}
