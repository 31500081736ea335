package expr

import "strconv"

// Parse tokenizes and parses an expression into its AST. variable is the
// only identifier accepted outside the function table; any other bare
// identifier is an UnknownFunction failure. Parse never returns a partial
// tree: either the whole input is consumed or an error is returned.
//
// Precedence, loosest first: + -, * /, unary minus, ^ (right associative).
func Parse(input, variable string) (Node, error) {
	p := &parser{lex: newLexer(input), variable: variable}
	p.advance()

	if p.cur.typ == tokenEOF {
		return nil, &ParseError{Kind: EmptyExpression}
	}

	node, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.cur.typ == tokenRParen {
		return nil, &ParseError{Kind: UnbalancedParens, Token: p.cur.lexeme, Pos: p.cur.pos}
	}
	if p.cur.typ != tokenEOF {
		return nil, &ParseError{Kind: UnexpectedToken, Token: p.cur.lexeme, Pos: p.cur.pos}
	}
	return node, nil
}

type parser struct {
	lex      *lexer
	cur      token
	variable string
}

func (p *parser) advance() {
	p.cur = p.lex.next()
}

func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.typ == tokenPlus || p.cur.typ == tokenMinus {
		op := OpAdd
		if p.cur.typ == tokenMinus {
			op = OpSub
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.typ == tokenStar || p.cur.typ == tokenSlash {
		op := OpMul
		if p.cur.typ == tokenSlash {
			op = OpDiv
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Node, error) {
	if p.cur.typ == tokenMinus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Operand: operand}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.typ == tokenCaret {
		p.advance()
		// Right associative: x^y^z parses as x^(y^z). The exponent may
		// carry its own unary minus, as in x^-2.
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Binary{Op: OpPow, Left: base, Right: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Node, error) {
	switch p.cur.typ {
	case tokenNumber:
		v, err := strconv.ParseFloat(p.cur.lexeme, 64)
		if err != nil {
			return nil, &ParseError{Kind: UnexpectedToken, Token: p.cur.lexeme, Pos: p.cur.pos}
		}
		p.advance()
		return &Constant{Value: v}, nil

	case tokenIdent:
		name := p.cur.lexeme
		pos := p.cur.pos
		p.advance()
		if p.cur.typ == tokenLParen {
			fn, ok := FuncByName(name)
			if !ok {
				return nil, &ParseError{Kind: UnknownFunction, Token: name, Pos: pos}
			}
			p.advance()
			arg, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			if p.cur.typ != tokenRParen {
				return nil, &ParseError{Kind: UnbalancedParens, Token: p.cur.lexeme, Pos: p.cur.pos}
			}
			p.advance()
			return &Call{Fn: fn, Arg: arg}, nil
		}
		if name == p.variable {
			return &Variable{Name: name}, nil
		}
		return nil, &ParseError{Kind: UnknownFunction, Token: name, Pos: pos}

	case tokenLParen:
		p.advance()
		inner, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if p.cur.typ != tokenRParen {
			return nil, &ParseError{Kind: UnbalancedParens, Token: p.cur.lexeme, Pos: p.cur.pos}
		}
		p.advance()
		return inner, nil

	case tokenEOF:
		return nil, &ParseError{Kind: UnexpectedToken, Token: "end of input", Pos: p.cur.pos}
	}

	return nil, &ParseError{Kind: UnexpectedToken, Token: p.cur.lexeme, Pos: p.cur.pos}
}
