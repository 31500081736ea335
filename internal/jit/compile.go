package jit

import (
	"fmt"
	"math"
	"strconv"
)

// Host math library table. Call symbols in emitted source resolve against
// these; anything else is a SymbolResolutionError.
var (
	unarySymbols = map[string]func(float64) float64{
		"sin":  math.Sin,
		"cos":  math.Cos,
		"tan":  math.Tan,
		"exp":  math.Exp,
		"log":  math.Log,
		"sqrt": math.Sqrt,
	}
	binarySymbols = map[string]func(float64, float64) float64{
		"pow": math.Pow,
	}
)

// compiler parses the emitted function definition and lowers its return
// expression to an instruction stream, resolving call symbols as it goes.
type compiler struct {
	toks []tok
	pos  int
	arg  string

	prog     *program
	depth    int
	unaryIdx map[string]int
	binIdx   map[string]int
}

func compile(source, funcName string) (*program, error) {
	toks, err := lex(source)
	if err != nil {
		return nil, err
	}
	c := &compiler{
		toks:     toks,
		prog:     &program{},
		unaryIdx: make(map[string]int),
		binIdx:   make(map[string]int),
	}
	if err := c.parseHeader(funcName); err != nil {
		return nil, err
	}
	if err := c.expression(); err != nil {
		return nil, err
	}
	if err := c.parseFooter(); err != nil {
		return nil, err
	}
	return c.prog, nil
}

func (c *compiler) cur() tok { return c.toks[c.pos] }

func (c *compiler) advance() tok {
	t := c.toks[c.pos]
	if c.pos < len(c.toks)-1 {
		c.pos++
	}
	return t
}

func (c *compiler) expect(k tokKind, what string) (tok, error) {
	t := c.advance()
	if t.kind != k {
		return t, &CompileError{
			Kind:       SyntaxError,
			Diagnostic: fmt.Sprintf("expected %s, found %q at offset %d", what, t.text, t.pos),
		}
	}
	return t, nil
}

func (c *compiler) expectKeyword(word string) error {
	t, err := c.expect(tokIdent, fmt.Sprintf("%q", word))
	if err != nil {
		return err
	}
	if t.text != word {
		return &CompileError{
			Kind:       SyntaxError,
			Diagnostic: fmt.Sprintf("expected %q, found %q at offset %d", word, t.text, t.pos),
		}
	}
	return nil
}

// parseHeader consumes `double <name>(double <arg>) { return`, binding the
// argument name and checking the entry symbol.
func (c *compiler) parseHeader(funcName string) error {
	if err := c.expectKeyword("double"); err != nil {
		return err
	}
	name, err := c.expect(tokIdent, "function name")
	if err != nil {
		return err
	}
	if name.text != funcName {
		return &CompileError{
			Kind:       LinkError,
			Diagnostic: fmt.Sprintf("entry symbol %q not defined (source defines %q)", funcName, name.text),
		}
	}
	if _, err := c.expect(tokLParen, "'('"); err != nil {
		return err
	}
	if err := c.expectKeyword("double"); err != nil {
		return err
	}
	arg, err := c.expect(tokIdent, "parameter name")
	if err != nil {
		return err
	}
	c.arg = arg.text
	if _, err := c.expect(tokRParen, "')'"); err != nil {
		return err
	}
	if _, err := c.expect(tokLBrace, "'{'"); err != nil {
		return err
	}
	return c.expectKeyword("return")
}

func (c *compiler) parseFooter() error {
	if _, err := c.expect(tokSemi, "';'"); err != nil {
		return err
	}
	if _, err := c.expect(tokRBrace, "'}'"); err != nil {
		return err
	}
	if t := c.cur(); t.kind != tokEOF {
		return &CompileError{
			Kind:       SyntaxError,
			Diagnostic: fmt.Sprintf("trailing input %q at offset %d", t.text, t.pos),
		}
	}
	return nil
}

// push/pop track the operand stack height so the program can size its
// stack exactly once at compile time.
func (c *compiler) emit(op opcode, arg int, delta int) {
	c.prog.code = append(c.prog.code, instruction{op: op, arg: arg})
	c.depth += delta
	if c.depth > c.prog.stackSize {
		c.prog.stackSize = c.depth
	}
}

func (c *compiler) expression() error {
	if err := c.term(); err != nil {
		return err
	}
	for {
		switch c.cur().kind {
		case tokPlus:
			c.advance()
			if err := c.term(); err != nil {
				return err
			}
			c.emit(opAdd, 0, -1)
		case tokMinus:
			c.advance()
			if err := c.term(); err != nil {
				return err
			}
			c.emit(opSub, 0, -1)
		default:
			return nil
		}
	}
}

func (c *compiler) term() error {
	if err := c.unaryExpr(); err != nil {
		return err
	}
	for {
		switch c.cur().kind {
		case tokStar:
			c.advance()
			if err := c.unaryExpr(); err != nil {
				return err
			}
			c.emit(opMul, 0, -1)
		case tokSlash:
			c.advance()
			if err := c.unaryExpr(); err != nil {
				return err
			}
			c.emit(opDiv, 0, -1)
		default:
			return nil
		}
	}
}

func (c *compiler) unaryExpr() error {
	if c.cur().kind == tokMinus {
		c.advance()
		if err := c.unaryExpr(); err != nil {
			return err
		}
		c.emit(opNeg, 0, 0)
		return nil
	}
	return c.primary()
}

func (c *compiler) primary() error {
	t := c.advance()
	switch t.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return &CompileError{
				Kind:       SyntaxError,
				Diagnostic: fmt.Sprintf("bad numeric literal %q at offset %d", t.text, t.pos),
			}
		}
		c.emit(opConst, c.internConst(v), 1)
		return nil

	case tokIdent:
		if c.cur().kind == tokLParen {
			return c.callExpr(t)
		}
		if t.text != c.arg {
			return &CompileError{
				Kind:       SyntaxError,
				Diagnostic: fmt.Sprintf("unknown identifier %q at offset %d", t.text, t.pos),
			}
		}
		c.emit(opArg, 0, 1)
		return nil

	case tokLParen:
		if err := c.expression(); err != nil {
			return err
		}
		_, err := c.expect(tokRParen, "')'")
		return err
	}

	return &CompileError{
		Kind:       SyntaxError,
		Diagnostic: fmt.Sprintf("unexpected token %q at offset %d", t.text, t.pos),
	}
}

func (c *compiler) callExpr(name tok) error {
	c.advance() // consume '('

	var args int
	for {
		if err := c.expression(); err != nil {
			return err
		}
		args++
		if c.cur().kind != tokComma {
			break
		}
		c.advance()
	}
	if _, err := c.expect(tokRParen, "')'"); err != nil {
		return err
	}

	switch args {
	case 1:
		fn, ok := unarySymbols[name.text]
		if !ok {
			return c.unresolved(name)
		}
		c.emit(opCall1, c.internUnary(name.text, fn), 0)
	case 2:
		fn, ok := binarySymbols[name.text]
		if !ok {
			return c.unresolved(name)
		}
		c.emit(opCall2, c.internBinary(name.text, fn), -1)
	default:
		return &CompileError{
			Kind:       SyntaxError,
			Diagnostic: fmt.Sprintf("call to %q with %d arguments at offset %d", name.text, args, name.pos),
		}
	}
	return nil
}

func (c *compiler) unresolved(name tok) error {
	return &CompileError{
		Kind:       SymbolResolutionError,
		Diagnostic: fmt.Sprintf("undefined symbol %q at offset %d", name.text, name.pos),
	}
}

func (c *compiler) internConst(v float64) int {
	c.prog.constants = append(c.prog.constants, v)
	return len(c.prog.constants) - 1
}

func (c *compiler) internUnary(name string, fn func(float64) float64) int {
	if idx, ok := c.unaryIdx[name]; ok {
		return idx
	}
	c.prog.unary = append(c.prog.unary, fn)
	c.unaryIdx[name] = len(c.prog.unary) - 1
	return c.unaryIdx[name]
}

func (c *compiler) internBinary(name string, fn func(float64, float64) float64) int {
	if idx, ok := c.binIdx[name]; ok {
		return idx
	}
	c.prog.binary = append(c.prog.binary, fn)
	c.binIdx[name] = len(c.prog.binary) - 1
	return c.binIdx[name]
}
