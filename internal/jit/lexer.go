package jit

import "fmt"

// The backend lexes the C subset produced by the emitter: one function
// definition whose body is a single return expression over doubles.

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokNumber
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokComma
	tokSemi
	tokPlus
	tokMinus
	tokStar
	tokSlash
)

type tok struct {
	kind tokKind
	text string
	pos  int
}

func lex(src string) ([]tok, error) {
	var out []tok
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			out = append(out, tok{tokLParen, "(", i})
			i++
		case c == ')':
			out = append(out, tok{tokRParen, ")", i})
			i++
		case c == '{':
			out = append(out, tok{tokLBrace, "{", i})
			i++
		case c == '}':
			out = append(out, tok{tokRBrace, "}", i})
			i++
		case c == ',':
			out = append(out, tok{tokComma, ",", i})
			i++
		case c == ';':
			out = append(out, tok{tokSemi, ";", i})
			i++
		case c == '+':
			out = append(out, tok{tokPlus, "+", i})
			i++
		case c == '-':
			out = append(out, tok{tokMinus, "-", i})
			i++
		case c == '*':
			out = append(out, tok{tokStar, "*", i})
			i++
		case c == '/':
			out = append(out, tok{tokSlash, "/", i})
			i++
		case isNumStart(src, i):
			start := i
			i = scanNumber(src, i)
			out = append(out, tok{tokNumber, src[start:i], start})
		case isAlpha(c):
			start := i
			for i < len(src) && (isAlpha(src[i]) || isNum(src[i])) {
				i++
			}
			out = append(out, tok{tokIdent, src[start:i], start})
		default:
			return nil, &CompileError{
				Kind:       SyntaxError,
				Diagnostic: fmt.Sprintf("stray character %q at offset %d", c, i),
			}
		}
	}
	return append(out, tok{kind: tokEOF, pos: len(src)}), nil
}

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNum(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumStart(src string, i int) bool {
	if isNum(src[i]) {
		return true
	}
	return src[i] == '.' && i+1 < len(src) && isNum(src[i+1])
}

// scanNumber accepts the strconv 'g' output alphabet: digits, one dot,
// an exponent with optional sign.
func scanNumber(src string, i int) int {
	for i < len(src) && isNum(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isNum(src[i]) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isNum(src[j]) {
			i = j
			for i < len(src) && isNum(src[i]) {
				i++
			}
		}
	}
	return i
}
