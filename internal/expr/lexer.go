package expr

import "unicode"

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenNumber
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenCaret
	tokenLParen
	tokenRParen
	tokenInvalid
)

type token struct {
	typ    tokenType
	lexeme string
	pos    int // byte offset of the first character
}

// lexer produces tokens over the expression grammar: decimal numbers with
// an optional exponent, identifiers, the five operators and parentheses.
// Whitespace is skipped; any other character yields tokenInvalid.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) next() token {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{typ: tokenEOF, pos: l.pos}
	}

	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == '+':
		l.pos++
		return token{tokenPlus, "+", start}
	case c == '-':
		l.pos++
		return token{tokenMinus, "-", start}
	case c == '*':
		l.pos++
		return token{tokenStar, "*", start}
	case c == '/':
		l.pos++
		return token{tokenSlash, "/", start}
	case c == '^':
		l.pos++
		return token{tokenCaret, "^", start}
	case c == '(':
		l.pos++
		return token{tokenLParen, "(", start}
	case c == ')':
		l.pos++
		return token{tokenRParen, ")", start}
	case isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		return l.lexNumber(start)
	case isIdentStart(c):
		return l.lexIdent(start)
	}

	l.pos++
	return token{tokenInvalid, string(c), start}
}

func (l *lexer) lexNumber(start int) token {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	// Optional exponent: e or E, optional sign, at least one digit.
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		mark := l.pos
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			// Not an exponent after all; the e starts an identifier.
			l.pos = mark
		}
	}
	return token{tokenNumber, l.src[start:l.pos], start}
}

func (l *lexer) lexIdent(start int) token {
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	return token{tokenIdent, l.src[start:l.pos], start}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
