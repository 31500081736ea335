package expr

import "fmt"

// ParseErrorKind classifies parser failures.
type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	UnbalancedParens
	UnknownFunction
	EmptyExpression
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case UnbalancedParens:
		return "unbalanced parentheses"
	case UnknownFunction:
		return "unknown function"
	case EmptyExpression:
		return "empty expression"
	}
	return "parse error"
}

// ParseError reports a malformed expression. Token holds the offending
// lexeme (empty for EmptyExpression) and Pos its byte offset in the input.
type ParseError struct {
	Kind  ParseErrorKind
	Token string
	Pos   int
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s %q at offset %d", e.Kind, e.Token, e.Pos)
}
