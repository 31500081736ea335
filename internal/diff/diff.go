// Package diff transforms an expression AST into the AST of its derivative
// with respect to a single variable.
//
// Two strategies are provided. Forward mode is one structural recursion
// applying the textbook rules. Reverse mode builds a computation graph in a
// forward pass and propagates adjoints backward; it exists to cross-check
// forward mode and the two must agree to within numerical noise for every
// supported expression.
package diff

import (
	"fmt"

	"github.com/symjit/symjit/internal/expr"
)

// Mode selects the differentiation strategy.
type Mode int

const (
	Forward Mode = iota
	Reverse
)

func (m Mode) String() string {
	if m == Reverse {
		return "reverse"
	}
	return "forward"
}

// ParseMode resolves a mode name. Unrecognized names default to Forward.
func ParseMode(s string) Mode {
	if s == "reverse" {
		return Reverse
	}
	return Forward
}

// ErrorKind classifies differentiation failures.
type ErrorKind int

const (
	UnsupportedFunction ErrorKind = iota
	DivisionByZeroSymbolic
)

// Error reports a construct the differentiator cannot handle. Detail names
// the offending function or operator.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnsupportedFunction:
		return fmt.Sprintf("unsupported function %q", e.Detail)
	case DivisionByZeroSymbolic:
		return "division by symbolic zero"
	}
	return "differentiation error"
}

// Differentiate returns a new AST for the derivative of ast with respect to
// variable. The input AST is never modified.
func Differentiate(ast expr.Node, variable string, mode Mode) (expr.Node, error) {
	if mode == Reverse {
		return reverse(ast, variable)
	}
	return forward(ast, variable)
}
