package expr

import "strconv"

// Node is an immutable expression tree node. Every stage of the pipeline
// produces new nodes and never mutates nodes it received.
type Node interface {
	// Normalize renders the node in the canonical, fully parenthesized
	// form used for cache fingerprints. Two nodes with equal Normalize
	// output are treated as the same expression.
	Normalize() string

	node()
}

// BinaryOp is one of the five infix operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	}
	return "?"
}

// Func identifies a supported math function. The set is a closed
// enumeration: adding a function means adding a variant here plus its
// derivative rule and its emitted symbol, which the compiler checks
// exhaustively.
type Func int

const (
	FuncSin Func = iota
	FuncCos
	FuncTan
	FuncExp
	FuncLog
	FuncSqrt

	numFuncs
)

var funcNames = [numFuncs]string{
	FuncSin:  "sin",
	FuncCos:  "cos",
	FuncTan:  "tan",
	FuncExp:  "exp",
	FuncLog:  "log",
	FuncSqrt: "sqrt",
}

func (f Func) String() string {
	if f < 0 || f >= numFuncs {
		return "unknown"
	}
	return funcNames[f]
}

// FuncByName resolves an identifier against the function table.
func FuncByName(name string) (Func, bool) {
	for f, n := range funcNames {
		if n == name {
			return Func(f), true
		}
	}
	return 0, false
}

// Constant is a numeric literal.
type Constant struct {
	Value float64
}

// Variable is a reference to the bound variable of the expression.
type Variable struct {
	Name string
}

// Binary applies an infix operator to two operands.
type Binary struct {
	Op          BinaryOp
	Left, Right Node
}

// Unary is arithmetic negation, the only prefix operator.
type Unary struct {
	Operand Node
}

// Call applies a function from the supported table to one argument.
type Call struct {
	Fn  Func
	Arg Node
}

func (*Constant) node() {}
func (*Variable) node() {}
func (*Binary) node()   {}
func (*Unary) node()    {}
func (*Call) node()     {}

// FormatConstant renders a float64 with enough digits to reconstruct the
// exact value. Shared with the code emitter so that normalization and
// emission agree byte-for-byte.
func FormatConstant(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (c *Constant) Normalize() string {
	return FormatConstant(c.Value)
}

func (v *Variable) Normalize() string {
	return v.Name
}

func (b *Binary) Normalize() string {
	return "(" + b.Left.Normalize() + b.Op.String() + b.Right.Normalize() + ")"
}

func (u *Unary) Normalize() string {
	return "(-" + u.Operand.Normalize() + ")"
}

func (c *Call) Normalize() string {
	return c.Fn.String() + "(" + c.Arg.Normalize() + ")"
}
