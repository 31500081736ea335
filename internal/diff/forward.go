package diff

import "github.com/symjit/symjit/internal/expr"

// forward differentiates by structural recursion over the tree.
func forward(node expr.Node, variable string) (expr.Node, error) {
	switch n := node.(type) {
	case *expr.Constant:
		return konst(0), nil

	case *expr.Variable:
		if n.Name == variable {
			return konst(1), nil
		}
		return konst(0), nil

	case *expr.Unary:
		d, err := forward(n.Operand, variable)
		if err != nil {
			return nil, err
		}
		return neg(d), nil

	case *expr.Binary:
		return forwardBinary(n, variable)

	case *expr.Call:
		return forwardCall(n, variable)
	}

	return nil, &Error{Kind: UnsupportedFunction, Detail: "unknown node"}
}

func forwardBinary(n *expr.Binary, variable string) (expr.Node, error) {
	dl, err := forward(n.Left, variable)
	if err != nil {
		return nil, err
	}
	dr, err := forward(n.Right, variable)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case expr.OpAdd:
		return add(dl, dr), nil

	case expr.OpSub:
		return sub(dl, dr), nil

	case expr.OpMul:
		// (fg)' = f'g + fg'
		return add(mul(dl, n.Right), mul(n.Left, dr)), nil

	case expr.OpDiv:
		// (f/g)' = (f'g - fg') / g^2, rejecting a literal zero denominator.
		if isZero(n.Right) {
			return nil, &Error{Kind: DivisionByZeroSymbolic}
		}
		num := sub(mul(dl, n.Right), mul(n.Left, dr))
		den := mul(n.Right, n.Right)
		return div(num, den), nil

	case expr.OpPow:
		return forwardPow(n, dl, dr)
	}

	return nil, &Error{Kind: UnsupportedFunction, Detail: n.Op.String()}
}

// forwardPow handles f^g. Three shapes, cheapest first: constant exponent
// (power rule), constant base (exponential rule), and the general case
// f^g * (g' ln f + g f'/f).
func forwardPow(n *expr.Binary, dl, dr expr.Node) (expr.Node, error) {
	baseDep := !isZero(dl)
	expDep := !isZero(dr)

	switch {
	case !baseDep && !expDep:
		return konst(0), nil

	case baseDep && !expDep:
		// d/dx f^c = c * f^(c-1) * f'
		exponent := sub(n.Right, konst(1))
		return mul(mul(n.Right, pow(n.Left, exponent)), dl), nil

	case !baseDep && expDep:
		// d/dx c^g = c^g * ln(c) * g'
		return mul(mul(pow(n.Left, n.Right), call(expr.FuncLog, n.Left)), dr), nil

	default:
		// d/dx f^g = f^g * (g' ln f + g f'/f)
		lhs := mul(dr, call(expr.FuncLog, n.Left))
		rhs := div(mul(n.Right, dl), n.Left)
		return mul(pow(n.Left, n.Right), add(lhs, rhs)), nil
	}
}

// forwardCall applies the chain rule using the shared derivative table in
// callPartial.
func forwardCall(n *expr.Call, variable string) (expr.Node, error) {
	inner, err := forward(n.Arg, variable)
	if err != nil {
		return nil, err
	}
	outer, err := callPartial(n.Fn, n.Arg)
	if err != nil {
		return nil, err
	}
	return mul(outer, inner), nil
}
