package diff

import "github.com/symjit/symjit/internal/expr"

// Constructor helpers with local folds. These are not a simplifier: they
// only collapse the identities the derivative rules generate constantly
// (x+0, x*1, x*0, 0/x, x^1) so emitted source stays readable and constant
// subtrees fold to literal constants. Anything structural is left alone.

func konst(v float64) expr.Node {
	return &expr.Constant{Value: v}
}

func isZero(n expr.Node) bool {
	c, ok := n.(*expr.Constant)
	return ok && c.Value == 0
}

func isOne(n expr.Node) bool {
	c, ok := n.(*expr.Constant)
	return ok && c.Value == 1
}

func constValue(n expr.Node) (float64, bool) {
	c, ok := n.(*expr.Constant)
	if !ok {
		return 0, false
	}
	return c.Value, true
}

func add(a, b expr.Node) expr.Node {
	if isZero(a) {
		return b
	}
	if isZero(b) {
		return a
	}
	if x, ok := constValue(a); ok {
		if y, ok := constValue(b); ok {
			return konst(x + y)
		}
	}
	return &expr.Binary{Op: expr.OpAdd, Left: a, Right: b}
}

func sub(a, b expr.Node) expr.Node {
	if isZero(b) {
		return a
	}
	if isZero(a) {
		return neg(b)
	}
	if x, ok := constValue(a); ok {
		if y, ok := constValue(b); ok {
			return konst(x - y)
		}
	}
	return &expr.Binary{Op: expr.OpSub, Left: a, Right: b}
}

func mul(a, b expr.Node) expr.Node {
	if isZero(a) || isZero(b) {
		return konst(0)
	}
	if isOne(a) {
		return b
	}
	if isOne(b) {
		return a
	}
	if x, ok := constValue(a); ok {
		if y, ok := constValue(b); ok {
			return konst(x * y)
		}
	}
	return &expr.Binary{Op: expr.OpMul, Left: a, Right: b}
}

func div(a, b expr.Node) expr.Node {
	if isZero(a) && !isZero(b) {
		return konst(0)
	}
	if isOne(b) {
		return a
	}
	return &expr.Binary{Op: expr.OpDiv, Left: a, Right: b}
}

func pow(a, b expr.Node) expr.Node {
	if isOne(b) {
		return a
	}
	if isZero(b) {
		return konst(1)
	}
	return &expr.Binary{Op: expr.OpPow, Left: a, Right: b}
}

func neg(a expr.Node) expr.Node {
	if v, ok := constValue(a); ok {
		return konst(-v)
	}
	if u, ok := a.(*expr.Unary); ok {
		return u.Operand
	}
	return &expr.Unary{Operand: a}
}

func call(fn expr.Func, arg expr.Node) expr.Node {
	return &expr.Call{Fn: fn, Arg: arg}
}
