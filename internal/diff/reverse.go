package diff

import "github.com/symjit/symjit/internal/expr"

// Reverse mode builds a computation graph during one forward pass over the
// AST and then propagates adjoints backward. The graph is an arena of nodes
// addressed by integer index; children are appended before their parents,
// so ascending index order is a topological order and the backward sweep is
// a single reverse iteration. Adjoints are accumulated symbolically, so the
// result is a derivative AST equivalent to the forward-mode one.

type nodeKind int

const (
	kindConst nodeKind = iota
	kindVar
	kindBinary
	kindUnary
	kindCall
)

type graphNode struct {
	kind nodeKind
	op   expr.BinaryOp
	fn   expr.Func
	name string    // kindVar
	orig expr.Node // the subexpression this node computes
	args [2]int    // operand indices; unary and call use args[0]
}

type graph struct {
	nodes []graphNode
}

// push appends the subtree rooted at n, returning its arena index.
func (g *graph) push(n expr.Node) (int, error) {
	gn := graphNode{orig: n}

	switch t := n.(type) {
	case *expr.Constant:
		gn.kind = kindConst

	case *expr.Variable:
		gn.kind = kindVar
		gn.name = t.Name

	case *expr.Binary:
		l, err := g.push(t.Left)
		if err != nil {
			return 0, err
		}
		r, err := g.push(t.Right)
		if err != nil {
			return 0, err
		}
		if t.Op == expr.OpDiv && isZero(t.Right) {
			return 0, &Error{Kind: DivisionByZeroSymbolic}
		}
		gn.kind = kindBinary
		gn.op = t.Op
		gn.args = [2]int{l, r}

	case *expr.Unary:
		a, err := g.push(t.Operand)
		if err != nil {
			return 0, err
		}
		gn.kind = kindUnary
		gn.args = [2]int{a, a}

	case *expr.Call:
		a, err := g.push(t.Arg)
		if err != nil {
			return 0, err
		}
		gn.kind = kindCall
		gn.fn = t.Fn
		gn.args = [2]int{a, a}

	default:
		return 0, &Error{Kind: UnsupportedFunction, Detail: "unknown node"}
	}

	g.nodes = append(g.nodes, gn)
	return len(g.nodes) - 1, nil
}

func reverse(ast expr.Node, variable string) (expr.Node, error) {
	g := &graph{}
	root, err := g.push(ast)
	if err != nil {
		return nil, err
	}

	// adjoint[i] is d(output)/d(node i), nil until gradient reaches i.
	adjoint := make([]expr.Node, len(g.nodes))
	adjoint[root] = konst(1)

	accumulate := func(idx int, contribution expr.Node) {
		// Constants absorb no gradient; skipping them keeps dead ln/pow
		// partials out of the arena sweep entirely.
		if g.nodes[idx].kind == kindConst {
			return
		}
		if adjoint[idx] == nil {
			adjoint[idx] = contribution
			return
		}
		adjoint[idx] = add(adjoint[idx], contribution)
	}

	for i := len(g.nodes) - 1; i >= 0; i-- {
		a := adjoint[i]
		if a == nil {
			continue
		}
		n := g.nodes[i]

		switch n.kind {
		case kindBinary:
			l, r := n.args[0], n.args[1]
			lx, rx := g.nodes[l].orig, g.nodes[r].orig
			switch n.op {
			case expr.OpAdd:
				accumulate(l, a)
				accumulate(r, a)
			case expr.OpSub:
				accumulate(l, a)
				accumulate(r, neg(a))
			case expr.OpMul:
				accumulate(l, mul(a, rx))
				accumulate(r, mul(a, lx))
			case expr.OpDiv:
				accumulate(l, div(a, rx))
				accumulate(r, neg(div(mul(a, lx), mul(rx, rx))))
			case expr.OpPow:
				// d(l^r)/dl = r*l^(r-1); d(l^r)/dr = l^r * ln(l).
				accumulate(l, mul(a, mul(rx, pow(lx, sub(rx, konst(1))))))
				accumulate(r, mul(a, mul(pow(lx, rx), call(expr.FuncLog, lx))))
			}

		case kindUnary:
			accumulate(n.args[0], neg(a))

		case kindCall:
			argIdx := n.args[0]
			partial, err := callPartial(n.fn, g.nodes[argIdx].orig)
			if err != nil {
				return nil, err
			}
			accumulate(argIdx, mul(a, partial))
		}
	}

	// The derivative is the accumulated adjoint over every leaf of the
	// requested variable.
	var result expr.Node = konst(0)
	for i, n := range g.nodes {
		if n.kind == kindVar && n.name == variable && adjoint[i] != nil {
			result = add(result, adjoint[i])
		}
	}
	return result, nil
}

// callPartial is the derivative table shared with forward mode: the partial
// of fn(arg) with respect to arg.
func callPartial(fn expr.Func, arg expr.Node) (expr.Node, error) {
	switch fn {
	case expr.FuncSin:
		return call(expr.FuncCos, arg), nil
	case expr.FuncCos:
		return neg(call(expr.FuncSin, arg)), nil
	case expr.FuncTan:
		c := call(expr.FuncCos, arg)
		return div(konst(1), mul(c, c)), nil
	case expr.FuncExp:
		return call(expr.FuncExp, arg), nil
	case expr.FuncLog:
		return div(konst(1), arg), nil
	case expr.FuncSqrt:
		return div(konst(1), mul(konst(2), call(expr.FuncSqrt, arg))), nil
	}
	return nil, &Error{Kind: UnsupportedFunction, Detail: fn.String()}
}
