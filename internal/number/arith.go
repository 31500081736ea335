package number

import (
	"math"
	"math/big"
)

// Arithmetic stays on the fast path unless either operand is Arbitrary.
// Each operation charges the result one unit roundoff on top of both
// operands' accumulated error:
//
//	err(result) = err(a) + err(b) + |result| * eps
//
// with eps the fast-path machine epsilon or 2^-prec for the active
// Arbitrary precision. The estimate is monotonically non-decreasing by
// construction.

// Add returns a + b.
func (n Number) Add(o Number) Number {
	return n.binary(o,
		func(a, b float64) float64 { return a + b },
		func(r, a, b *big.Float) { r.Add(a, b) })
}

// Sub returns a - b.
func (n Number) Sub(o Number) Number {
	return n.binary(o,
		func(a, b float64) float64 { return a - b },
		func(r, a, b *big.Float) { r.Sub(a, b) })
}

// Mul returns a * b.
func (n Number) Mul(o Number) Number {
	return n.binary(o,
		func(a, b float64) float64 { return a * b },
		func(r, a, b *big.Float) { r.Mul(a, b) })
}

// Div returns a / b. Division by zero follows IEEE semantics on the fast
// path (Inf or NaN), which the caller inspects via IsFinite; it is not an
// error.
func (n Number) Div(o Number) Number {
	if n.arb != nil || o.arb != nil {
		// big.Float panics on 0/0; route that one case through floats.
		if isBigZero(n.big()) && isBigZero(o.big()) {
			return Number{fast: math.NaN(), errEst: n.errEst + o.errEst}
		}
	}
	return n.binary(o,
		func(a, b float64) float64 { return a / b },
		func(r, a, b *big.Float) { r.Quo(a, b) })
}

// Neg returns -a. Negation is exact and charges no additional error.
func (n Number) Neg() Number {
	if n.arb != nil {
		return Number{arb: new(big.Float).SetPrec(n.arb.Prec()).Neg(n.arb), errEst: n.errEst}
	}
	return Number{fast: -n.fast, errEst: n.errEst}
}

func (n Number) binary(o Number, fastOp func(a, b float64) float64, bigOp func(r, a, b *big.Float)) Number {
	prior := n.errEst + o.errEst

	if n.arb == nil && o.arb == nil {
		r := fastOp(n.fast, o.fast)
		return Number{fast: r, errEst: prior + math.Abs(r)*machineEpsilon}
	}

	// Mixed operands promote the Fast side to the Arbitrary precision in
	// play. Non-finite values stay on the fast path: big.Float cannot hold
	// NaN and raises ErrNaN for Inf-Inf style operands.
	if !n.IsFinite() || !o.IsFinite() {
		r := fastOp(n.Float64(), o.Float64())
		return Number{fast: r, errEst: prior + math.Abs(r)*machineEpsilon}
	}

	prec := max(n.prec(), o.prec())
	r := new(big.Float).SetPrec(prec)
	bigOp(r, n.big(), o.big())
	approx, _ := r.Float64()
	return Number{arb: r, errEst: prior + math.Abs(approx)*math.Ldexp(1, -int(prec))}
}

func (n Number) prec() uint {
	if n.arb != nil {
		return n.arb.Prec()
	}
	return 53
}

func isBigZero(v *big.Float) bool {
	return v.Sign() == 0 && !v.IsInf()
}
