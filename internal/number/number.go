// Package number provides the tagged numeric value flowing through the
// evaluator. A Number is either Fast, a plain float64 with value semantics
// and no allocation, or Arbitrary, a heap-backed big.Float whose duplication
// is an explicit costed operation. Every arithmetic operation is pure: it
// returns a new Number and updates the accumulated error estimate, which
// never decreases along a chain of operations.
package number

import (
	"math"
	"math/big"
)

// DefaultPrecision is the mantissa width, in bits, of Arbitrary values
// created without an explicit precision.
const DefaultPrecision uint = 128

// machineEpsilon is the fast-path unit roundoff, 2^-52.
var machineEpsilon = math.Nextafter(1, 2) - 1

// Number is the tagged numeric union. The zero value is Fast 0 with a zero
// error estimate.
type Number struct {
	fast   float64
	arb    *big.Float // nil for the Fast variant
	errEst float64
}

// FromFloat64 wraps a float64 as a Fast Number with no accumulated error.
func FromFloat64(v float64) Number {
	return Number{fast: v}
}

// FromBigFloat wraps a big.Float as an Arbitrary Number. The value is
// copied; the caller keeps ownership of v.
func FromBigFloat(v *big.Float) Number {
	return Number{arb: new(big.Float).SetPrec(v.Prec()).Set(v)}
}

// IsArbitrary reports whether the high-precision representation is active.
func (n Number) IsArbitrary() bool {
	return n.arb != nil
}

// ErrorEstimate returns the accumulated floating-point error bound.
func (n Number) ErrorEstimate() float64 {
	return n.errEst
}

// Float64 collapses the value to a float64. For Arbitrary values this
// rounds to the nearest double.
func (n Number) Float64() float64 {
	if n.arb != nil {
		f, _ := n.arb.Float64()
		return f
	}
	return n.fast
}

// Clone duplicates the Number. For Fast values this is a free copy; for
// Arbitrary values it allocates a new big.Float, which is the explicit cost
// the two-tier representation asks callers to pay when sharing.
func (n Number) Clone() Number {
	if n.arb == nil {
		return n
	}
	return Number{arb: new(big.Float).SetPrec(n.arb.Prec()).Set(n.arb), errEst: n.errEst}
}

// Promote converts a Fast value to Arbitrary at the given precision
// (DefaultPrecision if prec is 0). Promoting an Arbitrary value adjusts
// nothing but the precision floor.
func (n Number) Promote(prec uint) Number {
	if prec == 0 {
		prec = DefaultPrecision
	}
	if n.arb != nil {
		if n.arb.Prec() >= prec {
			return n
		}
		return Number{arb: new(big.Float).SetPrec(prec).Set(n.arb), errEst: n.errEst}
	}
	if math.IsNaN(n.fast) || math.IsInf(n.fast, 0) {
		// big.Float cannot hold NaN; non-finite values stay Fast.
		return n
	}
	return Number{arb: new(big.Float).SetPrec(prec).SetFloat64(n.fast), errEst: n.errEst}
}

// WithErrorEstimate returns a copy carrying the given error estimate. The
// estimate is clamped so it can never drop below the current one.
func (n Number) WithErrorEstimate(e float64) Number {
	if e < n.errEst {
		e = n.errEst
	}
	out := n.Clone()
	out.errEst = e
	return out
}

// IsNaN reports whether the value is NaN. Arbitrary values are never NaN.
func (n Number) IsNaN() bool {
	return n.arb == nil && math.IsNaN(n.fast)
}

// IsInf reports whether the value is infinite in either direction.
func (n Number) IsInf() bool {
	if n.arb != nil {
		return n.arb.IsInf()
	}
	return math.IsInf(n.fast, 0)
}

// IsFinite reports whether the value is neither NaN nor infinite.
func (n Number) IsFinite() bool {
	return !n.IsNaN() && !n.IsInf()
}

// Equal compares values exactly within the active representation. NaN
// compares unequal to everything, including itself, and is never conflated
// with infinity; callers who need tolerance compare against ErrorEstimate.
func (n Number) Equal(o Number) bool {
	if n.IsNaN() || o.IsNaN() {
		return false
	}
	if n.arb != nil || o.arb != nil {
		return n.big().Cmp(o.big()) == 0
	}
	return n.fast == o.fast
}

func (n Number) big() *big.Float {
	if n.arb != nil {
		return n.arb
	}
	return new(big.Float).SetPrec(DefaultPrecision).SetFloat64(n.fast)
}
