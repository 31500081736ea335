// Copyright 2025 The symjit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package number provides the public API for the tagged numeric value used
// by the evaluator.
//
// A Number is Fast (a plain float64, freely copyable) or Arbitrary (a
// heap-backed high-precision value whose duplication is an explicit Clone).
// Arithmetic is pure and accumulates an error estimate that never decreases
// along a chain of operations. NaN and infinity are valid payloads checked
// with IsNaN/IsInf/IsFinite, never with naive comparison.
//
// Example:
//
//	a := number.FromFloat64(1.0)
//	b := number.FromFloat64(3.0)
//	q := a.Div(b)
//	fmt.Println(q.Float64(), q.ErrorEstimate())
package number

import (
	"math/big"

	"github.com/symjit/symjit/internal/number"
)

// Number is the tagged numeric union. The zero value is Fast 0.
type Number = number.Number

// DefaultPrecision is the mantissa width, in bits, of Arbitrary values
// created without an explicit precision.
const DefaultPrecision = number.DefaultPrecision

// FromFloat64 wraps a float64 as a Fast Number with no accumulated error.
func FromFloat64(v float64) Number {
	return number.FromFloat64(v)
}

// FromBigFloat wraps a copy of v as an Arbitrary Number.
func FromBigFloat(v *big.Float) Number {
	return number.FromBigFloat(v)
}
