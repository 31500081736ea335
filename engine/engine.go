// Copyright 2025 The symjit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package engine provides the public API for the differentiation pipeline.
//
// An Engine owns the whole chain — parser, differentiator, code emitter,
// JIT backend and function cache — behind two calls: Differentiate returns
// a handle for a compiled derivative, and EvaluateDerivative invokes it.
// Repeated requests for the same (expression, variable, mode) are served
// from the cache without recompiling.
//
// Example:
//
//	eng := engine.New(engine.Config{})
//	defer eng.Close()
//
//	handle, err := eng.Differentiate("x^2 - cos(x)", "x")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := eng.EvaluateDerivative(handle, number.FromFloat64(1.0))
//	// out.Float64() ≈ 2 + sin(1)
//
// All calls are synchronous; compilation takes non-trivial wall-clock time
// and latency-sensitive callers offload it to a worker of their own. The
// Engine is safe for concurrent use.
package engine

import (
	"io"

	"github.com/symjit/symjit/internal/analysis"
	"github.com/symjit/symjit/internal/engine"
)

// Config controls an Engine. The zero value is usable.
type Config = engine.Config

// Engine runs the differentiation pipeline.
type Engine = engine.Engine

// EvalError reports a failed derivative evaluation.
type EvalError = engine.EvalError

// EvalErrorKind classifies evaluation failures.
type EvalErrorKind = engine.EvalErrorKind

// Evaluation error kinds.
const (
	NotFound   = engine.NotFound
	NativeTrap = engine.NativeTrap
)

// DefaultPromoteThreshold is the accumulated-error bound past which
// evaluation results switch to the Arbitrary representation.
const DefaultPromoteThreshold = engine.DefaultPromoteThreshold

// New creates an Engine with the given configuration.
func New(cfg Config) *Engine {
	return engine.New(cfg)
}

// NewFromEnv creates an Engine configured from the environment
// (SYMJIT_MODE, SYMJIT_CACHE_SIZE).
func NewFromEnv() *Engine {
	return engine.New(engine.ConfigFromEnv())
}

// Request is the external differentiation request.
type Request = analysis.Request

// Response is the successful evaluation result.
type Response = analysis.Response

// Evaluate runs one request through the engine and evaluates the
// derivative at x.
func Evaluate(e *Engine, req Request, x float64) (Response, error) {
	return analysis.Evaluate(e, req, x)
}

// PerformanceResult summarizes a performance probe run.
type PerformanceResult = analysis.PerformanceResult

// PerformanceProbe evaluates the derivative behind handle 50 times at x
// and reports wall-clock timings.
func PerformanceProbe(e *Engine, handle string, x float64) (PerformanceResult, error) {
	return analysis.PerformanceProbe(e, handle, x)
}

// PlotCSV streams 21 derivative samples from -5.0 to 5.0 in steps of 0.5
// as "x,derivative" CSV lines.
func PlotCSV(e *Engine, handle string, w io.Writer) error {
	return analysis.PlotCSV(e, handle, w)
}

// StabilityResult reports the first probe point whose derivative is
// non-finite.
type StabilityResult = analysis.StabilityResult

// StabilityProbe evaluates the derivative at {0, 1, -1, 100} and reports
// the first NaN or infinite result.
func StabilityProbe(e *Engine, handle string) (StabilityResult, error) {
	return analysis.StabilityProbe(e, handle)
}
