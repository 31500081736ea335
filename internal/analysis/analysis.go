// Package analysis implements the probes outer layers run against the
// pipeline: one-shot evaluation, a repeated-invocation performance probe, a
// CSV plot stream and a fixed-point stability check. It talks to the
// engine only through the Differentiate / EvaluateDerivative contract.
package analysis

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/symjit/symjit/internal/diff"
	"github.com/symjit/symjit/internal/engine"
	"github.com/symjit/symjit/internal/number"
)

// Request is the external differentiation request.
type Request struct {
	Expression string
	Variable   string
	Mode       diff.Mode
}

// Response is the successful evaluation result.
type Response struct {
	DerivativeValue float64
	ErrorEstimate   float64
}

// Evaluate runs one request through the engine and evaluates the
// derivative at x.
func Evaluate(e *engine.Engine, req Request, x float64) (Response, error) {
	e.SetMode(req.Mode)
	handle, err := e.Differentiate(req.Expression, req.Variable)
	if err != nil {
		return Response{}, err
	}
	out, err := e.EvaluateDerivative(handle, number.FromFloat64(x))
	if err != nil {
		return Response{}, err
	}
	return Response{DerivativeValue: out.Float64(), ErrorEstimate: out.ErrorEstimate()}, nil
}

// PerformanceIterations is how many times the performance probe invokes
// the compiled derivative.
const PerformanceIterations = 50

// PerformanceResult summarizes a performance probe run.
type PerformanceResult struct {
	Iterations int
	Total      time.Duration
	Mean       time.Duration
}

// PerformanceProbe evaluates the derivative behind handle repeatedly at x
// and reports wall-clock timings. Compilation cost is excluded: the handle
// must already exist.
func PerformanceProbe(e *engine.Engine, handle string, x float64) (PerformanceResult, error) {
	arg := number.FromFloat64(x)
	start := time.Now()
	for i := 0; i < PerformanceIterations; i++ {
		if _, err := e.EvaluateDerivative(handle, arg); err != nil {
			return PerformanceResult{}, err
		}
	}
	total := time.Since(start)
	return PerformanceResult{
		Iterations: PerformanceIterations,
		Total:      total,
		Mean:       total / PerformanceIterations,
	}, nil
}

// Plot sampling grid: 21 evenly spaced points from -5.0 to 5.0.
const (
	plotFrom  = -5.0
	plotTo    = 5.0
	plotStep  = 0.5
	plotCount = 21
)

// PlotCSV streams the derivative samples as CSV:
//
//	x,derivative
//	-5,<value>
//	-4.5,<value>
//	...
func PlotCSV(e *engine.Engine, handle string, w io.Writer) error {
	if _, err := io.WriteString(w, "x,derivative\n"); err != nil {
		return err
	}
	for i := 0; i < plotCount; i++ {
		x := plotFrom + plotStep*float64(i)
		out, err := e.EvaluateDerivative(handle, number.FromFloat64(x))
		if err != nil {
			return err
		}
		line := formatCoord(x) + "," + formatCoord(out.Float64()) + "\n"
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// stabilityPoints are the fixed probe points, in report order.
var stabilityPoints = [4]float64{0.0, 1.0, -1.0, 100.0}

// StabilityResult reports the first probe point (if any) whose derivative
// is NaN or infinite.
type StabilityResult struct {
	Unstable bool
	At       float64
	Value    float64
}

func (r StabilityResult) String() string {
	if !r.Unstable {
		return "stable at all probe points"
	}
	return fmt.Sprintf("non-finite derivative %v at x=%v", r.Value, r.At)
}

// StabilityProbe evaluates the derivative at {0, 1, -1, 100} and reports
// the first non-finite result. A non-finite value is a finding, not an
// error; evaluation errors (stale handle, trap) are returned as errors.
func StabilityProbe(e *engine.Engine, handle string) (StabilityResult, error) {
	for _, x := range stabilityPoints {
		out, err := e.EvaluateDerivative(handle, number.FromFloat64(x))
		if err != nil {
			return StabilityResult{}, err
		}
		if !out.IsFinite() {
			return StabilityResult{Unstable: true, At: x, Value: out.Float64()}, nil
		}
	}
	return StabilityResult{}, nil
}
