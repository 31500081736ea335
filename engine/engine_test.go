package engine_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symjit/symjit/diff"
	"github.com/symjit/symjit/engine"
	"github.com/symjit/symjit/number"
)

// TestPipeline_EndToEnd exercises the whole public surface the way an
// outer layer would: differentiate once, evaluate repeatedly, probe.
func TestPipeline_EndToEnd(t *testing.T) {
	eng := engine.New(engine.Config{Mode: diff.Forward})
	defer eng.Close()

	handle, err := eng.Differentiate("x^2 - cos(x)", "x")
	require.NoError(t, err)

	out, err := eng.EvaluateDerivative(handle, number.FromFloat64(1))
	require.NoError(t, err)
	assert.InDelta(t, 2+math.Sin(1), out.Float64(), 1e-9)

	var csv strings.Builder
	require.NoError(t, engine.PlotCSV(eng, handle, &csv))
	assert.True(t, strings.HasPrefix(csv.String(), "x,derivative\n-5,"))

	stability, err := engine.StabilityProbe(eng, handle)
	require.NoError(t, err)
	assert.False(t, stability.Unstable)

	perf, err := engine.PerformanceProbe(eng, handle, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 50, perf.Iterations)

	assert.EqualValues(t, 1, eng.CompileCount(),
		"every call above reuses the single compilation")
}

func TestRequestResponseContract(t *testing.T) {
	eng := engine.New(engine.Config{})
	defer eng.Close()

	resp, err := engine.Evaluate(eng, engine.Request{
		Expression: "sin(x^2)",
		Variable:   "x",
		Mode:       diff.Reverse,
	}, 1.5)
	require.NoError(t, err)
	assert.InDelta(t, math.Cos(2.25)*3, resp.DerivativeValue, 1e-9)
	assert.Greater(t, resp.ErrorEstimate, 0.0)
}
