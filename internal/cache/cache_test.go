package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = "double f(double x) { return ((2 * x) + sin(x)); }\n"

func TestFingerprint(t *testing.T) {
	a := Fingerprint("((x^2)-cos(x))", "x", "forward")
	b := Fingerprint("((x^2)-cos(x))", "x", "forward")
	assert.Equal(t, a, b, "fingerprints are deterministic")
	assert.Len(t, a, 64)

	// Every component participates in the key.
	assert.NotEqual(t, a, Fingerprint("((x^2)-cos(x))", "x", "reverse"))
	assert.NotEqual(t, a, Fingerprint("((x^2)-cos(x))", "y", "forward"))
	assert.NotEqual(t, a, Fingerprint("((x^2)+cos(x))", "x", "forward"))

	// The separator prevents boundary ambiguity between components.
	assert.NotEqual(t, Fingerprint("ab", "c", "m"), Fingerprint("a", "bc", "m"))
}

func TestGetOrCompile_CompilesOnce(t *testing.T) {
	c := New(0)
	defer c.Close()

	fp := Fingerprint("expr", "x", "forward")

	first, err := c.GetOrCompile(fp, testSource, "f")
	require.NoError(t, err)
	require.EqualValues(t, 1, c.CompileCount())

	second, err := c.GetOrCompile(fp, testSource, "f")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.EqualValues(t, 1, c.CompileCount(), "second identical request must not compile")
}

func TestGetOrCompile_ConcurrentSameFingerprint(t *testing.T) {
	c := New(0)
	defer c.Close()

	fp := Fingerprint("expr", "x", "forward")

	const callers = 32
	var wg sync.WaitGroup
	results := make([]interface{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fn, err := c.GetOrCompile(fp, testSource, "f")
			assert.NoError(t, err)
			results[i] = fn
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, c.CompileCount(), "concurrent callers converge on one compilation")
	for i := 1; i < callers; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestGetOrCompile_DistinctFingerprints(t *testing.T) {
	c := New(0)
	defer c.Close()

	for i := 0; i < 5; i++ {
		fp := Fingerprint(fmt.Sprintf("expr%d", i), "x", "forward")
		_, err := c.GetOrCompile(fp, testSource, "f")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 5, c.CompileCount())
	assert.Equal(t, 5, c.Len())
}

func TestGetOrCompile_FailureIsNotCached(t *testing.T) {
	c := New(0)
	defer c.Close()

	fp := Fingerprint("bad", "x", "forward")
	_, err := c.GetOrCompile(fp, "double g(double x) { return x; }\n", "f")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	// A corrected retry under the same fingerprint may compile.
	_, err = c.GetOrCompile(fp, testSource, "f")
	require.NoError(t, err)
	assert.EqualValues(t, 1, c.CompileCount())
}

func TestEviction_LRU(t *testing.T) {
	c := New(2)
	defer c.Close()

	fpA := Fingerprint("a", "x", "forward")
	fpB := Fingerprint("b", "x", "forward")
	fpC := Fingerprint("c", "x", "forward")

	fnA, err := c.GetOrCompile(fpA, testSource, "f")
	require.NoError(t, err)
	_, err = c.GetOrCompile(fpB, testSource, "f")
	require.NoError(t, err)

	// Touch A so B becomes the LRU victim.
	_, ok := c.Get(fpA)
	require.True(t, ok)

	_, err = c.GetOrCompile(fpC, testSource, "f")
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	_, ok = c.Get(fpB)
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.Get(fpA)
	assert.True(t, ok)

	// A's entry point still works; the evicted program slot is released,
	// not the whole context.
	_, err = fnA.Invoke(1)
	assert.NoError(t, err)

	// Re-requesting the evicted fingerprint recompiles.
	_, err = c.GetOrCompile(fpB, testSource, "f")
	require.NoError(t, err)
	assert.EqualValues(t, 4, c.CompileCount())
}

func TestClose(t *testing.T) {
	c := New(0)
	fp := Fingerprint("expr", "x", "forward")
	fn, err := c.GetOrCompile(fp, testSource, "f")
	require.NoError(t, err)

	c.Close()

	_, ok := c.Get(fp)
	assert.False(t, ok, "table empties before the context closes")

	_, err = fn.Invoke(1)
	assert.Error(t, err, "entry points are invalid after Close")
}
