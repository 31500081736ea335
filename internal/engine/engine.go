// Package engine wires the differentiation pipeline end to end: parse,
// differentiate, emit, compile, cache, evaluate. An Engine is an explicit
// context object owned by the caller; there is no package-level state. All
// calls are synchronous on the caller's goroutine, and compilation is the
// one step with non-trivial latency, so interactive callers offload
// Differentiate to a worker of their own.
package engine

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/xyproto/env/v2"

	"github.com/symjit/symjit/internal/cache"
	"github.com/symjit/symjit/internal/codegen"
	"github.com/symjit/symjit/internal/diff"
	"github.com/symjit/symjit/internal/expr"
	"github.com/symjit/symjit/internal/jit"
	"github.com/symjit/symjit/internal/number"
)

// DefaultPromoteThreshold is the accumulated-error bound past which results
// are promoted to the Arbitrary representation.
const DefaultPromoteThreshold = 1e-6

var machineEpsilon = math.Nextafter(1, 2) - 1

// Config controls an Engine. The zero value is usable: forward mode, the
// cache's default capacity, DefaultPromoteThreshold and the number
// package's default precision.
type Config struct {
	// Mode selects the differentiation strategy for new requests.
	Mode diff.Mode
	// CacheCapacity bounds the function cache (0 = unbounded, negative =
	// cache.DefaultCapacity).
	CacheCapacity int
	// PromoteThreshold is the error estimate past which evaluation
	// results switch to the Arbitrary representation (0 = default).
	PromoteThreshold float64
	// Precision is the Arbitrary mantissa width in bits (0 = default).
	Precision uint
}

// ConfigFromEnv reads configuration from SYMJIT_MODE and SYMJIT_CACHE_SIZE,
// falling back to the given defaults for everything else.
func ConfigFromEnv() Config {
	return Config{
		Mode:          diff.ParseMode(env.Str("SYMJIT_MODE", "forward")),
		CacheCapacity: env.Int("SYMJIT_CACHE_SIZE", cache.DefaultCapacity),
	}
}

// Engine runs the pipeline. Safe for concurrent use: the cache serializes
// compilation and the handle table is guarded here.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	cache   *cache.Cache
	handles map[string]handleInfo
	closed  bool
}

type handleInfo struct {
	fingerprint string
	source      string
}

// New creates an Engine with the given configuration.
func New(cfg Config) *Engine {
	if cfg.PromoteThreshold == 0 {
		cfg.PromoteThreshold = DefaultPromoteThreshold
	}
	if cfg.CacheCapacity < 0 {
		cfg.CacheCapacity = cache.DefaultCapacity
	}
	return &Engine{
		cfg:     cfg,
		cache:   cache.New(cfg.CacheCapacity),
		handles: make(map[string]handleInfo),
	}
}

// Mode returns the active differentiation mode.
func (e *Engine) Mode() diff.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Mode
}

// SetMode switches the strategy for subsequent Differentiate calls. Cached
// entries embed the mode in their fingerprint, so entries compiled under
// the other mode stay valid.
func (e *Engine) SetMode(m diff.Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Mode = m
}

// Differentiate runs expression text through parse, differentiate, emit and
// compile, and returns a handle for evaluating the derivative. The first
// failing stage aborts the rest and its error is returned unwrapped inside
// the stage prefix; nothing partial is retained. Identical requests (same
// normalized expression, variable and mode) reuse the cached compilation.
func (e *Engine) Differentiate(expression, variable string) (string, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return "", &EvalError{Kind: NotFound, Handle: expression}
	}
	mode := e.cfg.Mode
	e.mu.Unlock()

	ast, err := expr.Parse(expression, variable)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}

	derivative, err := diff.Differentiate(ast, variable, mode)
	if err != nil {
		return "", fmt.Errorf("differentiate: %w", err)
	}

	fp := cache.Fingerprint(ast.Normalize(), variable, mode.String())
	handle := "ad_" + fp[:12]
	source := codegen.Emit(derivative, handle, variable)

	if _, err := e.cache.GetOrCompile(fp, source, handle); err != nil {
		return "", fmt.Errorf("compile: %w", err)
	}

	e.mu.Lock()
	e.handles[handle] = handleInfo{fingerprint: fp, source: source}
	e.mu.Unlock()
	return handle, nil
}

// Source returns the emitted source for a handle, for display and
// debugging.
func (e *Engine) Source(handle string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	info, ok := e.handles[handle]
	return info.source, ok
}

// CompileCount reports how many JIT compilations have run; repeated
// identical requests must not increase it.
func (e *Engine) CompileCount() int64 {
	return e.cache.CompileCount()
}

// EvaluateDerivative invokes the compiled derivative behind handle at x.
// The result carries x's accumulated error plus one machine-epsilon step;
// NaN or infinite results are valid Numbers, not errors. A handle that was
// never issued, was evicted, or outlived Close fails with NotFound.
func (e *Engine) EvaluateDerivative(handle string, x number.Number) (number.Number, error) {
	e.mu.Lock()
	info, ok := e.handles[handle]
	closed := e.closed
	e.mu.Unlock()
	if !ok || closed {
		return number.Number{}, &EvalError{Kind: NotFound, Handle: handle}
	}

	fn, ok := e.cache.Get(info.fingerprint)
	if !ok {
		return number.Number{}, &EvalError{Kind: NotFound, Handle: handle}
	}

	raw, err := fn.Invoke(x.Float64())
	if errors.Is(err, jit.ErrClosed) {
		// Evicted between lookup and invoke; the handle is stale.
		return number.Number{}, &EvalError{Kind: NotFound, Handle: handle}
	}
	if err != nil {
		return number.Number{}, &EvalError{Kind: NativeTrap, Handle: handle}
	}

	est := x.ErrorEstimate() + math.Abs(raw)*machineEpsilon
	out := number.FromFloat64(raw).WithErrorEstimate(est)
	if out.IsFinite() && est > e.cfg.PromoteThreshold {
		out = out.Promote(e.cfg.Precision)
	}
	return out, nil
}

// Close tears the engine down: the handle table empties first, then the
// cache clears and closes the JIT context. No entry point can be reached
// once Close returns, which is what makes the teardown order safe.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.handles = make(map[string]handleInfo)
	e.mu.Unlock()
	e.cache.Close()
}
