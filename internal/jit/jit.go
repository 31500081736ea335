// Package jit compiles emitted derivative source into an in-memory
// executable program and returns a callable entry point. Nothing touches
// persistent storage; a program is a compact instruction stream held in its
// Context's arena and executed by a small stack machine, with call symbols
// resolved against the host math library at compile time.
//
// A Context is NOT safe for concurrent compilation by multiple callers.
// This is a hard constraint of the backend, not a bug: callers either
// serialize compilation through one Context (the function cache does this)
// or own independent Context instances. Invoking already-compiled entry
// points is read-only and may happen from any goroutine.
package jit

import (
	"errors"
	"time"
)

// ErrClosed is returned when compiling on or invoking through a Context
// that has been closed.
var ErrClosed = errors.New("jit: context is closed")

// Context owns every program it compiles. Entry points returned by Compile
// are non-owning handles into the Context's arena: they are valid until
// Close, and the owner of the Context must guarantee no entry point is used
// after that. The function cache pairs with a Context under one owner with
// a single teardown path for exactly this reason.
type Context struct {
	programs []*program
	closed   bool
}

// NewContext creates an empty compilation context.
func NewContext() *Context {
	return &Context{}
}

// Compile compiles source and returns the entry point for funcName.
func (c *Context) Compile(source, funcName string) (*CompiledFunction, error) {
	if c.closed {
		return nil, ErrClosed
	}
	prog, err := compile(source, funcName)
	if err != nil {
		return nil, err
	}
	c.programs = append(c.programs, prog)
	return &CompiledFunction{
		Name:       funcName,
		ctx:        c,
		entry:      len(c.programs) - 1,
		CompiledAt: time.Now(),
	}, nil
}

// Close invalidates every entry point compiled by this context. Invoking a
// CompiledFunction afterwards returns ErrClosed rather than touching freed
// state.
func (c *Context) Close() {
	c.closed = true
	c.programs = nil
}

// CompiledFunction is a callable entry point. It does not own the compiled
// code; the Context does.
type CompiledFunction struct {
	// Name is the entry symbol the function was compiled under.
	Name string
	// CompiledAt records when compilation finished.
	CompiledAt time.Time

	ctx   *Context
	entry int
}

// Invoke executes the compiled function with the raw numeric argument.
// NaN or infinite results are valid returns; ErrTrap reports an execution
// fault and ErrClosed a use after Context teardown or Release.
func (f *CompiledFunction) Invoke(x float64) (float64, error) {
	if f.ctx.closed || f.entry >= len(f.ctx.programs) || f.ctx.programs[f.entry] == nil {
		return 0, ErrClosed
	}
	return f.ctx.programs[f.entry].run(x)
}

// Release frees this function's slot in the Context arena. The cache calls
// it on eviction; any handle to the released entry fails with ErrClosed
// from then on.
func (f *CompiledFunction) Release() {
	if f.ctx.closed || f.entry >= len(f.ctx.programs) {
		return
	}
	f.ctx.programs[f.entry] = nil
}
