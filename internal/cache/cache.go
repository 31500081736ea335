// Package cache memoizes compiled entry points by fingerprint, guaranteeing
// at most one compilation per fingerprint even under concurrent callers.
//
// The cache owns the JIT context outright: compilation is serialized
// through it (the backend forbids concurrent compiles on one context) and
// Close tears the pair down in one path, table first, so no cached entry
// point can outlive the code pages it references.
package cache

import (
	"container/list"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/symjit/symjit/internal/jit"
)

// DefaultCapacity bounds the cache when the caller does not choose one.
const DefaultCapacity = 128

// Cache is a bounded LRU over compiled functions. Capacity 0 means
// unbounded; eviction releases the victim's program slot in the context.
type Cache struct {
	mu       sync.Mutex
	ctx      *jit.Context
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	group    singleflight.Group
	compiles int64
}

type entry struct {
	fingerprint string
	fn          *jit.CompiledFunction
}

// New creates a cache owning a fresh JIT context. capacity < 0 selects
// DefaultCapacity.
func New(capacity int) *Cache {
	if capacity < 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		ctx:      jit.NewContext(),
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// GetOrCompile returns the compiled function for fingerprint, compiling
// source at most once per fingerprint. Concurrent callers for the same
// fingerprint converge on a single compilation; a failed compilation is not
// cached, so a later call may retry.
func (c *Cache) GetOrCompile(fingerprint, source, funcName string) (*jit.CompiledFunction, error) {
	if fn, ok := c.lookup(fingerprint); ok {
		return fn, nil
	}

	v, err, _ := c.group.Do(fingerprint, func() (interface{}, error) {
		// A racing caller may have finished compiling between the lookup
		// and the singleflight slot being granted.
		if fn, ok := c.lookup(fingerprint); ok {
			return fn, nil
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		fn, err := c.ctx.Compile(source, funcName)
		if err != nil {
			return nil, err
		}
		c.compiles++
		c.insertLocked(fingerprint, fn)
		return fn, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*jit.CompiledFunction), nil
}

// Get returns the cached function for fingerprint without compiling.
func (c *Cache) Get(fingerprint string) (*jit.CompiledFunction, bool) {
	return c.lookup(fingerprint)
}

func (c *Cache) lookup(fingerprint string) (*jit.CompiledFunction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).fn, true
}

func (c *Cache) insertLocked(fingerprint string, fn *jit.CompiledFunction) {
	c.entries[fingerprint] = c.order.PushFront(&entry{fingerprint: fingerprint, fn: fn})
	if c.capacity > 0 && c.order.Len() > c.capacity {
		victim := c.order.Back()
		ve := victim.Value.(*entry)
		c.order.Remove(victim)
		delete(c.entries, ve.fingerprint)
		ve.fn.Release()
	}
}

// CompileCount reports how many compilations have actually run. Tests use
// it to observe the compile-once guarantee.
func (c *Cache) CompileCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compiles
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Close empties the table and then closes the JIT context. The order
// matters: once the table is gone no lookup can hand out an entry point,
// so closing the context cannot strand a caller.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order = list.New()
	c.ctx.Close()
}
