// Package memo provides request-scoped memoization of idempotent reads.
// A fresh Cache is attached to each incoming request's context; any number
// of call sites asking for the same (function, arguments) pair within that
// request share one result. The cache dies with the request, so it never
// serves stale data across requests.
package memo

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type ctxKey struct{}

type entry struct {
	once  sync.Once
	value any
	err   error
}

// Cache memoizes results for the lifetime of one logical request.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New returns an empty request-scoped cache.
func New() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// With attaches a fresh Cache to ctx.
func With(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, New())
}

// FromContext returns the request's Cache, or nil when none is attached.
func FromContext(ctx context.Context) *Cache {
	c, _ := ctx.Value(ctxKey{}).(*Cache)
	return c
}

// Key derives a memo key from a function name and its arguments.
func Key(fn string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, fn)
	for _, a := range args {
		parts = append(parts, fmt.Sprintf("%v", a))
	}
	return strings.Join(parts, "|")
}

// Do runs fn at most once per key within the cache's lifetime; concurrent
// and subsequent callers for the same key receive the first call's result.
// A nil Cache runs fn directly.
func (c *Cache) Do(key string, fn func() (any, error)) (any, error) {
	if c == nil {
		return fn()
	}
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.value, e.err = fn()
	})
	return e.value, e.err
}
