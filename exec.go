// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package einops

import (
	"fmt"
	"sync"

	"github.com/gomlx/einops/pkg/core/shapes"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultMaxCache is the default number of resolved plans an Exec holds,
// one per distinct input shape. See Exec.SetMaxCache.
const DefaultMaxCache = 32

// Exec applies one rearrangement pattern repeatedly: the pattern is
// parsed and validated once, at construction, and the plan resolved for
// each input shape is cached, so calling it again with the same shape
// skips resolution entirely.
//
// Exec is safe for concurrent use.
type Exec[T any] struct {
	backend  Backend[T]
	expr     *expression
	bindings shapes.AxisBindings

	mu       sync.Mutex
	plans    map[string]*plan
	maxCache int
}

// NewExec parses and validates the pattern and returns an Exec that
// applies it through the given backend. The axis bindings are merged
// and fixed for the lifetime of the Exec.
//
// All pattern errors surface here; Exec.Call can only fail on errors
// that depend on the input shape.
func NewExec[T any](backend Backend[T], pattern string, axes ...shapes.AxisBindings) (*Exec[T], error) {
	bindings, err := mergeBindings(axes)
	if err != nil {
		return nil, errors.WithMessagef(err, "einops.NewExec(%q)", pattern)
	}
	expr, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}
	if err = newRegistry(expr, bindings).validate(expr); err != nil {
		return nil, err
	}
	return &Exec[T]{
		backend:  backend,
		expr:     expr,
		bindings: bindings,
		plans:    make(map[string]*plan),
		maxCache: DefaultMaxCache,
	}, nil
}

// MustNewExec is like NewExec, but panics on error.
func MustNewExec[T any](backend Backend[T], pattern string, axes ...shapes.AxisBindings) *Exec[T] {
	return must.M1(NewExec(backend, pattern, axes...))
}

// SetMaxCache changes how many resolved plans are kept, one per
// distinct input shape. Use -1 for unlimited. When the cache is full,
// new shapes are still resolved, just not cached. It returns the Exec,
// so it can be chained after NewExec.
func (e *Exec[T]) SetMaxCache(n int) *Exec[T] {
	e.mu.Lock()
	e.maxCache = n
	e.mu.Unlock()
	return e
}

// Pattern returns the pattern this Exec applies.
func (e *Exec[T]) Pattern() string { return e.expr.pattern }

// String implements fmt.Stringer.
func (e *Exec[T]) String() string { return fmt.Sprintf("einops.Exec(%q)", e.expr.pattern) }

// Call rearranges x according to the Exec's pattern.
func (e *Exec[T]) Call(x T) (T, error) {
	p, err := e.planFor(e.backend.Shape(x).Dimensions)
	if err != nil {
		var zero T
		return zero, err
	}
	return execute(e.backend, p, x)
}

func (e *Exec[T]) planFor(dims []int) (*plan, error) {
	key := fmt.Sprint(dims)
	e.mu.Lock()
	p := e.plans[key]
	e.mu.Unlock()
	if p != nil {
		return p, nil
	}

	p, err := resolve(e.expr, dims, e.bindings)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cached := e.plans[key]; cached != nil {
		// Another goroutine resolved the same shape first.
		return cached, nil
	}
	if e.maxCache < 0 || len(e.plans) < e.maxCache {
		e.plans[key] = p
	} else {
		klog.Warningf("%s: plan cache is full (%d shapes seen), resolving without caching; raise the limit with SetMaxCache", e, len(e.plans))
	}
	return p, nil
}

// cachedPlans returns how many plans are currently cached.
func (e *Exec[T]) cachedPlans() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.plans)
}
