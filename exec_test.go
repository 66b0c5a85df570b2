// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package einops

import (
	"sync"
	"testing"

	"github.com/gomlx/einops/pkg/core/shapes"
	"github.com/gomlx/einops/pkg/core/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecErrors(t *testing.T) {
	_, err := NewExec(TensorBackend(), "a b c")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPatternSyntax)

	_, err = NewExec(TensorBackend(), "a b -> a")
	assert.ErrorIs(t, err, ErrUnusedAxis)

	_, err = NewExec(TensorBackend(), "a -> a k")
	assert.ErrorIs(t, err, ErrUndeclaredAxis)

	// The binding satisfies the new output axis.
	_, err = NewExec(TensorBackend(), "a -> a k", shapes.AxisBindings{"k": 2})
	assert.NoError(t, err)

	_, err = NewExec(TensorBackend(), "a -> a k", shapes.AxisBindings{"k": 2}, shapes.AxisBindings{"k": 3})
	require.Error(t, err)
	assert.ErrorContains(t, err, "conflicting sizes")
}

func TestExecPatternAndString(t *testing.T) {
	e := MustNewExec(TensorBackend(), "b h w c -> b c h w")
	assert.Equal(t, "b h w c -> b c h w", e.Pattern())
	assert.Equal(t, `einops.Exec("b h w c -> b c h w")`, e.String())
}

func TestExecTensors(t *testing.T) {
	e := MustNewExec(TensorBackend(), "h w -> w h")
	x := tensors.FromFlatDataAndDimensions([]float32{0, 1, 2, 3, 4, 5}, 2, 3)
	y, err := e.Call(x)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, y.Shape().Dimensions)
	assert.Equal(t, []float32{0, 3, 1, 4, 2, 5}, tensors.ConstFlatData[float32](y))
}

func TestExecCaching(t *testing.T) {
	backend := &traceBackend{}
	e := MustNewExec[traceArray](backend, "h w -> w h")

	_, err := e.Call(traceArray{dims: []int{2, 3}})
	require.NoError(t, err)
	assert.Equal(t, 1, e.cachedPlans())

	// Same shape again: the cached plan is reused.
	e.mu.Lock()
	before := e.plans["[2 3]"]
	e.mu.Unlock()
	require.NotNil(t, before)
	_, err = e.Call(traceArray{dims: []int{2, 3}})
	require.NoError(t, err)
	assert.Equal(t, 1, e.cachedPlans())
	e.mu.Lock()
	after := e.plans["[2 3]"]
	e.mu.Unlock()
	assert.Same(t, before, after)

	// A new shape resolves a second plan.
	_, err = e.Call(traceArray{dims: []int{4, 5}})
	require.NoError(t, err)
	assert.Equal(t, 2, e.cachedPlans())
}

func TestExecMaxCache(t *testing.T) {
	backend := &traceBackend{}
	e := MustNewExec[traceArray](backend, "a ... -> ... a").SetMaxCache(2)
	for _, dims := range [][]int{{2}, {2, 3}, {2, 3, 4}, {5}} {
		result, err := e.Call(traceArray{dims: dims})
		require.NoError(t, err)
		assert.Len(t, result.dims, len(dims))
	}
	// Shapes beyond the limit are still rearranged, just not cached.
	assert.Equal(t, 2, e.cachedPlans())

	e.SetMaxCache(-1)
	_, err := e.Call(traceArray{dims: []int{7, 8}})
	require.NoError(t, err)
	assert.Equal(t, 3, e.cachedPlans())
}

func TestExecCallError(t *testing.T) {
	e := MustNewExec[traceArray](&traceBackend{}, "a b -> b a")
	_, err := e.Call(traceArray{dims: []int{2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRankMismatch)
	// Failed resolutions are not cached.
	assert.Equal(t, 0, e.cachedPlans())
}

func TestExecConcurrent(t *testing.T) {
	e := MustNewExec(TensorBackend(), "b h w -> b (h w)")
	var wg sync.WaitGroup
	for ii := 0; ii < 8; ii++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for jj := 0; jj < 25; jj++ {
				batch := 1 + (seed+jj)%3
				x := tensors.FromScalarAndDimensions(float32(seed), batch, 2, 3)
				y, err := e.Call(x)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, []int{batch, 6}, y.Shape().Dimensions)
			}
		}(ii)
	}
	wg.Wait()
	assert.Equal(t, 3, e.cachedPlans())
}
