// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package einops rearranges tensor axes with a small textual pattern
// language, replacing chains of reshape, transpose and broadcast calls
// with one declarative expression.
//
// A pattern has an input side and an output side, separated by "->".
// Each side lists axis names; parentheses group axes that are packed
// together into one dimension, and "..." stands for any number of
// untouched axes:
//
//	// Transpose:
//	einops.Rearrange(x, "h w -> w h")
//
//	// Split one dimension in two (the size of one part must be given):
//	einops.Rearrange(x, "(h w) c -> h w c", shapes.AxisBindings{"h": 32})
//
//	// Merge dimensions, keeping leading batch axes untouched:
//	einops.Rearrange(x, "... h w c -> ... (h w c)")
//
//	// Repeat a new trailing axis 3 times:
//	einops.Rearrange(x, "h w -> h w k", shapes.AxisBindings{"k": 3})
//
// Axis names appearing on both sides move data; names only on the
// output side create repeated axes and need a bound size; names only on
// the input side are an error, as reductions are not supported. Sizes
// of split axes are inferred from the tensor when possible, and checked
// against the bindings always.
//
// Rearrange works on *tensors.Tensor. To apply one pattern many times,
// or to another array type, build an Exec: it parses the pattern once
// and caches the per-shape planning:
//
//	toChannelsFirst := einops.MustNewExec(einops.TensorBackend(), "b h w c -> b c h w")
//	for _, img := range images {
//		out, err := toChannelsFirst.Call(img)
//		...
//	}
//
// Functions return errors that wrap the Err* sentinels of this package,
// so the failure class can be tested with errors.Is.
package einops

import (
	"github.com/gomlx/einops/pkg/core/shapes"
	"github.com/gomlx/einops/pkg/core/tensors"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
)

// Rearrange transposes, splits, merges and repeats the axes of x as
// described by the pattern. The optional axes bindings give the sizes
// that cannot be inferred from x's shape: the parts of split axes and
// the sizes of repeated axes.
//
// The result may share storage with x; in particular, patterns that
// only split or merge axes are metadata-only. Treat tensors as
// immutable or Clone before mutating.
func Rearrange(x *tensors.Tensor, pattern string, axes ...shapes.AxisBindings) (*tensors.Tensor, error) {
	bindings, err := mergeBindings(axes)
	if err != nil {
		return nil, errors.WithMessagef(err, "einops.Rearrange(%q)", pattern)
	}
	expr, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}
	if err = newRegistry(expr, bindings).validate(expr); err != nil {
		return nil, err
	}
	p, err := resolve(expr, x.Shape().Dimensions, bindings)
	if err != nil {
		return nil, err
	}
	return execute(TensorBackend(), p, x)
}

// MustRearrange is like Rearrange, but panics on error.
func MustRearrange(x *tensors.Tensor, pattern string, axes ...shapes.AxisBindings) *tensors.Tensor {
	return must.M1(Rearrange(x, pattern, axes...))
}

func mergeBindings(axes []shapes.AxisBindings) (shapes.AxisBindings, error) {
	if len(axes) == 0 {
		return nil, nil
	}
	merged := axes[0]
	var err error
	for _, more := range axes[1:] {
		merged, err = merged.Merge(more)
		if err != nil {
			return nil, err
		}
	}
	return merged, nil
}
