// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package einops

import (
	"github.com/gomlx/einops/pkg/core/shapes"
	"github.com/gomlx/einops/pkg/core/tensors"
)

// Backend provides the four array operations a rearrangement is built
// from, for some array type T. Implementations for types other than
// *tensors.Tensor (device arrays, shape trackers in tests) plug into
// Exec unchanged.
//
// Operations may return the input array itself when they are no-ops;
// results may share storage with their input.
type Backend[T any] interface {
	// Shape of the array.
	Shape(x T) shapes.Shape
	// Reshape to the given dimensions, preserving the number of elements
	// and the row-major order of the data.
	Reshape(x T, dimensions ...int) (T, error)
	// Transpose reorders axes: axis ii of the result is axis
	// permutation[ii] of x.
	Transpose(x T, permutation ...int) (T, error)
	// BroadcastToDims repeats size-1 axes up to the given dimensions.
	BroadcastToDims(x T, dimensions ...int) (T, error)
}

type tensorBackend struct{}

// TensorBackend returns the Backend for local in-memory tensors, the
// one Rearrange uses. Combine it with NewExec to reuse a pattern.
func TensorBackend() Backend[*tensors.Tensor] { return tensorBackend{} }

func (tensorBackend) Shape(x *tensors.Tensor) shapes.Shape { return x.Shape() }

func (tensorBackend) Reshape(x *tensors.Tensor, dimensions ...int) (*tensors.Tensor, error) {
	return x.Reshape(dimensions...)
}

func (tensorBackend) Transpose(x *tensors.Tensor, permutation ...int) (*tensors.Tensor, error) {
	return x.Transpose(permutation...)
}

func (tensorBackend) BroadcastToDims(x *tensors.Tensor, dimensions ...int) (*tensors.Tensor, error) {
	return x.BroadcastToDims(dimensions...)
}
