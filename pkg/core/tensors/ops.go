// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"slices"

	"github.com/gomlx/einops/pkg/core/dtypes"
	"github.com/gomlx/einops/pkg/core/dtypes/bfloat16"
	"github.com/gomlx/einops/pkg/core/shapes"
	"github.com/gomlx/einops/pkg/support/xslices"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

func checkDimensions(dimensions []int) error {
	for _, dim := range dimensions {
		if dim < 0 {
			return errors.Errorf("dimensions must be non-negative, got %v", dimensions)
		}
	}
	return nil
}

// Reshape returns a Tensor with the same data and the given dimensions,
// which must multiply to the same number of elements. The returned
// Tensor shares flat data with t.
func (t *Tensor) Reshape(dimensions ...int) (*Tensor, error) {
	if err := checkDimensions(dimensions); err != nil {
		return nil, errors.WithMessagef(err, "Reshape(%s)", t.shape)
	}
	newShape := shapes.Make(t.shape.DType, dimensions...)
	if newShape.Size() != t.Size() {
		return nil, errors.Errorf("cannot reshape %s to dimensions %v: it would change the number of elements from %d to %d",
			t.shape, dimensions, t.Size(), newShape.Size())
	}
	return &Tensor{shape: newShape, flat: t.flat}, nil
}

// Transpose returns a Tensor with the axes reordered: axis ii of the
// result is axis permutation[ii] of t. The permutation must mention
// every axis exactly once.
//
// An identity permutation returns t itself.
func (t *Tensor) Transpose(permutation ...int) (*Tensor, error) {
	rank := t.Rank()
	if len(permutation) != rank {
		return nil, errors.Errorf("Transpose of %s requires %d axes in the permutation, got %v",
			t.shape, rank, permutation)
	}
	seen := make([]bool, rank)
	identity := true
	for ii, axis := range permutation {
		if axis < 0 || axis >= rank || seen[axis] {
			return nil, errors.Errorf("Transpose of %s: %v is not a valid permutation", t.shape, permutation)
		}
		seen[axis] = true
		identity = identity && axis == ii
	}
	if identity {
		return t, nil
	}

	newDims := xslices.Map(permutation, func(axis int) int { return t.shape.Dimensions[axis] })
	output := FromShape(shapes.Make(t.shape.DType, newDims...))
	if t.Size() > 0 {
		it := newTransposeIterator(t.shape.Dimensions, permutation)
		transposeData(t, output, it)
	}
	return output, nil
}

// BroadcastToDims returns a Tensor expanded to the given dimensions:
// each axis of t must either match the target dimension or be 1, in
// which case its values are repeated along that axis. A rank-0 Tensor
// broadcasts to any dimensions.
//
// If the dimensions already match, t itself is returned.
func (t *Tensor) BroadcastToDims(dimensions ...int) (*Tensor, error) {
	if err := checkDimensions(dimensions); err != nil {
		return nil, errors.WithMessagef(err, "BroadcastToDims(%s)", t.shape)
	}
	if slices.Equal(t.shape.Dimensions, dimensions) {
		return t, nil
	}
	output := FromShape(shapes.Make(t.shape.DType, dimensions...))
	if t.shape.IsScalar() {
		fillData(output, t)
		return output, nil
	}
	if len(dimensions) != t.Rank() {
		return nil, errors.Errorf("cannot broadcast %s to dimensions %v: ranks differ", t.shape, dimensions)
	}
	for axis, dim := range t.shape.Dimensions {
		if dim != dimensions[axis] && dim != 1 {
			return nil, errors.Errorf("cannot broadcast %s to dimensions %v: axis %d has dimension %d, expected %d or 1",
				t.shape, dimensions, axis, dim, dimensions[axis])
		}
	}
	if output.Size() > 0 {
		bi := newBroadcastIterator(t.shape.Dimensions, dimensions)
		broadcastData(t, output, bi)
	}
	return output, nil
}

func transposeGeneric[T dtypes.Supported](from, to *Tensor, it *transposeIterator) {
	fromFlat := ConstFlatData[T](from)
	toFlat := MutableFlatData[T](to)
	for _, value := range fromFlat {
		toFlat[it.next()] = value
	}
}

func broadcastGeneric[T dtypes.Supported](from, to *Tensor, bi *broadcastIterator) {
	fromFlat := ConstFlatData[T](from)
	toFlat := MutableFlatData[T](to)
	for ii := range toFlat {
		toFlat[ii] = fromFlat[bi.next()]
	}
}

func fillGeneric[T dtypes.Supported](to, scalar *Tensor) {
	xslices.FillSlice(MutableFlatData[T](to), ConstFlatData[T](scalar)[0])
}

func transposeData(from, to *Tensor, it *transposeIterator) {
	switch from.DType() {
	case dtypes.Bool:
		transposeGeneric[bool](from, to, it)
	case dtypes.Int8:
		transposeGeneric[int8](from, to, it)
	case dtypes.Int16:
		transposeGeneric[int16](from, to, it)
	case dtypes.Int32:
		transposeGeneric[int32](from, to, it)
	case dtypes.Int64:
		transposeGeneric[int64](from, to, it)
	case dtypes.Uint8:
		transposeGeneric[uint8](from, to, it)
	case dtypes.Uint16:
		transposeGeneric[uint16](from, to, it)
	case dtypes.Uint32:
		transposeGeneric[uint32](from, to, it)
	case dtypes.Uint64:
		transposeGeneric[uint64](from, to, it)
	case dtypes.Float16:
		transposeGeneric[float16.Float16](from, to, it)
	case dtypes.BFloat16:
		transposeGeneric[bfloat16.BFloat16](from, to, it)
	case dtypes.Float32:
		transposeGeneric[float32](from, to, it)
	case dtypes.Float64:
		transposeGeneric[float64](from, to, it)
	case dtypes.Complex64:
		transposeGeneric[complex64](from, to, it)
	case dtypes.Complex128:
		transposeGeneric[complex128](from, to, it)
	default:
		exceptions.Panicf("Transpose: unsupported dtype %s", from.DType())
	}
}

func broadcastData(from, to *Tensor, bi *broadcastIterator) {
	switch from.DType() {
	case dtypes.Bool:
		broadcastGeneric[bool](from, to, bi)
	case dtypes.Int8:
		broadcastGeneric[int8](from, to, bi)
	case dtypes.Int16:
		broadcastGeneric[int16](from, to, bi)
	case dtypes.Int32:
		broadcastGeneric[int32](from, to, bi)
	case dtypes.Int64:
		broadcastGeneric[int64](from, to, bi)
	case dtypes.Uint8:
		broadcastGeneric[uint8](from, to, bi)
	case dtypes.Uint16:
		broadcastGeneric[uint16](from, to, bi)
	case dtypes.Uint32:
		broadcastGeneric[uint32](from, to, bi)
	case dtypes.Uint64:
		broadcastGeneric[uint64](from, to, bi)
	case dtypes.Float16:
		broadcastGeneric[float16.Float16](from, to, bi)
	case dtypes.BFloat16:
		broadcastGeneric[bfloat16.BFloat16](from, to, bi)
	case dtypes.Float32:
		broadcastGeneric[float32](from, to, bi)
	case dtypes.Float64:
		broadcastGeneric[float64](from, to, bi)
	case dtypes.Complex64:
		broadcastGeneric[complex64](from, to, bi)
	case dtypes.Complex128:
		broadcastGeneric[complex128](from, to, bi)
	default:
		exceptions.Panicf("BroadcastToDims: unsupported dtype %s", from.DType())
	}
}

func fillData(to, scalar *Tensor) {
	switch to.DType() {
	case dtypes.Bool:
		fillGeneric[bool](to, scalar)
	case dtypes.Int8:
		fillGeneric[int8](to, scalar)
	case dtypes.Int16:
		fillGeneric[int16](to, scalar)
	case dtypes.Int32:
		fillGeneric[int32](to, scalar)
	case dtypes.Int64:
		fillGeneric[int64](to, scalar)
	case dtypes.Uint8:
		fillGeneric[uint8](to, scalar)
	case dtypes.Uint16:
		fillGeneric[uint16](to, scalar)
	case dtypes.Uint32:
		fillGeneric[uint32](to, scalar)
	case dtypes.Uint64:
		fillGeneric[uint64](to, scalar)
	case dtypes.Float16:
		fillGeneric[float16.Float16](to, scalar)
	case dtypes.BFloat16:
		fillGeneric[bfloat16.BFloat16](to, scalar)
	case dtypes.Float32:
		fillGeneric[float32](to, scalar)
	case dtypes.Float64:
		fillGeneric[float64](to, scalar)
	case dtypes.Complex64:
		fillGeneric[complex64](to, scalar)
	case dtypes.Complex128:
		fillGeneric[complex128](to, scalar)
	default:
		exceptions.Panicf("BroadcastToDims: unsupported dtype %s", to.DType())
	}
}
