// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines the Shape of tensors, the pair of a data type
// and an ordered list of axis dimensions, plus AxisBindings, a mapping
// of axis names to sizes used to configure shape transformations.
//
// Dimensions must be non-negative: zero-sized axes are legal and yield
// tensors with no elements.
package shapes

import (
	"fmt"
	"slices"

	"github.com/gomlx/einops/pkg/core/dtypes"
	"github.com/gomlx/einops/pkg/support/xslices"
	"github.com/gomlx/exceptions"
)

// Shape of a tensor: a DType and one dimension per axis.
// A rank-0 Shape (no dimensions) is a scalar.
//
// Shape is a value type: it is cheap to copy, but copies share the
// Dimensions slice. Use Clone when mutating.
type Shape struct {
	DType      dtypes.DType
	Dimensions []int
}

// Make returns a Shape with the given DType and dimensions.
// It panics if any dimension is negative.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	s := Shape{DType: dtype, Dimensions: slices.Clone(dimensions)}
	for _, dim := range dimensions {
		if dim < 0 {
			exceptions.Panicf("shapes.Make(%s, %v): dimensions must be non-negative", dtype, dimensions)
		}
	}
	return s
}

// Invalid returns an invalid Shape, the zero value.
func Invalid() Shape { return Shape{DType: dtypes.InvalidDType} }

// Ok returns whether the Shape has a valid DType.
func (s Shape) Ok() bool { return s.DType.Ok() }

// Rank returns the number of axes. Scalars have rank 0.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the Shape has rank 0.
func (s Shape) IsScalar() bool { return s.Rank() == 0 }

// Dim returns the dimension of the given axis. A negative axis counts
// from the end, so Dim(-1) is the dimension of the last axis.
func (s Shape) Dim(axis int) int {
	return xslices.At(s.Dimensions, axis)
}

// Size returns the number of elements, the product of all dimensions.
// Scalars have size 1.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s.Dimensions {
		size *= dim
	}
	return size
}

// Memory returns the number of bytes needed to store the data of a
// tensor with this Shape.
func (s Shape) Memory() int64 {
	return int64(s.DType.Size()) * int64(s.Size())
}

// Clone returns a deep copy of the Shape.
func (s Shape) Clone() Shape {
	return Shape{DType: s.DType, Dimensions: slices.Clone(s.Dimensions)}
}

// Equal compares DType and dimensions.
func (s Shape) Equal(other Shape) bool {
	return s.DType == other.DType && s.EqualDimensions(other)
}

// EqualDimensions compares only the dimensions, ignoring the DType.
func (s Shape) EqualDimensions(other Shape) bool {
	return slices.Equal(s.Dimensions, other.Dimensions)
}

// String implements fmt.Stringer. E.g.: "(Float32)[2 3]", or
// "(Int64)" for a scalar.
func (s Shape) String() string {
	if s.IsScalar() {
		return fmt.Sprintf("(%s)", s.DType)
	}
	return fmt.Sprintf("(%s)%v", s.DType, s.Dimensions)
}
