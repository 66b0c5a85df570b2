// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tensors provides a local, in-memory tensor: a Shape plus a
// flat slice of values in row-major order.
//
// It implements only what axis rearrangement needs: construction from
// Go values, flat data access, and the movement operations Reshape,
// Transpose and BroadcastToDims. There is no arithmetic and no device
// storage.
package tensors

import (
	"fmt"
	"reflect"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/einops/pkg/core/dtypes"
	"github.com/gomlx/einops/pkg/core/shapes"
	"github.com/gomlx/einops/pkg/support/xslices"
	"github.com/gomlx/exceptions"
)

// Tensor holds a shape and its flat data, in row-major order.
//
// Tensors returned by the movement operations may share flat data with
// their input (Reshape always does): treat tensors as immutable, or
// Clone before mutating through MutableFlatData.
type Tensor struct {
	shape shapes.Shape
	flat  any // Slice of the Go type of shape.DType, of length shape.Size().
}

// FromShape returns a zero-initialized Tensor with the given shape.
func FromShape(shape shapes.Shape) *Tensor {
	if !shape.Ok() {
		exceptions.Panicf("tensors.FromShape(%s): invalid shape", shape)
	}
	size := shape.Size()
	flat := reflect.MakeSlice(reflect.SliceOf(shape.DType.GoType()), size, size).Interface()
	return &Tensor{shape: shape, flat: flat}
}

// FromScalar returns a rank-0 Tensor holding the given value.
func FromScalar[T dtypes.Supported](value T) *Tensor {
	return FromScalarAndDimensions(value)
}

// FromScalarAndDimensions returns a Tensor of the given dimensions with
// every element set to value.
func FromScalarAndDimensions[T dtypes.Supported](value T, dimensions ...int) *Tensor {
	t := FromShape(shapes.Make(dtypes.FromGenericsType[T](), dimensions...))
	xslices.FillSlice(t.flat.([]T), value)
	return t
}

// FromFlatDataAndDimensions returns a Tensor of the given dimensions
// with the data copied from the given flat slice, which must have
// exactly one value per element.
func FromFlatDataAndDimensions[T dtypes.Supported](data []T, dimensions ...int) *Tensor {
	shape := shapes.Make(dtypes.FromGenericsType[T](), dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("tensors.FromFlatDataAndDimensions: %d values do not fit in shape %s (needs %d)",
			len(data), shape, shape.Size())
	}
	t := FromShape(shape)
	copy(t.flat.([]T), data)
	return t
}

// FromAnyValue returns a Tensor from a Go scalar or nested slices, one
// axis per nesting level. Plain int values are stored as Int64.
// It panics if the value has no valid shape, see shapes.FromAnyValue.
func FromAnyValue(value any) *Tensor {
	shape, err := shapes.FromAnyValue(value)
	if err != nil {
		exceptions.Panicf("tensors.FromAnyValue: %v", err)
	}
	t := FromShape(shape)
	flat := reflect.ValueOf(t.flat)
	copyNested(flat, reflect.ValueOf(value), shape.DType.GoType())
	return t
}

// copyNested flattens value into flat, converting elements (e.g. int to
// int64) as needed. It returns the tail of flat not yet filled.
func copyNested(flat, value reflect.Value, elemType reflect.Type) reflect.Value {
	if value.Kind() != reflect.Slice {
		flat.Index(0).Set(value.Convert(elemType))
		return flat.Slice(1, flat.Len())
	}
	for ii := 0; ii < value.Len(); ii++ {
		flat = copyNested(flat, value.Index(ii), elemType)
	}
	return flat
}

// Shape of the Tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType of the Tensor's elements.
func (t *Tensor) DType() dtypes.DType { return t.shape.DType }

// Rank of the Tensor's shape.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// Size is the number of elements.
func (t *Tensor) Size() int { return t.shape.Size() }

// Memory used by the Tensor's data, in bytes.
func (t *Tensor) Memory() int64 { return t.shape.Memory() }

// ConstFlatData returns the flat data of the Tensor. The slice is owned
// by the Tensor (and possibly shared with tensors derived from it), do
// not modify it.
//
// It panics if T is not the Go type of the Tensor's DType.
func ConstFlatData[T dtypes.Supported](t *Tensor) []T {
	flat, ok := t.flat.([]T)
	if !ok {
		exceptions.Panicf("tensor holds %s values, cannot access them as %T", t.shape.DType, flat)
	}
	return flat
}

// MutableFlatData returns the flat data of the Tensor for writing.
// Writes are visible to every tensor sharing the underlying data.
//
// It panics if T is not the Go type of the Tensor's DType.
func MutableFlatData[T dtypes.Supported](t *Tensor) []T {
	return ConstFlatData[T](t)
}

// Clone returns a deep copy of the Tensor, sharing no data with it.
func (t *Tensor) Clone() *Tensor {
	clone := FromShape(t.shape.Clone())
	reflect.Copy(reflect.ValueOf(clone.flat), reflect.ValueOf(t.flat))
	return clone
}

// Equal compares shape and values. NaN values compare unequal, as in Go.
func (t *Tensor) Equal(other *Tensor) bool {
	if t == nil || other == nil {
		return t == other
	}
	if !t.shape.Equal(other.shape) {
		return false
	}
	return reflect.DeepEqual(t.flat, other.flat)
}

// Value returns the Tensor's data as a Go value: a scalar for rank-0
// tensors, nested slices otherwise. The data is copied.
func (t *Tensor) Value() any {
	flat := reflect.ValueOf(t.flat)
	if t.shape.IsScalar() {
		return flat.Index(0).Interface()
	}
	nestedType := t.shape.DType.GoType()
	for range t.shape.Dimensions {
		nestedType = reflect.SliceOf(nestedType)
	}
	return buildNested(flat, nestedType, t.shape.Dimensions).Interface()
}

func buildNested(flat reflect.Value, nestedType reflect.Type, dims []int) reflect.Value {
	out := reflect.MakeSlice(nestedType, dims[0], dims[0])
	if len(dims) == 1 {
		reflect.Copy(out, flat)
		return out
	}
	stride := 1
	for _, dim := range dims[1:] {
		stride *= dim
	}
	for ii := 0; ii < dims[0]; ii++ {
		out.Index(ii).Set(buildNested(flat.Slice(ii*stride, (ii+1)*stride), nestedType.Elem(), dims[1:]))
	}
	return out
}

// maxSizeToPrint limits how many elements String renders before it
// elides the data.
const maxSizeToPrint = 32

// String implements fmt.Stringer. Large tensors print their shape and
// the amount of data omitted instead of the values.
func (t *Tensor) String() string {
	if t.Size() > maxSizeToPrint {
		return fmt.Sprintf("%s: (%s of data omitted)", t.shape, humanize.Bytes(uint64(t.Memory())))
	}
	return fmt.Sprintf("%s: %v", t.shape, t.Value())
}
