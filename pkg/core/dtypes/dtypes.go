// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package dtypes enumerates the data types a tensor can hold and maps
// them to and from the corresponding Go types.
package dtypes

import (
	"reflect"

	"github.com/gomlx/einops/pkg/core/dtypes/bfloat16"
	"github.com/x448/float16"
)

// DType identifies the data type of each element of a tensor.
type DType int32

const (
	InvalidDType DType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	BFloat16
	Float32
	Float64
	Complex64
	Complex128
)

// Supported lists the Go types that tensors can be built from, one per
// DType value.
type Supported interface {
	bool |
		int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float16.Float16 | bfloat16.BFloat16 | float32 | float64 |
		complex64 | complex128
}

var dtypeNames = [...]string{
	"InvalidDType",
	"Bool",
	"Int8", "Int16", "Int32", "Int64",
	"Uint8", "Uint16", "Uint32", "Uint64",
	"Float16", "BFloat16", "Float32", "Float64",
	"Complex64", "Complex128",
}

// String implements fmt.Stringer.
func (dtype DType) String() string {
	if dtype < 0 || int(dtype) >= len(dtypeNames) {
		return "InvalidDType"
	}
	return dtypeNames[dtype]
}

// Ok returns whether dtype is a valid data type.
func (dtype DType) Ok() bool {
	return dtype > InvalidDType && int(dtype) < len(dtypeNames)
}

// Size returns the number of bytes of one element of the given DType.
// It returns 0 for InvalidDType.
func (dtype DType) Size() int {
	switch dtype {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16, Float16, BFloat16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Complex64:
		return 8
	case Complex128:
		return 16
	}
	return 0
}

var dtypeToGoType = map[DType]reflect.Type{
	Bool:       reflect.TypeOf(bool(false)),
	Int8:       reflect.TypeOf(int8(0)),
	Int16:      reflect.TypeOf(int16(0)),
	Int32:      reflect.TypeOf(int32(0)),
	Int64:      reflect.TypeOf(int64(0)),
	Uint8:      reflect.TypeOf(uint8(0)),
	Uint16:     reflect.TypeOf(uint16(0)),
	Uint32:     reflect.TypeOf(uint32(0)),
	Uint64:     reflect.TypeOf(uint64(0)),
	Float16:    reflect.TypeOf(float16.Float16(0)),
	BFloat16:   reflect.TypeOf(bfloat16.BFloat16(0)),
	Float32:    reflect.TypeOf(float32(0)),
	Float64:    reflect.TypeOf(float64(0)),
	Complex64:  reflect.TypeOf(complex64(0)),
	Complex128: reflect.TypeOf(complex128(0)),
}

var goTypeToDType = func() map[reflect.Type]DType {
	m := make(map[reflect.Type]DType, len(dtypeToGoType))
	for dtype, goType := range dtypeToGoType {
		m[goType] = dtype
	}
	// Untyped Go literals default to int, which tensors store as Int64.
	m[reflect.TypeOf(int(0))] = Int64
	return m
}()

// GoType returns the reflect.Type of one element of the given DType,
// or nil for InvalidDType.
func (dtype DType) GoType() reflect.Type {
	return dtypeToGoType[dtype]
}

// FromGoType returns the DType that stores values of the given Go type,
// or InvalidDType if there is none. Plain int maps to Int64.
func FromGoType(goType reflect.Type) DType {
	return goTypeToDType[goType]
}

// FromAny returns the DType that stores the given value, or
// InvalidDType if the value's type is not supported.
func FromAny(value any) DType {
	return FromGoType(reflect.TypeOf(value))
}

// FromGenericsType returns the DType for the type parameter T.
func FromGenericsType[T Supported]() DType {
	var v T
	return FromGoType(reflect.TypeOf(v))
}
