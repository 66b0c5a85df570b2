// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package xslices holds generic slice helpers that complement the
// standard slices package.
package xslices

import (
	"golang.org/x/exp/constraints"
)

// At returns the element at the given index, where a negative index
// counts from the end of the slice, so At(s, -1) is the last element.
func At[T any](slice []T, index int) T {
	if index < 0 {
		index = len(slice) + index
	}
	return slice[index]
}

// FillSlice sets every element of the slice to value.
func FillSlice[T any](slice []T, value T) {
	if len(slice) == 0 {
		return
	}
	// Doubling copies is faster than a plain loop for large slices.
	slice[0] = value
	for filled := 1; filled < len(slice); filled *= 2 {
		copy(slice[filled:], slice[:filled])
	}
}

// SliceWithValue returns a newly allocated slice of the given size with
// every element set to value.
func SliceWithValue[T any](size int, value T) []T {
	slice := make([]T, size)
	FillSlice(slice, value)
	return slice
}

// Iota returns a slice of the given length with the values
// start, start+1, ..., start+len-1.
func Iota[T interface {
	constraints.Integer | constraints.Float
}](start T, len int) []T {
	slice := make([]T, len)
	for ii := range slice {
		slice[ii] = start + T(ii)
	}
	return slice
}

// Map applies fn to every element of in and returns the resulting slice.
func Map[In, Out any](in []In, fn func(e In) Out) []Out {
	out := make([]Out, len(in))
	for ii, e := range in {
		out[ii] = fn(e)
	}
	return out
}
