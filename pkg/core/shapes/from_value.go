// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"reflect"

	"github.com/gomlx/einops/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// FromAnyValue infers the Shape of a Go value: a supported scalar has
// rank 0, and nested slices add one axis per nesting level.
//
// All slices at the same nesting level must have the same length,
// otherwise the value has no valid shape and an error is returned.
func FromAnyValue(value any) (Shape, error) {
	if value == nil {
		return Invalid(), errors.New("cannot infer a shape from nil")
	}

	elemType := reflect.TypeOf(value)
	rank := 0
	for elemType.Kind() == reflect.Slice {
		elemType = elemType.Elem()
		rank++
	}
	dtype := dtypes.FromGoType(elemType)
	if !dtype.Ok() {
		return Invalid(), errors.Errorf("cannot infer a shape from %T: element type %s is not supported", value, elemType)
	}

	// Dimensions come from the first element at each nesting level; an
	// empty slice leaves the deeper dimensions at zero.
	dims := make([]int, rank)
	v := reflect.ValueOf(value)
	for axis := 0; v.Kind() == reflect.Slice; axis++ {
		dims[axis] = v.Len()
		if v.Len() == 0 {
			break
		}
		v = v.Index(0)
	}

	if err := checkUniformDims(reflect.ValueOf(value), dims); err != nil {
		return Invalid(), errors.WithMessagef(err, "cannot infer a shape from %T", value)
	}
	return Make(dtype, dims...), nil
}

func checkUniformDims(v reflect.Value, dims []int) error {
	if len(dims) == 0 {
		return nil
	}
	if v.Len() != dims[0] {
		return errors.Errorf("ragged nesting: got a slice of length %d where %d was expected", v.Len(), dims[0])
	}
	for ii := 0; ii < v.Len(); ii++ {
		if err := checkUniformDims(v.Index(ii), dims[1:]); err != nil {
			return err
		}
	}
	return nil
}
