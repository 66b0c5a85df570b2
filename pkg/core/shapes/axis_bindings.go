// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gomlx/einops/pkg/support/xslices"
	"github.com/pkg/errors"
)

// AxisBindings maps axis names to their sizes.
//
// It is the configuration surface of shape transformations: callers use
// it to pin the size of axes that cannot be inferred from a tensor's
// shape alone, e.g. the parts of a split axis or the size of a repeated
// axis.
//
// A nil AxisBindings is valid and binds nothing.
type AxisBindings map[string]int

// Get returns the size bound to the given axis name, and whether the
// name is bound at all.
func (b AxisBindings) Get(name string) (size int, ok bool) {
	size, ok = b[name]
	return
}

// Clone returns a copy of the bindings. Cloning nil returns nil.
func (b AxisBindings) Clone() AxisBindings {
	if b == nil {
		return nil
	}
	return maps.Clone(b)
}

// Merge returns new bindings with the entries of both b and other.
// It fails if the same name is bound to different sizes.
func (b AxisBindings) Merge(other AxisBindings) (AxisBindings, error) {
	merged := b.Clone()
	if merged == nil {
		return other.Clone(), nil
	}
	for name, size := range other {
		if current, found := merged[name]; found && current != size {
			return nil, errors.Errorf("conflicting sizes for axis %q: %d vs %d", name, current, size)
		}
		merged[name] = size
	}
	return merged, nil
}

// Key returns a deterministic string representation of the bindings,
// usable as a cache key: names are sorted, so two bindings with the
// same content always produce the same Key.
func (b AxisBindings) Key() string {
	names := slices.Sorted(maps.Keys(b))
	pairs := xslices.Map(names, func(name string) string {
		return fmt.Sprintf("%s=%d", name, b[name])
	})
	return strings.Join(pairs, ",")
}

// String implements fmt.Stringer, with the same format as Key.
func (b AxisBindings) String() string {
	return fmt.Sprintf("AxisBindings{%s}", b.Key())
}
