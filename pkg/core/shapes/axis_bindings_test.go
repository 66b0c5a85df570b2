// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisBindingsKey(t *testing.T) {
	tests := []struct {
		name     string
		bindings AxisBindings
		want     string
	}{
		{"nil", nil, ""},
		{"empty", AxisBindings{}, ""},
		{"single", AxisBindings{"h": 2}, "h=2"},
		{"sorted", AxisBindings{"w": 3, "h": 2, "c": 1}, "c=1,h=2,w=3"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.bindings.Key())
		})
	}
}

func TestAxisBindingsClone(t *testing.T) {
	var nilBindings AxisBindings
	assert.Nil(t, nilBindings.Clone())

	b := AxisBindings{"h": 2}
	clone := b.Clone()
	clone["h"] = 7
	assert.Equal(t, 2, b["h"])
}

func TestAxisBindingsMerge(t *testing.T) {
	b := AxisBindings{"h": 2, "w": 3}
	merged, err := b.Merge(AxisBindings{"w": 3, "c": 4})
	require.NoError(t, err)
	assert.Equal(t, AxisBindings{"h": 2, "w": 3, "c": 4}, merged)
	// Merge does not touch the receiver.
	assert.Len(t, b, 2)

	_, err = b.Merge(AxisBindings{"h": 5})
	require.ErrorContains(t, err, `conflicting sizes for axis "h"`)

	var nilBindings AxisBindings
	merged, err = nilBindings.Merge(AxisBindings{"k": 1})
	require.NoError(t, err)
	assert.Equal(t, AxisBindings{"k": 1}, merged)
}

func TestAxisBindingsGet(t *testing.T) {
	b := AxisBindings{"h": 2}
	size, ok := b.Get("h")
	assert.True(t, ok)
	assert.Equal(t, 2, size)
	_, ok = b.Get("w")
	assert.False(t, ok)

	var nilBindings AxisBindings
	_, ok = nilBindings.Get("h")
	assert.False(t, ok)
}
