// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package sets provides a simple generic set type built on a map.
package sets

import (
	"cmp"
	"slices"
)

// Set of elements of any comparable type T.
type Set[T comparable] map[T]struct{}

// Make returns an empty Set. The optional size reserves space for that
// many elements.
func Make[T comparable](size ...int) Set[T] {
	if len(size) > 0 {
		return make(Set[T], size[0])
	}
	return make(Set[T])
}

// MakeWith returns a Set containing the given elements.
func MakeWith[T comparable](elements ...T) Set[T] {
	s := Make[T](len(elements))
	s.Insert(elements...)
	return s
}

// Has returns whether key is in the set.
func (s Set[T]) Has(key T) bool {
	_, found := s[key]
	return found
}

// Insert adds the given keys to the set.
func (s Set[T]) Insert(keys ...T) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
}

// Sub returns a new set with the elements of s that are not in s2.
func (s Set[T]) Sub(s2 Set[T]) Set[T] {
	diff := Make[T]()
	for key := range s {
		if !s2.Has(key) {
			diff.Insert(key)
		}
	}
	return diff
}

// Sorted returns the elements of s as a sorted slice.
// Useful to report set contents deterministically.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	elements := make([]T, 0, len(s))
	for key := range s {
		elements = append(elements, key)
	}
	slices.Sort(elements)
	return elements
}
