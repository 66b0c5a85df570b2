// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package einops

import (
	"slices"

	"github.com/gomlx/einops/pkg/core/shapes"
	"github.com/gomlx/einops/pkg/support/xslices"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// plan is a pattern resolved against concrete input dimensions: the
// arguments of the (at most) four steps that implement the
// rearrangement, plus flags for the steps that turn out to be no-ops.
//
// The steps are: reshape to intermediate (splitting composite input
// groups, with one trailing size-1 slot per repeated axis), transpose
// by permutation, broadcast the repeat slots to the broadcast
// dimensions, and reshape to final (merging composite output groups).
type plan struct {
	pattern      string
	intermediate []int
	permutation  []int
	broadcast    []int       // nil when there are no repeated axes.
	final        []int
	repeats      map[int]int // Flattened output position -> repeated size.
	inputSize    int

	skipUngroup   bool
	skipTranspose bool
	skipBroadcast bool
	skipFinal     bool
}

// expandEllipsis replaces the ellipsis marker by extra anonymous
// singleton groups. The same anonymous ordinals are minted for both
// sides, so input and output refer to the same axes.
func expandEllipsis(side sideExpr, extra int) []axisGroup {
	if !side.hasEllipsis() {
		return side.groups
	}
	expanded := make([]axisGroup, 0, len(side.groups)-1+extra)
	expanded = append(expanded, side.groups[:side.ellipsisAt]...)
	for ii := 0; ii < extra; ii++ {
		expanded = append(expanded, axisGroup{axes: []axisRef{{anon: ii}}})
	}
	expanded = append(expanded, side.groups[side.ellipsisAt+1:]...)
	return expanded
}

// resolve reconciles a parsed pattern with the input dimensions and the
// bound axis sizes, producing the execution plan.
//
// The expression must already have passed registry.validate; resolve
// still guards against repeated axes without a size (ErrMissingRepeatSize)
// so it cannot silently produce a wrong plan.
func resolve(expr *expression, dims []int, bindings shapes.AxisBindings) (*plan, error) {
	// Ellipsis expansion: how many axes does "..." stand for?
	explicit := expr.input.explicitGroups()
	extra := 0
	if expr.input.hasEllipsis() {
		extra = len(dims) - explicit
		if extra < 0 {
			return nil, errors.Wrapf(ErrEllipsisExpansion, "pattern %q names %d axes beside the ellipsis, but the tensor only has rank %d",
				expr.pattern, explicit, len(dims))
		}
	} else if explicit != len(dims) {
		return nil, errors.Wrapf(ErrRankMismatch, "pattern %q describes %d input axes, but the tensor has rank %d",
			expr.pattern, explicit, len(dims))
	}
	inGroups := expandEllipsis(expr.input, extra)
	outGroups := expandEllipsis(expr.output, extra)

	// Infer every input axis size from the dimensions and the bindings.
	axisSizes := make(map[axisRef]int)
	for g, group := range inGroups {
		dim := dims[g]
		if len(group.axes) == 1 && !group.composite {
			ref := group.axes[0]
			if ref.name != "" {
				if bound, ok := bindings.Get(ref.name); ok && bound != dim {
					return nil, errors.Wrapf(ErrSizeConflict, "axis %q of %q is bound to %d, but its dimension is %d",
						ref.name, expr.pattern, bound, dim)
				}
			}
			axisSizes[ref] = dim
			continue
		}

		// Composite group: all sizes but one must come from bindings.
		known := 1
		unknown := -1
		for ii, ref := range group.axes {
			bound, ok := bindings.Get(ref.name)
			if !ok {
				if unknown >= 0 {
					return nil, errors.Wrapf(ErrAmbiguousSplit, "group %s of %q has more than one axis of unknown size, bind all but one",
						group, expr.pattern)
				}
				unknown = ii
				continue
			}
			axisSizes[ref] = bound
			known *= bound
		}
		switch {
		case unknown < 0:
			if known != dim {
				return nil, errors.Wrapf(ErrSizeConflict, "group %s of %q multiplies to %d, but its dimension is %d",
					group, expr.pattern, known, dim)
			}
		case known == 0:
			return nil, errors.Wrapf(ErrAmbiguousSplit, "group %s of %q has a zero-sized axis, the size of %q cannot be inferred",
				group, expr.pattern, group.axes[unknown])
		case dim%known != 0:
			return nil, errors.Wrapf(ErrNonIntegerSplit, "group %s of %q cannot split its dimension: %d is not divisible by %d",
				group, expr.pattern, dim, known)
		default:
			axisSizes[group.axes[unknown]] = dim / known
		}
	}

	// Flatten both sides; output axes not on the input side are repeats
	// and are assigned the trailing size-1 slots of the intermediate
	// shape, in output order.
	flatIn := make([]axisRef, 0, len(dims))
	for _, group := range inGroups {
		flatIn = append(flatIn, group.axes...)
	}
	indexOf := make(map[axisRef]int, len(flatIn))
	for ii, ref := range flatIn {
		indexOf[ref] = ii
	}

	var flatOut []axisRef
	for _, group := range outGroups {
		flatOut = append(flatOut, group.axes...)
	}

	permutation := make([]int, 0, len(flatOut))
	repeats := make(map[int]int)
	nextSlot := len(flatIn)
	for outPos, ref := range flatOut {
		if inPos, ok := indexOf[ref]; ok {
			permutation = append(permutation, inPos)
			continue
		}
		size, ok := bindings.Get(ref.name)
		if !ok {
			return nil, errors.Wrapf(ErrMissingRepeatSize, "axis %q of %q is new on the output side and has no bound size",
				ref, expr.pattern)
		}
		axisSizes[ref] = size
		repeats[outPos] = size
		permutation = append(permutation, nextSlot)
		nextSlot++
	}

	intermediate := make([]int, 0, nextSlot)
	for _, ref := range flatIn {
		intermediate = append(intermediate, axisSizes[ref])
	}
	intermediate = append(intermediate, xslices.SliceWithValue(len(repeats), 1)...)

	permuted := xslices.Map(permutation, func(pos int) int { return intermediate[pos] })
	var broadcast []int
	if len(repeats) > 0 {
		broadcast = slices.Clone(permuted)
		for outPos, size := range repeats {
			broadcast[outPos] = size
		}
	}

	final := make([]int, 0, len(outGroups))
	for _, group := range outGroups {
		size := 1
		for _, ref := range group.axes {
			size *= axisSizes[ref]
		}
		final = append(final, size)
	}

	p := &plan{
		pattern:      expr.pattern,
		intermediate: intermediate,
		permutation:  permutation,
		broadcast:    broadcast,
		final:        final,
		repeats:      repeats,
		inputSize:    product(dims),
	}
	p.skipUngroup = slices.Equal(intermediate, dims)
	p.skipTranspose = isIdentity(permutation)
	p.skipBroadcast = len(repeats) == 0
	current := dims
	if !p.skipUngroup {
		current = intermediate
	}
	if !p.skipTranspose {
		current = permuted
	}
	if !p.skipBroadcast {
		current = broadcast
	}
	p.skipFinal = slices.Equal(final, current)

	if klog.V(2).Enabled() {
		klog.Infof("einops: plan for %q on %v: intermediate=%v, permutation=%v, broadcast=%v, final=%v",
			expr.pattern, dims, intermediate, permutation, broadcast, final)
	}
	return p, nil
}

func product(dims []int) int {
	size := 1
	for _, dim := range dims {
		size *= dim
	}
	return size
}

func isIdentity(permutation []int) bool {
	for ii, axis := range permutation {
		if axis != ii {
			return false
		}
	}
	return true
}
