// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package einops

import (
	"github.com/pkg/errors"
)

// Every failure mode has its own sentinel error, so callers can branch
// on the cause with errors.Is. The errors actually returned wrap these
// with the pattern, the offending names and the dimensions involved.
var (
	// ErrPatternSyntax: the pattern text is malformed, e.g. a missing or
	// repeated "->", an unexpected character, an empty side, a nested or
	// empty group, or an ellipsis inside a group.
	ErrPatternSyntax = errors.New("invalid pattern syntax")

	// ErrUnbalancedGroup: a "(" without its ")" or vice versa.
	ErrUnbalancedGroup = errors.New("unbalanced parenthesis in pattern")

	// ErrMultipleEllipsis: more than one "..." on the same side.
	ErrMultipleEllipsis = errors.New("at most one ellipsis is allowed per side")

	// ErrDuplicateAxis: the same axis name used twice on one side.
	ErrDuplicateAxis = errors.New("duplicate axis name")

	// ErrUndeclaredAxis: an output axis that is neither an input axis nor
	// bound to a size, so there is nothing to take its value from.
	ErrUndeclaredAxis = errors.New("axis not declared on the input side")

	// ErrUnusedAxis: an input axis missing from the output side.
	// Reductions are not supported, every input axis must be consumed.
	ErrUnusedAxis = errors.New("input axis not used on the output side")

	// ErrRankMismatch: the number of input axes in the pattern differs
	// from the tensor's rank.
	ErrRankMismatch = errors.New("pattern does not match tensor rank")

	// ErrEllipsisExpansion: the tensor has fewer axes than the pattern
	// names explicitly, leaving nothing for the ellipsis to absorb.
	ErrEllipsisExpansion = errors.New("tensor rank too small for pattern ellipsis")

	// ErrNonIntegerSplit: a dimension is not divisible by the product of
	// the known sizes of its group.
	ErrNonIntegerSplit = errors.New("axis cannot be split into whole parts")

	// ErrAmbiguousSplit: a group has more than one axis of unknown size,
	// or the known sizes leave the unknown one undetermined.
	ErrAmbiguousSplit = errors.New("axis sizes in group cannot be inferred")

	// ErrMissingRepeatSize: a repeated output axis reached shape
	// resolution without a bound size.
	ErrMissingRepeatSize = errors.New("repeated axis is missing its size")

	// ErrSizeConflict: a bound size disagrees with the tensor's actual
	// dimensions.
	ErrSizeConflict = errors.New("conflicting axis sizes")

	// ErrReshapeSizeMismatch: an execution plan would change the number
	// of elements. This is an internal invariant violation, resolved
	// plans always conserve the element count.
	ErrReshapeSizeMismatch = errors.New("planned reshape changes the element count")
)
