// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package einops

import (
	"github.com/gomlx/einops/pkg/core/shapes"
	"github.com/gomlx/einops/pkg/support/sets"
	"github.com/pkg/errors"
)

// registry is the symbol table of a pattern: which axis names each side
// mentions and which names have a bound size. It only holds names,
// resolved sizes are per-call and live in the plan.
type registry struct {
	input, output sets.Set[string]
	bound         sets.Set[string]
}

func newRegistry(expr *expression, bindings shapes.AxisBindings) *registry {
	r := &registry{
		input:  expr.input.names,
		output: expr.output.names,
		bound:  sets.Make[string](len(bindings)),
	}
	for name := range bindings {
		r.bound.Insert(name)
	}
	return r
}

// validate applies the cross-side rules: every input axis must be
// consumed by the output, every output axis must come from the input or
// have a bound size, and the ellipsis must appear on both sides or
// neither. The same rules apply to the anonymous axes of the ellipsis,
// which is why a one-sided ellipsis is rejected.
func (r *registry) validate(expr *expression) error {
	if expr.input.hasEllipsis() && !expr.output.hasEllipsis() {
		return errors.Wrapf(ErrUnusedAxis, "the ellipsis of %q appears only on the input side, its axes would be dropped", expr.pattern)
	}
	if expr.output.hasEllipsis() && !expr.input.hasEllipsis() {
		return errors.Wrapf(ErrUndeclaredAxis, "the ellipsis of %q appears only on the output side, there are no axes for it to absorb", expr.pattern)
	}
	if unused := r.input.Sub(r.output); len(unused) > 0 {
		return errors.Wrapf(ErrUnusedAxis, "input axes %v of %q are missing from the output side, and reductions are not supported", sets.Sorted(unused), expr.pattern)
	}
	if undeclared := r.output.Sub(r.input).Sub(r.bound); len(undeclared) > 0 {
		return errors.Wrapf(ErrUndeclaredAxis, "output axes %v of %q are not on the input side, repeated axes need a bound size", sets.Sorted(undeclared), expr.pattern)
	}
	return nil
}
