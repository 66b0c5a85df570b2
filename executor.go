// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package einops

import (
	"github.com/pkg/errors"
)

// execute runs a resolved plan: reshape to split input groups,
// transpose, broadcast repeated axes, reshape to merge output groups.
// Steps that are no-ops for this plan are skipped entirely, so an
// identity pattern returns x itself.
func execute[T any](backend Backend[T], p *plan, x T) (result T, err error) {
	var zero T
	size := backend.Shape(x).Size()
	if product(p.intermediate) != size {
		// Resolved plans always conserve the element count; failing here
		// means the plan does not belong to this tensor's shape.
		return zero, errors.Wrapf(ErrReshapeSizeMismatch, "plan for %q rearranges %d elements, but the tensor has %d",
			p.pattern, product(p.intermediate), size)
	}

	result = x
	if !p.skipUngroup {
		result, err = backend.Reshape(result, p.intermediate...)
		if err != nil {
			return zero, errors.WithMessagef(err, "rearranging with %q: splitting input axes", p.pattern)
		}
	}
	if !p.skipTranspose {
		result, err = backend.Transpose(result, p.permutation...)
		if err != nil {
			return zero, errors.WithMessagef(err, "rearranging with %q: reordering axes", p.pattern)
		}
	}
	if !p.skipBroadcast {
		result, err = backend.BroadcastToDims(result, p.broadcast...)
		if err != nil {
			return zero, errors.WithMessagef(err, "rearranging with %q: repeating new axes", p.pattern)
		}
	}
	if !p.skipFinal {
		result, err = backend.Reshape(result, p.final...)
		if err != nil {
			return zero, errors.WithMessagef(err, "rearranging with %q: merging output axes", p.pattern)
		}
	}
	return result, nil
}
