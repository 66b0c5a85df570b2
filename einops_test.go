// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package einops

import (
	"errors"
	"testing"

	"github.com/gomlx/einops/pkg/core/dtypes"
	"github.com/gomlx/einops/pkg/core/dtypes/bfloat16"
	"github.com/gomlx/einops/pkg/core/shapes"
	"github.com/gomlx/einops/pkg/core/tensors"
	"github.com/gomlx/einops/pkg/support/xslices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestRearrangeIdentity(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	y, err := Rearrange(x, "h w -> h w")
	require.NoError(t, err)
	assert.Same(t, x, y)

	// Scalars rearrange to themselves.
	s := tensors.FromScalar(3.5)
	y, err = Rearrange(s, "... -> ...")
	require.NoError(t, err)
	assert.Same(t, s, y)
}

func TestRearrangeTranspose(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions(xslices.Iota(int32(0), 6), 2, 3)
	y, err := Rearrange(x, "h w -> w h")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, y.Shape().Dimensions)
	assert.Equal(t, dtypes.Int32, y.DType())
	assert.Equal(t, []int32{0, 3, 1, 4, 2, 5}, tensors.ConstFlatData[int32](y))
	// The input is untouched.
	assert.Equal(t, []int32{0, 1, 2, 3, 4, 5}, tensors.ConstFlatData[int32](x))
}

func TestRearrangeChannelsFirst(t *testing.T) {
	const batch, height, width, channels = 2, 2, 3, 2
	x := tensors.FromFlatDataAndDimensions(xslices.Iota(int32(0), batch*height*width*channels),
		batch, height, width, channels)
	y, err := Rearrange(x, "b h w c -> b c h w")
	require.NoError(t, err)
	require.Equal(t, []int{batch, channels, height, width}, y.Shape().Dimensions)
	yFlat := tensors.ConstFlatData[int32](y)
	for b := 0; b < batch; b++ {
		for h := 0; h < height; h++ {
			for w := 0; w < width; w++ {
				for c := 0; c < channels; c++ {
					in := ((b*height+h)*width+w)*channels + c
					out := ((b*channels+c)*height+h)*width + w
					assert.Equal(t, int32(in), yFlat[out], "b=%d h=%d w=%d c=%d", b, h, w, c)
				}
			}
		}
	}
}

func TestRearrangeSplitAndMerge(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions(xslices.Iota(float32(0), 12), 6, 2)
	split, err := Rearrange(x, "(h w) c -> h w c", shapes.AxisBindings{"h": 2})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 2}, split.Shape().Dimensions)
	// Splitting alone never moves data.
	assert.Equal(t, tensors.ConstFlatData[float32](x), tensors.ConstFlatData[float32](split))

	merged, err := Rearrange(split, "h w c -> (h w) c")
	require.NoError(t, err)
	assert.True(t, merged.Equal(x))
}

func TestRearrangeMergeSharesData(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions([]int32{1, 2, 3, 4, 5, 6}, 2, 3)
	y := MustRearrange(x, "a b -> (a b)")
	require.Equal(t, []int{6}, y.Shape().Dimensions)
	tensors.MutableFlatData[int32](x)[0] = 99
	assert.Equal(t, int32(99), tensors.ConstFlatData[int32](y)[0])
}

func TestRearrangeRepeat(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions([]int32{1, 2, 3}, 3)

	y, err := Rearrange(x, "a -> a k", shapes.AxisBindings{"k": 2})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, y.Shape().Dimensions)
	assert.Equal(t, []int32{1, 1, 2, 2, 3, 3}, tensors.ConstFlatData[int32](y))

	y, err = Rearrange(x, "a -> k a", shapes.AxisBindings{"k": 2})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, y.Shape().Dimensions)
	assert.Equal(t, []int32{1, 2, 3, 1, 2, 3}, tensors.ConstFlatData[int32](y))

	m := tensors.FromFlatDataAndDimensions([]int32{1, 2, 3, 4}, 2, 2)
	y, err = Rearrange(m, "a b -> a (b k)", shapes.AxisBindings{"k": 2})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, y.Shape().Dimensions)
	assert.Equal(t, []int32{1, 1, 2, 2, 3, 3, 4, 4}, tensors.ConstFlatData[int32](y))

	y, err = Rearrange(x, "... -> ... k", shapes.AxisBindings{"k": 3})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, y.Shape().Dimensions)
	assert.Equal(t, []int32{1, 1, 1, 2, 2, 2, 3, 3, 3}, tensors.ConstFlatData[int32](y))
}

func TestRearrangeEllipsis(t *testing.T) {
	const b0, b1, height, width = 2, 2, 2, 3
	x := tensors.FromFlatDataAndDimensions(xslices.Iota(int32(0), b0*b1*height*width), b0, b1, height, width)
	y, err := Rearrange(x, "... h w -> ... w h")
	require.NoError(t, err)
	require.Equal(t, []int{b0, b1, width, height}, y.Shape().Dimensions)
	xFlat := tensors.ConstFlatData[int32](x)
	yFlat := tensors.ConstFlatData[int32](y)
	for batch := 0; batch < b0*b1; batch++ {
		for h := 0; h < height; h++ {
			for w := 0; w < width; w++ {
				assert.Equal(t, xFlat[(batch*height+h)*width+w], yFlat[(batch*width+w)*height+h])
			}
		}
	}

	// The single-rune ellipsis behaves identically.
	z, err := Rearrange(x, "… h w -> … w h")
	require.NoError(t, err)
	assert.True(t, z.Equal(y))
}

func TestRearrangeEllipsisMove(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions(xslices.Iota(int32(0), 24), 2, 3, 4)
	y, err := Rearrange(x, "c ... -> ... c")
	require.NoError(t, err)
	require.Equal(t, []int{3, 4, 2}, y.Shape().Dimensions)
	xFlat := tensors.ConstFlatData[int32](x)
	yFlat := tensors.ConstFlatData[int32](y)
	for c := 0; c < 2; c++ {
		for i := 0; i < 3; i++ {
			for j := 0; j < 4; j++ {
				assert.Equal(t, xFlat[(c*3+i)*4+j], yFlat[(i*4+j)*2+c])
			}
		}
	}
}

func checkTranspose2x2[T dtypes.Supported](t *testing.T, values [4]T) {
	t.Helper()
	x := tensors.FromFlatDataAndDimensions(values[:], 2, 2)
	y, err := Rearrange(x, "h w -> w h")
	require.NoError(t, err)
	assert.Equal(t, x.DType(), y.DType())
	assert.Equal(t, []T{values[0], values[2], values[1], values[3]}, tensors.ConstFlatData[T](y))
}

func TestRearrangeDTypes(t *testing.T) {
	checkTranspose2x2(t, [4]float32{1, 2, 3, 4})
	checkTranspose2x2(t, [4]float64{1, 2, 3, 4})
	checkTranspose2x2(t, [4]int8{1, 2, 3, 4})
	checkTranspose2x2(t, [4]int64{1, 2, 3, 4})
	checkTranspose2x2(t, [4]uint16{1, 2, 3, 4})
	checkTranspose2x2(t, [4]uint64{1, 2, 3, 4})
	checkTranspose2x2(t, [4]bool{true, true, false, false})
	checkTranspose2x2(t, [4]complex64{1 + 1i, 2 + 2i, 3 + 3i, 4 + 4i})
	checkTranspose2x2(t, [4]float16.Float16{
		float16.Fromfloat32(1), float16.Fromfloat32(2), float16.Fromfloat32(3), float16.Fromfloat32(4)})
	checkTranspose2x2(t, [4]bfloat16.BFloat16{
		bfloat16.FromFloat32(1), bfloat16.FromFloat32(2), bfloat16.FromFloat32(3), bfloat16.FromFloat32(4)})
}

func TestRearrangeZeroSized(t *testing.T) {
	x := tensors.FromShape(shapes.Make(dtypes.Float32, 0, 3))
	y, err := Rearrange(x, "a b -> b a")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 0}, y.Shape().Dimensions)
	assert.Equal(t, 0, y.Size())
}

func TestRearrangeShapes(t *testing.T) {
	// Shape-level checks over a mix of patterns: the element count is
	// conserved, except when repeated axes multiply it.
	tests := []struct {
		pattern  string
		dims     []int
		bindings shapes.AxisBindings
		wantDims []int
	}{
		{"b h w c -> b (h w c)", []int{2, 3, 4, 5}, nil, []int{2, 60}},
		{"b (h p) (w q) c -> b h w (p q c)", []int{1, 4, 4, 3}, shapes.AxisBindings{"p": 2, "q": 2}, []int{1, 2, 2, 12}},
		{"(a b) (c d) -> (a c) (b d)", []int{4, 6}, shapes.AxisBindings{"a": 2, "c": 3}, []int{6, 4}},
		{"... c -> c ...", []int{2, 3, 4}, nil, []int{4, 2, 3}},
		{"a -> a one", []int{5}, shapes.AxisBindings{"one": 1}, []int{5, 1}},
		{"h w -> h rep w", []int{2, 3}, shapes.AxisBindings{"rep": 4}, []int{2, 4, 3}},
	}
	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			x := tensors.FromShape(shapes.Make(dtypes.Float32, test.dims...))
			y, err := Rearrange(x, test.pattern, test.bindings)
			require.NoError(t, err)
			assert.Equal(t, test.wantDims, y.Shape().Dimensions)
		})
	}
}

func TestRearrangeErrors(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		dims     []int
		bindings shapes.AxisBindings
		wantErr  error
	}{
		{"missing arrow", "a b c", []int{2, 3, 4}, nil, ErrPatternSyntax},
		{"unclosed group", "(a b -> a b", []int{6}, nil, ErrUnbalancedGroup},
		{"two ellipses", "... a ... -> a", []int{2}, nil, ErrMultipleEllipsis},
		{"duplicate axis", "a a -> a a", []int{2, 2}, nil, ErrDuplicateAxis},
		{"new axis unbound", "a -> a k", []int{3}, nil, ErrUndeclaredAxis},
		{"dropped axis", "a b -> a", []int{2, 3}, nil, ErrUnusedAxis},
		{"input-only ellipsis", "... a -> a", []int{2, 3}, nil, ErrUnusedAxis},
		{"output-only ellipsis", "a -> a ...", []int{2}, nil, ErrUndeclaredAxis},
		{"rank mismatch", "a b -> b a", []int{2, 3, 4}, nil, ErrRankMismatch},
		{"rank below ellipsis", "... a b c -> a b c", []int{2, 3}, nil, ErrEllipsisExpansion},
		{"non-divisible split", "(h w) -> h w", []int{7}, shapes.AxisBindings{"h": 2}, ErrNonIntegerSplit},
		{"ambiguous split", "(h w) -> h w", []int{6}, nil, ErrAmbiguousSplit},
		{"bound size conflict", "h w -> w h", []int{2, 3}, shapes.AxisBindings{"h": 5}, ErrSizeConflict},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			x := tensors.FromShape(shapes.Make(dtypes.Float32, test.dims...))
			_, err := Rearrange(x, test.pattern, test.bindings)
			require.Error(t, err)
			// Sentinels are detectable through the standard errors package.
			assert.True(t, errors.Is(err, test.wantErr), "got: %v", err)
		})
	}
}

func TestRearrangeBindingConflict(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions([]int32{1, 2, 3}, 3)
	_, err := Rearrange(x, "a -> a k", shapes.AxisBindings{"k": 2}, shapes.AxisBindings{"k": 3})
	require.Error(t, err)
	assert.ErrorContains(t, err, "conflicting sizes")
}

func TestMustRearrange(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions([]int32{1, 2, 3, 4}, 2, 2)
	y := MustRearrange(x, "h w -> w h")
	assert.Equal(t, []int32{1, 3, 2, 4}, tensors.ConstFlatData[int32](y))
	assert.Panics(t, func() { MustRearrange(x, "h w ->") })
	assert.Panics(t, func() { MustRearrange(x, "h w -> (h w k)") })
}
