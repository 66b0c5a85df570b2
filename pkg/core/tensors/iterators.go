// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"github.com/gomlx/exceptions"
)

// transposeIterator yields, for each element of the input visited in
// row-major order, the flat index where it lands in the transposed
// output.
type transposeIterator struct {
	flatIdx        int
	perAxisIdx     []int // Odometer over the input dimensions.
	perAxisStrides []int // Stride of each input axis in the output layout.
	dimensions     []int // Input dimensions.
}

func newTransposeIterator(dimensions, permutation []int) *transposeIterator {
	rank := len(dimensions)
	it := &transposeIterator{
		perAxisIdx:     make([]int, rank),
		perAxisStrides: make([]int, rank),
		dimensions:     dimensions,
	}
	stride := 1
	for outAxis := rank - 1; outAxis >= 0; outAxis-- {
		it.perAxisStrides[permutation[outAxis]] = stride
		stride *= dimensions[permutation[outAxis]]
	}
	return it
}

// next returns the output flat index of the current input element and
// moves to the next one.
func (it *transposeIterator) next() int {
	flatIdx := it.flatIdx
	for axis := len(it.perAxisIdx) - 1; axis >= 0; axis-- {
		it.perAxisIdx[axis]++
		it.flatIdx += it.perAxisStrides[axis]
		if it.perAxisIdx[axis] < it.dimensions[axis] {
			break
		}
		it.perAxisIdx[axis] = 0
		it.flatIdx -= it.perAxisStrides[axis] * it.dimensions[axis]
	}
	return flatIdx
}

// broadcastIterator yields, for each element of the broadcast output
// visited in row-major order, the flat index of the source element it
// copies. Axes being broadcast re-read the same source slice.
type broadcastIterator struct {
	flatIdx     int
	perAxisIdx  []int
	targetDims  []int
	isBroadcast []bool
	strides     []int // Strides of the source layout.
}

func newBroadcastIterator(fromDims, toDims []int) *broadcastIterator {
	rank := len(fromDims)
	if rank != len(toDims) {
		exceptions.Panicf("broadcastIterator: rank mismatch between %v and %v", fromDims, toDims)
	}
	bi := &broadcastIterator{
		perAxisIdx:  make([]int, rank),
		targetDims:  toDims,
		isBroadcast: make([]bool, rank),
		strides:     make([]int, rank),
	}
	stride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		bi.strides[axis] = stride
		stride *= fromDims[axis]
		bi.isBroadcast[axis] = fromDims[axis] != toDims[axis]
	}
	return bi
}

func (bi *broadcastIterator) next() int {
	flatIdx := bi.flatIdx
	bi.flatIdx++
	for axis := len(bi.perAxisIdx) - 1; axis >= 0; axis-- {
		bi.perAxisIdx[axis]++
		if bi.perAxisIdx[axis] < bi.targetDims[axis] {
			if bi.isBroadcast[axis] {
				// Rewind to re-read the same source slice.
				bi.flatIdx -= bi.strides[axis]
			}
			break
		}
		bi.perAxisIdx[axis] = 0
	}
	return flatIdx
}
