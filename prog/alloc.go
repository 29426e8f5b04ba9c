// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package prog

import (
	"fmt"
	"math/rand"
)

// BitAlloc keeps track of input bits claimed by branch predicates
// and hands out new disjoint runs of bits.
// A run never crosses a byte boundary, so every predicate is a single masked byte compare.
// The implementation is a flat bitmap where each bit represents one input bit.
type BitAlloc struct {
	size     int
	attempts int
	used     []uint64
	numUsed  int
}

const (
	DefaultAllocAttempts = 1000
	maxRunBits           = 8
	bitsPerUint64        = 64
)

// NewBitAlloc creates an allocator over sizeBits input bits that gives up
// on a request after attempts rejected random draws.
func NewBitAlloc(sizeBits, attempts int) *BitAlloc {
	if sizeBits <= 0 {
		panic(fmt.Sprintf("NewBitAlloc: bad size %v", sizeBits))
	}
	if attempts <= 0 {
		panic(fmt.Sprintf("NewBitAlloc: bad attempts %v", attempts))
	}
	return &BitAlloc{
		size:     sizeBits,
		attempts: attempts,
		used:     make([]uint64, (sizeBits+bitsPerUint64-1)/bitsPerUint64),
	}
}

// Alloc claims numBits (1..8) consecutive free bits [start, end] (end is inclusive)
// at a random position. It returns ok=false and claims nothing if no free run
// was found within the attempt budget.
func (ba *BitAlloc) Alloc(r *rand.Rand, numBits int) (start, end int, ok bool) {
	if numBits < 1 || numBits > maxRunBits {
		panic(fmt.Sprintf("BitAlloc: bad run size %v", numBits))
	}
	for i := 0; i < ba.attempts; i++ {
		start = r.Intn(ba.size)
		end = start + numBits - 1
		if end >= ba.size || start/8 != end/8 {
			continue
		}
		if ba.anyUsed(start, end) {
			continue
		}
		for bit := start; bit <= end; bit++ {
			ba.used[bit/bitsPerUint64] |= 1 << (bit % bitsPerUint64)
		}
		ba.numUsed += numBits
		return start, end, true
	}
	return 0, 0, false
}

func (ba *BitAlloc) anyUsed(start, end int) bool {
	for bit := start; bit <= end; bit++ {
		if ba.Used(bit) {
			return true
		}
	}
	return false
}

func (ba *BitAlloc) Used(bit int) bool {
	return ba.used[bit/bitsPerUint64]&(1<<(bit%bitsPerUint64)) != 0
}

func (ba *BitAlloc) NumUsed() int {
	return ba.numUsed
}

func (ba *BitAlloc) Size() int {
	return ba.size
}

// runMask converts an allocated run into the mask of the byte that contains it.
func runMask(start, end int) byte {
	startBit, endBit := uint(start%8), uint(end%8)
	return byte(0xff<<startBit) & byte(0xff>>(7-endBit))
}
