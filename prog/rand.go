// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package prog

import (
	"math/rand"
)

// randGen is the only source of randomness during target generation.
// It is created from an explicit rand.Source, so the same source yields the same target.
type randGen struct {
	*rand.Rand
}

func newRand(rs rand.Source) *randGen {
	return &randGen{
		Rand: rand.New(rs),
	}
}

// oneOf returns true with probability 1/n.
func (r *randGen) oneOf(n int) bool {
	return r.Intn(n) == 0
}

func (r *randGen) randRange(begin, end int) int {
	return begin + r.Intn(end-begin+1)
}
