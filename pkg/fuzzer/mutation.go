// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package fuzzer

import (
	"math/rand"
)

const maxMutations = 8

// mutateData overwrites 1..maxMutations random bytes of data with random values.
// Overwrites may hit the same offset, or write the value that was already there.
func mutateData(r *rand.Rand, data []byte) {
	for n := r.Intn(maxMutations) + 1; n > 0; n-- {
		data[r.Intn(len(data))] = byte(r.Intn(256))
	}
}
