// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package corpus

import (
	"math/rand"
	"testing"

	"github.com/google/fuzzscale/pkg/hash"
	"github.com/google/fuzzscale/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusOperation(t *testing.T) {
	t.Parallel()
	corpus := NewCorpus()
	r := rand.New(testutil.RandSource(t))
	assert.Nil(t, corpus.Choose(r))

	buf := []byte{1, 2, 3}
	item := corpus.Save(NewInput{Data: buf, NewCover: []int{0, 5}, Worker: 2})
	// The corpus must not alias the mutable buffer.
	buf[0] = 42
	assert.Equal(t, []byte{1, 2, 3}, item.Data)
	assert.Equal(t, hash.String([]byte{1, 2, 3}), item.Sig)
	assert.Equal(t, []int{0, 5}, item.NewCover)
	assert.Empty(t, item.NewCrashes)
	assert.Equal(t, 2, item.Worker)

	corpus.Save(NewInput{Data: buf, NewCrashes: []int{1}})
	corpus.Save(NewInput{Data: buf, NewCover: []int{7}})
	assert.Equal(t, 3, corpus.Len())
	assert.Equal(t, Stats{Items: 3, Distinct: 2}, corpus.Stats())
	items := corpus.Items()
	require.Len(t, items, 3)
	assert.Equal(t, item, items[0])
	assert.Equal(t, []int{7}, items[2].NewCover)

	corpus.Reset()
	assert.Equal(t, 0, corpus.Len())
	assert.Equal(t, Stats{}, corpus.Stats())
	assert.Nil(t, corpus.Choose(r))
}

func TestCorpusChoose(t *testing.T) {
	t.Parallel()
	corpus := NewCorpus()
	const items = 4
	for i := 0; i < items; i++ {
		corpus.Save(NewInput{Data: []byte{byte(i)}})
	}
	r := rand.New(testutil.RandSource(t))
	counts := make(map[byte]int)
	const iters = 10000
	for i := 0; i < iters; i++ {
		counts[corpus.Choose(r).Data[0]]++
	}
	require.Len(t, counts, items)
	for _, n := range counts {
		// Roughly uniform: each item is expected iters/items times.
		assert.Greater(t, n, iters/items/2)
	}
}
