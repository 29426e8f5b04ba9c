// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package prog

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/google/fuzzscale/pkg/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	rs := testutil.RandSource(t)
	for i := 0; i < testutil.IterCount()/10; i++ {
		target, err := Generate(rs, DefaultGenParams())
		require.NoError(t, err)
		require.NoError(t, target.Validate(), "%s", target.Serialize())
		assert.Equal(t, 32, target.InputSize)

		var branches, cover, crashes, usedBits int
		for _, n := range target.Nodes {
			switch n.Kind {
			case NodeBranch:
				branches++
				usedBits += bits.OnesCount8(n.Mask)
			case NodeCover:
				cover++
			case NodeCrash:
				crashes++
			}
		}
		assert.Equal(t, target.NumCover, cover)
		assert.Equal(t, target.NumCrashes, crashes)
		assert.Equal(t, target.Stats.Branches, branches)
		assert.Equal(t, target.Stats.UsedBits, usedBits)
		assert.LessOrEqual(t, usedBits, 256)
		assert.LessOrEqual(t, target.Stats.Uninstrumented, crashes)
	}
}

func TestGenerateDeterminism(t *testing.T) {
	t.Parallel()
	seed := testutil.RandSeed(t)
	params := DefaultGenParams()
	target0, err := Generate(rand.NewSource(seed), params)
	require.NoError(t, err)
	target1, err := Generate(rand.NewSource(seed), params)
	require.NoError(t, err)
	if diff := cmp.Diff(target0, target1); diff != "" {
		t.Fatal(diff)
	}
	assert.Equal(t, target0.Serialize(), target1.Serialize())
}

func TestGenerateDoneImmediately(t *testing.T) {
	t.Parallel()
	params := DefaultGenParams()
	params.MinBlocks = 0
	params.MinCrashes = 0
	params.DoneChance = 1
	target, err := Generate(testutil.RandSource(t), params)
	require.NoError(t, err)
	assert.Equal(t, 1, target.NumCover)
	assert.Equal(t, 0, target.NumCrashes)
	assert.Equal(t, []Node{{Kind: NodeCover, ID: 0}}, target.Nodes)
	assert.Equal(t, "cover 0\n", string(target.Serialize()))
}

func TestGenerateMinimums(t *testing.T) {
	t.Parallel()
	params := DefaultGenParams()
	params.MaxInputBits = 4096
	params.MinBlocks = 50
	params.MinCrashes = 5
	params.MaxAllocFailures = 100
	rs := testutil.RandSource(t)
	for i := 0; i < 10; i++ {
		target, err := Generate(rs, params)
		require.NoError(t, err)
		require.NoError(t, target.Validate())
		assert.Equal(t, 512, target.InputSize)
		if target.Stats.AllocFailures >= params.MaxAllocFailures {
			// Generation was cut short, minimums are not guaranteed.
			continue
		}
		assert.GreaterOrEqual(t, target.NumCover, params.MinBlocks)
		assert.GreaterOrEqual(t, target.NumCrashes, params.MinCrashes)
	}
}

func TestGenParamsValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, DefaultGenParams().Validate())
	for _, mutate := range []func(p *GenParams){
		func(p *GenParams) { p.MaxInputBits = 0 },
		func(p *GenParams) { p.IfChance = 0 },
		func(p *GenParams) { p.EndBlockChance = -1 },
		func(p *GenParams) { p.CrashChance = 0 },
		func(p *GenParams) { p.NonCoverageCrashChance = 0 },
		func(p *GenParams) { p.DoneChance = 0 },
		func(p *GenParams) { p.MaxAllocFailures = 0 },
		func(p *GenParams) { p.AllocAttempts = 0 },
		func(p *GenParams) { p.MinBlocks = -1 },
	} {
		params := DefaultGenParams()
		mutate(params)
		assert.Error(t, params.Validate())
		_, err := Generate(rand.NewSource(0), params)
		assert.Error(t, err)
	}
}

func TestTargetValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(target *Target)
		err    string
	}{
		{
			name:   "ok",
			mutate: func(target *Target) {},
		},
		{
			name:   "no root cover",
			mutate: func(target *Target) { target.Nodes[0].ID = 1 },
			err:    "root block",
		},
		{
			name:   "overlapping masks",
			mutate: func(target *Target) { target.Nodes[5].Offset = 0; target.Nodes[5].Mask = 0b00011000; target.Nodes[5].Value = 0 },
			err:    "overlaps",
		},
		{
			name:   "sparse mask",
			mutate: func(target *Target) { target.Nodes[1].Mask = 0b00100101; target.Nodes[1].Value = 0b00000101 },
			err:    "bad mask",
		},
		{
			name:   "value outside of mask",
			mutate: func(target *Target) { target.Nodes[1].Value = 0b00010101 },
			err:    "bad mask",
		},
		{
			name:   "offset out of bounds",
			mutate: func(target *Target) { target.Nodes[3].Offset = 2 },
			err:    "out of input bounds",
		},
		{
			name:   "duplicate cover",
			mutate: func(target *Target) { target.Nodes[6].ID = 1 },
			err:    "duplicated",
		},
		{
			name:   "missing crash",
			mutate: func(target *Target) { target.NumCrashes = 2 },
			err:    "crash site 1 is missing",
		},
		{
			name:   "bad nesting",
			mutate: func(target *Target) { target.Nodes[3].End = 6 },
			err:    "does not nest",
		},
		{
			name: "crash in the middle of a block",
			mutate: func(target *Target) {
				target.Nodes[1].End = 7
				target.Nodes[3].End = 7
				target.Nodes[5] = Node{Kind: NodeCover, ID: 2}
				target.Nodes[6] = Node{Kind: NodeCover, ID: 3}
				target.NumCover = 4
			},
			err: "not the last node",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			target := testTarget()
			test.mutate(target)
			err := target.Validate()
			if test.err == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.err)
		})
	}
}
