// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package prog

import (
	"fmt"
	"math/rand"
)

// GenParams control the shape of generated targets.
// All chances are "one in N" figures.
type GenParams struct {
	// Input bits available to branch predicates, the input is ceil(MaxInputBits/8) bytes.
	MaxInputBits int `json:"max_input_bits"`
	// Chance of opening a new branch on every generation step.
	IfChance int `json:"if_chance"`
	// Chance of closing the innermost open block.
	EndBlockChance int `json:"end_block_chance"`
	// Chance of a crash site right before a block is closed.
	CrashChance int `json:"crash_chance"`
	// Chance that a new branch holds only a crash and no coverage site.
	// This models a fault (e.g. an out-of-bounds access) that gives no feedback.
	NonCoverageCrashChance int `json:"non_coverage_crash_chance"`
	// Chance of finishing generation once MinBlocks and MinCrashes are reached.
	DoneChance int `json:"done_chance"`
	MinCrashes int `json:"min_crashes"`
	MinBlocks  int `json:"min_blocks"`
	// Generation stops abruptly after that many failed bit allocations,
	// even if MinBlocks/MinCrashes are not reached yet.
	MaxAllocFailures int `json:"max_alloc_failures"`
	// Random draws per bit allocation request.
	AllocAttempts int `json:"alloc_attempts"`
}

func DefaultGenParams() *GenParams {
	return &GenParams{
		MaxInputBits:           256,
		IfChance:               4,
		EndBlockChance:         4,
		CrashChance:            8,
		NonCoverageCrashChance: 16,
		DoneChance:             128,
		MinCrashes:             200,
		MinBlocks:              5000,
		MaxAllocFailures:       1,
		AllocAttempts:          DefaultAllocAttempts,
	}
}

func (params *GenParams) Validate() error {
	if params.MaxInputBits <= 0 {
		return fmt.Errorf("max_input_bits must be positive (got %v)", params.MaxInputBits)
	}
	chances := []struct {
		name string
		val  int
	}{
		{"if_chance", params.IfChance},
		{"end_block_chance", params.EndBlockChance},
		{"crash_chance", params.CrashChance},
		{"non_coverage_crash_chance", params.NonCoverageCrashChance},
		{"done_chance", params.DoneChance},
		{"max_alloc_failures", params.MaxAllocFailures},
		{"alloc_attempts", params.AllocAttempts},
	}
	for _, c := range chances {
		if c.val <= 0 {
			return fmt.Errorf("%v must be positive (got %v)", c.name, c.val)
		}
	}
	if params.MinCrashes < 0 || params.MinBlocks < 0 {
		return fmt.Errorf("min_crashes/min_blocks must not be negative")
	}
	return nil
}

type generator struct {
	r      *randGen
	params *GenParams
	alloc  *BitAlloc
	target *Target
	// Indices of the branch nodes of the currently open blocks.
	open []int
}

// Generate builds a new random target. The same source and params always produce the same target.
func Generate(rs rand.Source, params *GenParams) (*Target, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	g := &generator{
		r:      newRand(rs),
		params: params,
		alloc:  NewBitAlloc(params.MaxInputBits, params.AllocAttempts),
		target: &Target{
			InputSize: (params.MaxInputBits + 7) / 8,
		},
	}
	g.target.Stats.MaxDepth = 1
	g.cover()
	g.loop()
	for len(g.open) != 0 {
		g.closeBlock()
	}
	g.target.Stats.UsedBits = g.alloc.NumUsed()
	return g.target, nil
}

func (g *generator) loop() {
	p, r, stats := g.params, g.r, &g.target.Stats
	for {
		if g.target.NumCover >= p.MinBlocks && g.target.NumCrashes >= p.MinCrashes && r.oneOf(p.DoneChance) {
			return
		}
		if r.oneOf(p.IfChance) && !g.openBranch() {
			stats.AllocFailures++
			if stats.AllocFailures >= p.MaxAllocFailures {
				// The input bits are exhausted, deeper branches would not be realistic.
				return
			}
		}
		if len(g.open) != 0 && r.oneOf(p.EndBlockChance) {
			if r.oneOf(p.CrashChance) {
				g.crash()
			}
			g.closeBlock()
		}
	}
}

func (g *generator) openBranch() bool {
	start, end, ok := g.alloc.Alloc(g.r.Rand, g.r.randRange(1, maxRunBits))
	if !ok {
		return false
	}
	mask := runMask(start, end)
	g.open = append(g.open, len(g.target.Nodes))
	g.target.Nodes = append(g.target.Nodes, Node{
		Kind:   NodeBranch,
		Offset: start / 8,
		Mask:   mask,
		Value:  byte(g.r.Intn(256)) & mask,
	})
	g.target.Stats.Branches++
	g.target.Stats.MaxDepth = max(g.target.Stats.MaxDepth, len(g.open)+1)
	if g.r.oneOf(g.params.NonCoverageCrashChance) {
		g.crash()
		g.target.Stats.Uninstrumented++
		g.closeBlock()
	} else {
		g.cover()
	}
	return true
}

func (g *generator) closeBlock() {
	last := len(g.open) - 1
	g.target.Nodes[g.open[last]].End = len(g.target.Nodes)
	g.open = g.open[:last]
}

func (g *generator) cover() {
	g.target.Nodes = append(g.target.Nodes, Node{Kind: NodeCover, ID: g.target.NumCover})
	g.target.NumCover++
}

func (g *generator) crash() {
	g.target.Nodes = append(g.target.Nodes, Node{Kind: NodeCrash, ID: g.target.NumCrashes})
	g.target.NumCrashes++
}
