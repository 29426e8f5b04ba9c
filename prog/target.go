// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package prog

import (
	"fmt"
	"math/bits"
)

// Target is a generated synthetic program over a fixed-size input.
// The program is a flat pre-order list of nodes: a branch node guards the nodes
// up to its End index, cover and crash nodes are instrumentation sites.
// The root block (always taken) starts with coverage site 0.
type Target struct {
	Nodes      []Node
	NumCover   int
	NumCrashes int
	InputSize  int // in bytes
	Stats      GenStats
}

type NodeKind uint8

const (
	NodeBranch NodeKind = iota
	NodeCover
	NodeCrash
)

func (kind NodeKind) String() string {
	switch kind {
	case NodeBranch:
		return "branch"
	case NodeCover:
		return "cover"
	case NodeCrash:
		return "crash"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(kind))
	}
}

type Node struct {
	Kind NodeKind
	// The block of a branch node is entered iff input[Offset]&Mask == Value.
	// The block spans nodes [i+1, End).
	Offset int
	Mask   byte
	Value  byte
	End    int
	// Site id of cover and crash nodes.
	ID int
}

// GenStats describes the shape of a generated target.
type GenStats struct {
	Branches       int `yaml:"branches"`
	MaxDepth       int `yaml:"max_depth"`
	UsedBits       int `yaml:"used_bits"`
	Uninstrumented int `yaml:"uninstrumented_crashes"`
	AllocFailures  int `yaml:"alloc_failures"`
}

// Validate checks structural invariants of the target.
func (t *Target) Validate() error {
	if t.InputSize <= 0 {
		return fmt.Errorf("bad input size %v", t.InputSize)
	}
	if t.NumCover < 1 || len(t.Nodes) == 0 || t.Nodes[0].Kind != NodeCover || t.Nodes[0].ID != 0 {
		return fmt.Errorf("the root block does not start with coverage site 0")
	}
	coverSeen := make([]bool, t.NumCover)
	crashSeen := make([]bool, t.NumCrashes)
	usedBits := make([]byte, t.InputSize)
	// Ends of the currently open blocks, the root block is always open.
	ends := []int{len(t.Nodes)}
	for i, n := range t.Nodes {
		for ends[len(ends)-1] == i {
			ends = ends[:len(ends)-1]
		}
		switch n.Kind {
		case NodeBranch:
			if n.Offset < 0 || n.Offset >= t.InputSize {
				return fmt.Errorf("node %v: offset %v is out of input bounds", i, n.Offset)
			}
			if n.Mask == 0 || !contiguous(n.Mask) || n.Value&^n.Mask != 0 {
				return fmt.Errorf("node %v: bad mask/value 0b%08b/0b%08b", i, n.Mask, n.Value)
			}
			if usedBits[n.Offset]&n.Mask != 0 {
				return fmt.Errorf("node %v: mask 0b%08b overlaps with another branch in byte %v",
					i, n.Mask, n.Offset)
			}
			usedBits[n.Offset] |= n.Mask
			if n.End <= i || n.End > ends[len(ends)-1] {
				return fmt.Errorf("node %v: block end %v does not nest", i, n.End)
			}
			ends = append(ends, n.End)
		case NodeCover:
			if err := markSite(coverSeen, n.ID); err != nil {
				return fmt.Errorf("node %v: coverage %w", i, err)
			}
		case NodeCrash:
			if err := markSite(crashSeen, n.ID); err != nil {
				return fmt.Errorf("node %v: crash %w", i, err)
			}
			if ends[len(ends)-1] != i+1 {
				return fmt.Errorf("node %v: crash site is not the last node of its block", i)
			}
		default:
			return fmt.Errorf("node %v: unknown kind %v", i, n.Kind)
		}
	}
	for id, seen := range coverSeen {
		if !seen {
			return fmt.Errorf("coverage site %v is missing", id)
		}
	}
	for id, seen := range crashSeen {
		if !seen {
			return fmt.Errorf("crash site %v is missing", id)
		}
	}
	return nil
}

func markSite(seen []bool, id int) error {
	if id < 0 || id >= len(seen) {
		return fmt.Errorf("site %v is out of range [0, %v)", id, len(seen))
	}
	if seen[id] {
		return fmt.Errorf("site %v is duplicated", id)
	}
	seen[id] = true
	return nil
}

func contiguous(mask byte) bool {
	m := mask >> bits.TrailingZeros8(mask)
	return m&(m+1) == 0
}
