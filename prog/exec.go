// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package prog

import (
	"fmt"
)

// ExecInfo describes what a single Exec call discovered.
type ExecInfo struct {
	NewCover   []int // coverage sites that fired for the first time
	NewCrashes []int // crash sites that fired for the first time
	Crashed    bool
	Crash      int // crash site id, valid if Crashed
}

func (info *ExecInfo) Reset() {
	info.NewCover = info.NewCover[:0]
	info.NewCrashes = info.NewCrashes[:0]
	info.Crashed = false
	info.Crash = 0
}

// Exec evaluates the target on input and bumps the counters of every site on the taken path.
// Evaluation stops at the first crash site. If info is not nil, it receives the sites
// whose counters went from 0 to 1 (info is not reset, call Reset between executions).
// Returns true if any coverage site was discovered by this call.
func (t *Target) Exec(input []byte, cover, crashes []uint64, info *ExecInfo) bool {
	if len(input) != t.InputSize || len(cover) != t.NumCover || len(crashes) != t.NumCrashes {
		panic(fmt.Sprintf("Exec: input/cover/crashes len %v/%v/%v, target wants %v/%v/%v",
			len(input), len(cover), len(crashes), t.InputSize, t.NumCover, t.NumCrashes))
	}
	newCover := false
	nodes := t.Nodes
	for i := 0; i < len(nodes); {
		n := &nodes[i]
		switch n.Kind {
		case NodeBranch:
			if input[n.Offset]&n.Mask != n.Value {
				i = n.End
				continue
			}
		case NodeCover:
			if cover[n.ID] == 0 {
				newCover = true
				if info != nil {
					info.NewCover = append(info.NewCover, n.ID)
				}
			}
			cover[n.ID]++
		case NodeCrash:
			if info != nil {
				if crashes[n.ID] == 0 {
					info.NewCrashes = append(info.NewCrashes, n.ID)
				}
				info.Crashed = true
				info.Crash = n.ID
			}
			crashes[n.ID]++
			return newCover
		}
		i++
	}
	return newCover
}
