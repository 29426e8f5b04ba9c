// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package prog

import (
	"bytes"
	"fmt"
)

// Serialize returns a human-readable listing of the target, e.g.:
//
//	cover 0
//	if input[3]&0b00111000 == 0b00010000 {
//		cover 1
//		crash 0
//	}
func (t *Target) Serialize() []byte {
	buf := new(bytes.Buffer)
	var ends []int
	indent := func() {
		for range ends {
			buf.WriteByte('\t')
		}
	}
	closeBlocks := func(i int) {
		for len(ends) != 0 && ends[len(ends)-1] == i {
			ends = ends[:len(ends)-1]
			indent()
			buf.WriteString("}\n")
		}
	}
	for i, n := range t.Nodes {
		closeBlocks(i)
		indent()
		switch n.Kind {
		case NodeBranch:
			fmt.Fprintf(buf, "if input[%v]&0b%08b == 0b%08b {\n", n.Offset, n.Mask, n.Value)
			ends = append(ends, n.End)
		case NodeCover, NodeCrash:
			fmt.Fprintf(buf, "%v %v\n", n.Kind, n.ID)
		}
	}
	closeBlocks(len(t.Nodes))
	return buf.Bytes()
}
