// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package csource generates C source of a synthetic target,
// so that it can be built and run as a standalone program.
package csource

import (
	"bytes"
	"fmt"

	"github.com/google/fuzzscale/prog"
)

// Options control various aspects of source generation.
type Options struct {
	// Add main() that runs the target once on the contents of the file
	// passed as the first argument and prints the discovered sites.
	Harness bool `json:"harness,omitempty"`
}

// Write generates C source of the target.
// The target function has the following signature:
//
//	int fuzz_target(const uint8_t* input, uint64_t* cover, uint64_t* crashes, int* crash);
//
// It returns 1 if any coverage site was hit for the first time,
// crash is set to the id of the crash site that stopped execution or to -1.
func Write(target *prog.Target, opts Options) ([]byte, error) {
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("invalid target: %w", err)
	}
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "// Autogenerated by syz-proggen, do not edit.\n\n")
	fmt.Fprintf(buf, "#include <stdint.h>\n")
	if opts.Harness {
		fmt.Fprintf(buf, "#include <stdio.h>\n#include <string.h>\n")
	}
	fmt.Fprintf(buf, "\n#define NUM_COVERAGE %v\n#define NUM_CRASHES %v\n#define NUM_BYTES %v\n\n",
		target.NumCover, target.NumCrashes, target.InputSize)
	fmt.Fprintf(buf, "int fuzz_target(const uint8_t* input, uint64_t* cover, uint64_t* crashes, int* crash)\n{\n")
	fmt.Fprintf(buf, "\tint new_cover = 0;\n\t*crash = -1;\n")
	writeNodes(buf, target.Nodes)
	fmt.Fprintf(buf, "\treturn new_cover;\n}\n")
	if opts.Harness {
		buf.WriteString(harness)
	}
	return buf.Bytes(), nil
}

func writeNodes(buf *bytes.Buffer, nodes []prog.Node) {
	ends := []int{len(nodes)}
	indent := func() {
		for range ends {
			buf.WriteByte('\t')
		}
	}
	for i, n := range nodes {
		for ends[len(ends)-1] == i {
			ends = ends[:len(ends)-1]
			indent()
			buf.WriteString("}\n")
		}
		indent()
		switch n.Kind {
		case prog.NodeBranch:
			fmt.Fprintf(buf, "if ((input[%v] & 0x%02x) == 0x%02x) {\n", n.Offset, n.Mask, n.Value)
			ends = append(ends, n.End)
		case prog.NodeCover:
			fmt.Fprintf(buf, "new_cover |= cover[%v]++ == 0;\n", n.ID)
		case prog.NodeCrash:
			fmt.Fprintf(buf, "crashes[%v]++;\n", n.ID)
			indent()
			fmt.Fprintf(buf, "*crash = %v;\n", n.ID)
			indent()
			fmt.Fprintf(buf, "return new_cover;\n")
		}
	}
	for len(ends) > 1 {
		ends = ends[:len(ends)-1]
		indent()
		buf.WriteString("}\n")
	}
}

const harness = `
static uint64_t cover[NUM_COVERAGE];
static uint64_t crashes[NUM_CRASHES + 1];
static uint8_t input[NUM_BYTES];

int main(int argc, char** argv)
{
	if (argc != 2) {
		fprintf(stderr, "usage: %s input-file\n", argv[0]);
		return 1;
	}
	FILE* f = fopen(argv[1], "rb");
	if (f == NULL) {
		perror("fopen");
		return 1;
	}
	memset(input, 0, sizeof(input));
	size_t n = fread(input, 1, sizeof(input), f);
	(void)n;
	fclose(f);
	int crash = -1;
	fuzz_target(input, cover, crashes, &crash);
	for (int i = 0; i < NUM_COVERAGE; i++) {
		if (cover[i])
			printf("cover %d\n", i);
	}
	if (crash != -1)
		printf("crash %d\n", crash);
	return 0;
}
`
