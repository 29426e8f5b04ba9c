// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package csource

import (
	"errors"
	"math/rand"
	"os"
	"testing"

	"github.com/google/fuzzscale/pkg/testutil"
	"github.com/google/fuzzscale/prog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTarget() *prog.Target {
	return &prog.Target{
		Nodes: []prog.Node{
			{Kind: prog.NodeCover, ID: 0},
			{Kind: prog.NodeBranch, Offset: 0, Mask: 0x0f, Value: 0x05, End: 5},
			{Kind: prog.NodeCover, ID: 1},
			{Kind: prog.NodeBranch, Offset: 1, Mask: 0x01, Value: 0x01, End: 5},
			{Kind: prog.NodeCrash, ID: 0},
			{Kind: prog.NodeBranch, Offset: 0, Mask: 0xf0, Value: 0x30, End: 7},
			{Kind: prog.NodeCover, ID: 2},
		},
		NumCover:   3,
		NumCrashes: 1,
		InputSize:  2,
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()
	src, err := Write(testTarget(), Options{})
	require.NoError(t, err)
	want := `// Autogenerated by syz-proggen, do not edit.

#include <stdint.h>

#define NUM_COVERAGE 3
#define NUM_CRASHES 1
#define NUM_BYTES 2

int fuzz_target(const uint8_t* input, uint64_t* cover, uint64_t* crashes, int* crash)
{
	int new_cover = 0;
	*crash = -1;
	new_cover |= cover[0]++ == 0;
	if ((input[0] & 0x0f) == 0x05) {
		new_cover |= cover[1]++ == 0;
		if ((input[1] & 0x01) == 0x01) {
			crashes[0]++;
			*crash = 0;
			return new_cover;
		}
	}
	if ((input[0] & 0xf0) == 0x30) {
		new_cover |= cover[2]++ == 0;
	}
	return new_cover;
}
`
	assert.Equal(t, want, string(src))

	src, err = Write(testTarget(), Options{Harness: true})
	require.NoError(t, err)
	assert.Contains(t, string(src), "int main(int argc, char** argv)")
	assert.Contains(t, string(src), "#include <stdio.h>")
}

func TestWriteInvalid(t *testing.T) {
	t.Parallel()
	target := testTarget()
	target.Nodes[5].Mask = 0x0f
	_, err := Write(target, Options{})
	assert.Error(t, err)
}

func TestParseOutput(t *testing.T) {
	t.Parallel()
	info, err := parseOutput([]byte("cover 0\ncover 3\ncrash 7\n"))
	require.NoError(t, err)
	assert.Equal(t, &prog.ExecInfo{
		NewCover:   []int{0, 3},
		NewCrashes: []int{7},
		Crashed:    true,
		Crash:      7,
	}, info)
	for _, bad := range []string{"cover", "cover x", "branch 1"} {
		_, err := parseOutput([]byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestBuildAndRun(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("building C programs is slow")
	}
	rs := testutil.RandSource(t)
	target, err := prog.Generate(rs, prog.DefaultGenParams())
	require.NoError(t, err)
	src, err := Write(target, Options{Harness: true})
	require.NoError(t, err)
	bin, err := Build(src)
	if errors.Is(err, ErrNoCompiler) {
		t.Skip(err)
	}
	require.NoError(t, err)
	defer os.Remove(bin)

	r := rand.New(rs)
	input := make([]byte, target.InputSize)
	for i := 0; i < testutil.IterCount()/20; i++ {
		r.Read(input)
		// Pin some bytes to values that satisfy the predicates to go deeper than random data does.
		for _, n := range target.Nodes {
			if n.Kind == prog.NodeBranch && r.Intn(2) == 0 {
				input[n.Offset] = input[n.Offset]&^n.Mask | n.Value
			}
		}
		want := new(prog.ExecInfo)
		target.Exec(input, make([]uint64, target.NumCover), make([]uint64, target.NumCrashes), want)
		got, err := RunBinary(bin, input)
		require.NoError(t, err)
		assert.ElementsMatch(t, want.NewCover, got.NewCover, "input %x", input)
		assert.Equal(t, want.Crashed, got.Crashed)
		assert.Equal(t, want.Crash, got.Crash)
		assert.ElementsMatch(t, want.NewCrashes, got.NewCrashes)
	}
}
