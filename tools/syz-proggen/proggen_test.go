// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/fuzzscale/pkg/csource"
	"github.com/google/fuzzscale/pkg/testutil"
	"github.com/google/fuzzscale/prog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	opts := options{
		seed:    testutil.RandSeed(t),
		params:  prog.DefaultGenParams(),
		csource: filepath.Join(t.TempDir(), "target.c"),
		run:     testutil.IterCount(),
	}
	target, summary, err := generate(opts)
	require.NoError(t, err)
	assert.Equal(t, target.NumCover, summary.Cover)
	assert.Equal(t, target.NumCrashes, summary.Crashes)
	assert.Equal(t, 32, summary.InputSize)
	assert.Equal(t, target.Stats, summary.Stats)
	assert.Empty(t, summary.Binary)
	require.NotNil(t, summary.Probe)
	assert.Equal(t, opts.run, summary.Probe.Inputs)
	assert.GreaterOrEqual(t, summary.Probe.Cover, 1)
	assert.LessOrEqual(t, summary.Probe.Cover, target.NumCover)
	assert.Zero(t, summary.Probe.Checked)

	src, err := os.ReadFile(opts.csource)
	require.NoError(t, err)
	assert.Contains(t, string(src), "int fuzz_target(")

	out, err := yaml.Marshal(summary)
	require.NoError(t, err)
	var decoded Summary
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, *summary, decoded)
	assert.Contains(t, string(out), "coverage_sites:")
	assert.Contains(t, string(out), "used_bits:")
}

func TestGenerateBadParams(t *testing.T) {
	t.Parallel()
	params := prog.DefaultGenParams()
	params.IfChance = 0
	_, _, err := generate(options{params: params})
	assert.Error(t, err)
}

func TestGenerateBuild(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("building C programs is slow")
	}
	opts := options{
		seed:   testutil.RandSeed(t),
		params: prog.DefaultGenParams(),
		build:  true,
		run:    20,
	}
	_, summary, err := generate(opts)
	if errors.Is(err, csource.ErrNoCompiler) {
		t.Skip(err)
	}
	require.NoError(t, err)
	defer os.Remove(summary.Binary)
	assert.Equal(t, 20, summary.Probe.Checked)
}
