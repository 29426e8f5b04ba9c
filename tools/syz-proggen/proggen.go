// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// syz-proggen generates a synthetic target and prints its summary.
// Optionally it writes and builds the C source of the target and probes
// how much of the target random inputs reach.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"time"

	"github.com/google/fuzzscale/pkg/config"
	"github.com/google/fuzzscale/pkg/cover"
	"github.com/google/fuzzscale/pkg/csource"
	"github.com/google/fuzzscale/pkg/osutil"
	"github.com/google/fuzzscale/pkg/tool"
	"github.com/google/fuzzscale/prog"
	"gopkg.in/yaml.v3"
)

var (
	flagSeed    = flag.Int64("seed", -1, "prng seed")
	flagConfig  = flag.String("config", "", "generation params file (JSON or YAML), defaults if not set")
	flagCSource = flag.String("csource", "", "write C source of the target to this file")
	flagBuild   = flag.Bool("build", false, "build the C source with the harness")
	flagRun     = flag.Int("run", 0, "evaluate that many random inputs")
	flagPrint   = flag.Bool("print", false, "print the target listing")
)

type Summary struct {
	Seed      int64         `yaml:"seed"`
	Cover     int           `yaml:"coverage_sites"`
	Crashes   int           `yaml:"crash_sites"`
	InputSize int           `yaml:"input_bytes"`
	Stats     prog.GenStats `yaml:"stats"`
	Binary    string        `yaml:"binary,omitempty"`
	Probe     *Probe        `yaml:"probe,omitempty"`
}

// Probe describes what random inputs reach without any feedback.
type Probe struct {
	Inputs  int `yaml:"inputs"`
	Cover   int `yaml:"coverage_sites"`
	Crashes int `yaml:"crash_sites"`
	// Number of inputs cross-checked against the built binary.
	Checked int `yaml:"checked,omitempty"`
}

type options struct {
	seed    int64
	params  *prog.GenParams
	csource string
	build   bool
	run     int
}

func main() {
	flag.Parse()
	opts := options{
		seed:    *flagSeed,
		params:  prog.DefaultGenParams(),
		csource: *flagCSource,
		build:   *flagBuild,
		run:     *flagRun,
	}
	if opts.seed == -1 {
		opts.seed = time.Now().UnixNano()
	}
	if *flagConfig != "" {
		if err := config.LoadFile(*flagConfig, opts.params); err != nil {
			tool.Fail(err)
		}
	}
	target, summary, err := generate(opts)
	if err != nil {
		tool.Fail(err)
	}
	if *flagPrint {
		os.Stdout.Write(target.Serialize())
	}
	out, err := yaml.Marshal(summary)
	if err != nil {
		tool.Fail(err)
	}
	os.Stdout.Write(out)
}

// maxChecked limits the number of binary invocations during the probe.
const maxChecked = 100

func generate(opts options) (*prog.Target, *Summary, error) {
	target, err := prog.Generate(rand.NewSource(opts.seed), opts.params)
	if err != nil {
		return nil, nil, err
	}
	summary := &Summary{
		Seed:      opts.seed,
		Cover:     target.NumCover,
		Crashes:   target.NumCrashes,
		InputSize: target.InputSize,
		Stats:     target.Stats,
	}
	if opts.csource != "" || opts.build {
		src, err := csource.Write(target, csource.Options{Harness: opts.build})
		if err != nil {
			return nil, nil, err
		}
		if opts.csource != "" {
			if err := osutil.WriteFile(opts.csource, src); err != nil {
				return nil, nil, fmt.Errorf("failed to write C source: %w", err)
			}
		}
		if opts.build {
			if summary.Binary, err = csource.Build(src); err != nil {
				return nil, nil, err
			}
		}
	}
	if opts.run > 0 {
		if summary.Probe, err = probe(target, opts, summary.Binary); err != nil {
			return nil, nil, err
		}
	}
	return target, summary, nil
}

func probe(target *prog.Target, opts options, bin string) (*Probe, error) {
	r := rand.New(rand.NewSource(opts.seed))
	db := cover.NewDB(target.NumCover, target.NumCrashes)
	input := make([]byte, target.InputSize)
	res := &Probe{Inputs: opts.run}
	for i := 0; i < opts.run; i++ {
		r.Read(input)
		if bin == "" || res.Checked >= maxChecked {
			target.Exec(input, db.Cover, db.Crashes, nil)
			continue
		}
		want := new(prog.ExecInfo)
		target.Exec(input, make([]uint64, target.NumCover), make([]uint64, target.NumCrashes), want)
		target.Exec(input, db.Cover, db.Crashes, nil)
		got, err := csource.RunBinary(bin, input)
		if err != nil {
			return nil, err
		}
		slices.Sort(want.NewCover)
		if !slices.Equal(want.NewCover, got.NewCover) || want.Crashed != got.Crashed || want.Crash != got.Crash {
			return nil, fmt.Errorf("binary diverged on input %x: want %+v, got %+v", input, want, got)
		}
		res.Checked++
	}
	stats := db.Stats()
	res.Cover = stats.Cover
	res.Crashes = stats.Crashes
	return res, nil
}
