// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// syz-scale measures how coverage-guided fuzzing of a synthetic target scales
// with the number of workers under different corpus and coverage sharing policies.
// For every config it generates a target, runs the sweep and writes the result
// tables into the config workdir.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/fuzzscale/pkg/config"
	"github.com/google/fuzzscale/pkg/csource"
	"github.com/google/fuzzscale/pkg/log"
	"github.com/google/fuzzscale/pkg/osutil"
	"github.com/google/fuzzscale/pkg/stat"
	"github.com/google/fuzzscale/pkg/sweep"
	"github.com/google/fuzzscale/pkg/tool"
	"github.com/google/fuzzscale/prog"
)

var (
	flagConfigs tool.CfgsFlag
	flagHTTP    = flag.String("http", "", "serve metrics on this address (e.g. :8080)")
)

func main() {
	flag.Var(&flagConfigs, "config", "comma-separated list of sweep config files")
	flag.Parse()
	if len(flagConfigs) == 0 {
		tool.Failf("no config files specified, use -config")
	}
	var cfgs []*sweep.Config
	for _, file := range flagConfigs {
		cfg, err := sweep.LoadFile(file)
		if err != nil {
			tool.Failf("failed to load config: %v", err)
		}
		cfgs = append(cfgs, cfg)
	}
	log.EnableLogCaching(1000, 1<<20)
	if *flagHTTP != "" {
		serveHTTP(*flagHTTP)
	}
	ctx := osutil.HandleInterrupts(context.Background())
	go heartbeat(ctx)
	for _, cfg := range cfgs {
		err := runSweep(ctx, cfg)
		if errors.Is(err, context.Canceled) {
			log.Logf(0, "interrupted")
			return
		}
		if err != nil {
			log.Fatal(err)
		}
	}
}

func runSweep(ctx context.Context, cfg *sweep.Config) error {
	target, err := prog.Generate(rand.NewSource(cfg.Seed), cfg.Target)
	if err != nil {
		return fmt.Errorf("failed to generate target: %w", err)
	}
	log.Logf(0, "generated target: %v coverage sites, %v crash sites, %v input bytes, %v/%v bits used",
		target.NumCover, target.NumCrashes, target.InputSize, target.Stats.UsedBits, cfg.Target.MaxInputBits)
	if err := saveTarget(cfg, target); err != nil {
		return err
	}
	start := time.Now()
	res, err := sweep.Run(ctx, cfg, target)
	if err != nil {
		if res == nil {
			return fmt.Errorf("sweep failed: %w", err)
		}
		// Some result files are missing, the rest are still useful.
		log.Logf(0, "failed to save some results: %v", err)
	}
	log.Logf(0, "sweep of %v data points finished in %v", len(res.Points), time.Since(start).Round(time.Second))
	return nil
}

// saveTarget saves the config, the target listing and the target C source next to the results,
// so that the results can be reproduced and the target inspected.
func saveTarget(cfg *sweep.Config, target *prog.Target) error {
	if err := osutil.MkdirAll(cfg.Workdir); err != nil {
		return fmt.Errorf("failed to create workdir: %w", err)
	}
	if err := config.SaveFile(filepath.Join(cfg.Workdir, "sweep.cfg"), cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if err := osutil.WriteFile(filepath.Join(cfg.Workdir, "target.txt"), target.Serialize()); err != nil {
		return fmt.Errorf("failed to save target: %w", err)
	}
	src, err := csource.Write(target, csource.Options{Harness: true})
	if err != nil {
		return err
	}
	if err := osutil.WriteFile(filepath.Join(cfg.Workdir, "target.c"), src); err != nil {
		return fmt.Errorf("failed to save target source: %w", err)
	}
	return nil
}

func heartbeat(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		log.Logf(0, "%s", formatStats(stat.Collect(stat.Console)))
	}
}

func formatStats(stats []stat.UI) string {
	var parts []string
	for _, s := range stats {
		parts = append(parts, fmt.Sprintf("%v: %v", s.Name, s.Value))
	}
	return strings.Join(parts, ", ")
}
