// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package sweep

import (
	"fmt"

	"github.com/google/fuzzscale/pkg/config"
	"github.com/google/fuzzscale/pkg/osutil"
	"github.com/google/fuzzscale/prog"
)

type Config struct {
	// Result files are written there.
	Workdir string `json:"workdir"`
	// Number of tasks processed in parallel.
	Threads int `json:"threads"`
	// Number of fuzzing runs per data point.
	Averages int `json:"averages"`
	// Uptime limit of every run. If set, data points are coverage at the limit,
	// otherwise they are the uptime to full coverage.
	TimeLimit  float64 `json:"time_limit"`
	MinWorkers int     `json:"min_workers"`
	MaxWorkers int     `json:"max_workers"`
	WorkerStep int     `json:"worker_step"`
	// Seeds target generation and all fuzzing runs.
	Seed        int64           `json:"seed"`
	SaveCrashes bool            `json:"save_crashes"`
	Target      *prog.GenParams `json:"target"`
	// Sharing policies to sweep, all four combinations if not set.
	Policies []Policy `json:"policies"`
}

type Policy struct {
	SharedInputs  bool `json:"shared_inputs"`
	SharedResults bool `json:"shared_results"`
}

func DefaultConfig() *Config {
	return &Config{
		Threads:     16,
		Averages:    100,
		TimeLimit:   500,
		MinWorkers:  1,
		MaxWorkers:  256,
		WorkerStep:  1,
		SaveCrashes: true,
		Target:      prog.DefaultGenParams(),
	}
}

func AllPolicies() []Policy {
	var ret []Policy
	for _, sharedInputs := range []bool{false, true} {
		for _, sharedResults := range []bool{false, true} {
			ret = append(ret, Policy{SharedInputs: sharedInputs, SharedResults: sharedResults})
		}
	}
	return ret
}

// LoadFile loads a sweep config on top of the default values.
func LoadFile(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if err := config.LoadFile(filename, cfg); err != nil {
		return nil, err
	}
	if cfg.Policies == nil {
		cfg.Policies = AllPolicies()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", filename, err)
	}
	cfg.Workdir = osutil.Abs(cfg.Workdir)
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Workdir == "" {
		return fmt.Errorf("workdir is not set")
	}
	if cfg.Threads < 1 {
		return fmt.Errorf("bad threads %v", cfg.Threads)
	}
	if cfg.Averages < 1 {
		return fmt.Errorf("bad averages %v", cfg.Averages)
	}
	if cfg.TimeLimit < 0 {
		return fmt.Errorf("bad time_limit %v", cfg.TimeLimit)
	}
	if cfg.MinWorkers < 1 || cfg.MaxWorkers < cfg.MinWorkers || cfg.WorkerStep < 1 {
		return fmt.Errorf("bad worker range [%v, %v] step %v",
			cfg.MinWorkers, cfg.MaxWorkers, cfg.WorkerStep)
	}
	if cfg.Policies != nil && len(cfg.Policies) == 0 {
		return fmt.Errorf("empty sharing policies")
	}
	seen := make(map[Policy]bool)
	for _, policy := range cfg.Policies {
		if seen[policy] {
			return fmt.Errorf("duplicate policy %+v", policy)
		}
		seen[policy] = true
	}
	if cfg.Target == nil {
		return fmt.Errorf("no target params")
	}
	if err := cfg.Target.Validate(); err != nil {
		return fmt.Errorf("bad target params: %w", err)
	}
	return nil
}

func (cfg *Config) policies() []Policy {
	if cfg.Policies == nil {
		return AllPolicies()
	}
	return cfg.Policies
}
