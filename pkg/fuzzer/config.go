// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package fuzzer

import (
	"fmt"
)

// Config describes a single fuzzing run. It must not change while the run is in progress.
type Config struct {
	// Mutate random corpus inputs rather than keep mutating the previous input.
	CoverageGuided bool
	// All workers use the same corpus rather than one corpus per worker.
	SharedInputs bool
	// All workers report into the same coverage/crash counters rather than their own.
	SharedResults bool
	Workers       int
	// The run is stopped once uptime reaches TimeLimit. 0 means run until full coverage.
	TimeLimit float64
	// Save inputs that discovered a new crash but no new coverage.
	SaveCrashes bool
	Logf        func(level int, msg string, args ...any)
}

func DefaultConfig() *Config {
	return &Config{
		CoverageGuided: true,
		Workers:        1,
		SaveCrashes:    true,
	}
}

func (cfg *Config) Validate() error {
	if cfg.Workers < 1 {
		return fmt.Errorf("bad number of workers %v, must be at least 1", cfg.Workers)
	}
	if cfg.TimeLimit < 0 {
		return fmt.Errorf("bad time limit %v, must not be negative", cfg.TimeLimit)
	}
	return nil
}

// String returns a short description of the policy, e.g. "guided/shared-inputs/private-results/w4".
func (cfg *Config) String() string {
	guided := "blind"
	if cfg.CoverageGuided {
		guided = "guided"
	}
	return fmt.Sprintf("%v/%v-inputs/%v-results/w%v", guided,
		sharing(cfg.SharedInputs), sharing(cfg.SharedResults), cfg.Workers)
}

func sharing(shared bool) string {
	if shared {
		return "shared"
	}
	return "private"
}
