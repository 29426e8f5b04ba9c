// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package fuzzer

import "github.com/google/fuzzscale/pkg/stat"

// Stats are shared by all fuzzers in the process, the sweep runs many of them in parallel.
var (
	StatExecTotal = stat.New("exec total", "Total test case executions",
		stat.Console, stat.Rate{}, stat.Prometheus("fuzzscale_exec_total"))
	StatRuns = stat.New("runs", "Number of started fuzzing runs",
		stat.Simple, stat.Prometheus("fuzzscale_runs"))
	StatRunsDone = stat.New("runs done", "Number of runs that reached full coverage",
		stat.Console, stat.Prometheus("fuzzscale_runs_done"))
	StatRunsTimedOut = stat.New("runs timed out", "Number of runs stopped by the time limit",
		stat.Console, stat.Prometheus("fuzzscale_runs_timed_out"))
	StatUptime = stat.New("run uptime", "Uptime of runs that reached full coverage",
		stat.Distribution{})
	StatCorpusSaves = stat.New("corpus saves", "Number of inputs saved to corpora",
		stat.Rate{}, stat.Prometheus("fuzzscale_corpus_saves"))
	StatCorpusDistinct = stat.New("corpus distinct", "Distinct inputs in the corpus at the end of a run",
		stat.Distribution{})
)
