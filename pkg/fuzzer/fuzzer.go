// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package fuzzer simulates coverage-guided mutation fuzzing of a synthetic target
// by a number of workers under different corpus and coverage sharing policies.
//
// Workers are not real threads: a run advances them in lock-step round-robin order,
// so the uptime of a run is the number of executed test cases divided by the number of workers.
package fuzzer

import (
	"math/rand"

	"github.com/google/fuzzscale/pkg/corpus"
	"github.com/google/fuzzscale/pkg/cover"
	"github.com/google/fuzzscale/pkg/log"
	"github.com/google/fuzzscale/prog"
)

// Fuzzer runs fuzzing sessions against a single target.
// It is not safe for concurrent use, but runs many times reusing its corpora and counters.
type Fuzzer struct {
	target  *prog.Target
	rnd     *rand.Rand
	corpora []*corpus.Corpus
	dbs     []*cover.DB
	input   []byte
	info    prog.ExecInfo
}

func NewFuzzer(target *prog.Target, rnd *rand.Rand) *Fuzzer {
	return &Fuzzer{
		target: target,
		rnd:    rnd,
		input:  make([]byte, target.InputSize),
	}
}

// Result is the outcome of a run.
// If Done, the run reached full coverage after Uptime.
// Otherwise it hit the time limit and Cover is what the last worker's shard discovered by then.
type Result struct {
	Done       bool
	Uptime     float64
	Cover      int
	Crashes    int
	Cases      uint64
	CorpusSize int
	// Inputs with distinct data in the corpus shard of the last worker.
	CorpusDistinct int
}

// Run fuzzes the target from scratch until full coverage or the time limit.
// It panics if cfg is not valid.
func (fuzzer *Fuzzer) Run(cfg *Config) Result {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	logf := cfg.Logf
	if logf == nil {
		logf = log.Logf
	}
	numInputShards, numOutputShards := cfg.Workers, cfg.Workers
	if cfg.SharedInputs {
		numInputShards = 1
	}
	if cfg.SharedResults {
		numOutputShards = 1
	}
	corpora := fuzzer.resetCorpora(numInputShards)
	dbs := fuzzer.resetDBs(numOutputShards)
	clear(fuzzer.input)
	StatRuns.Add(1)
	logf(2, "starting %v run", cfg)

	var cases uint64
	for {
		for worker := 0; worker < cfg.Workers; worker++ {
			cases++
			corp := corpora[worker%numInputShards]
			db := dbs[worker%numOutputShards]
			if cfg.CoverageGuided {
				if item := corp.Choose(fuzzer.rnd); item != nil {
					copy(fuzzer.input, item.Data)
				}
			}
			mutateData(fuzzer.rnd, fuzzer.input)
			fuzzer.info.Reset()
			newCover := fuzzer.target.Exec(fuzzer.input, db.Cover, db.Crashes, &fuzzer.info)
			uptime := float64(cases) / float64(cfg.Workers)
			if cfg.TimeLimit != 0 && uptime >= cfg.TimeLimit {
				res := fuzzer.result(cases, uptime, corp, db)
				StatRunsTimedOut.Add(1)
				logf(2, "%v run timed out at %.1f with %v/%v coverage",
					cfg, uptime, res.Cover, fuzzer.target.NumCover)
				return res
			}
			if !newCover && (!cfg.SaveCrashes || len(fuzzer.info.NewCrashes) == 0) {
				continue
			}
			corp.Save(corpus.NewInput{
				Data:       fuzzer.input,
				NewCover:   fuzzer.info.NewCover,
				NewCrashes: fuzzer.info.NewCrashes,
				Worker:     worker,
			})
			StatCorpusSaves.Add(1)
			logf(3, "worker %v: new cover %v, new crashes %v",
				worker, fuzzer.info.NewCover, fuzzer.info.NewCrashes)
			if db.Cover.Full() {
				res := fuzzer.result(cases, uptime, corp, db)
				res.Done = true
				StatRunsDone.Add(1)
				StatUptime.AddSample(uptime)
				logf(2, "%v run reached full coverage at %.1f", cfg, uptime)
				return res
			}
		}
	}
}

func (fuzzer *Fuzzer) result(cases uint64, uptime float64, corp *corpus.Corpus, db *cover.DB) Result {
	StatExecTotal.Add(int(cases))
	stats := db.Stats()
	corpusStats := corp.Stats()
	StatCorpusDistinct.Add(corpusStats.Distinct)
	return Result{
		Uptime:         uptime,
		Cover:          stats.Cover,
		Crashes:        stats.Crashes,
		Cases:          cases,
		CorpusSize:     corpusStats.Items,
		CorpusDistinct: corpusStats.Distinct,
	}
}

func (fuzzer *Fuzzer) resetCorpora(n int) []*corpus.Corpus {
	for len(fuzzer.corpora) < n {
		fuzzer.corpora = append(fuzzer.corpora, corpus.NewCorpus())
	}
	corpora := fuzzer.corpora[:n]
	for _, corp := range corpora {
		corp.Reset()
	}
	return corpora
}

func (fuzzer *Fuzzer) resetDBs(n int) []*cover.DB {
	for len(fuzzer.dbs) < n {
		fuzzer.dbs = append(fuzzer.dbs, cover.NewDB(fuzzer.target.NumCover, fuzzer.target.NumCrashes))
	}
	dbs := fuzzer.dbs[:n]
	for _, db := range dbs {
		db.Reset()
	}
	return dbs
}
