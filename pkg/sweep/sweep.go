// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package sweep measures how fuzzing of a single target scales with the number of workers.
// It runs every combination of sharing policy, guidance and worker count a number of times
// on a pool of threads and aggregates the outcomes into per-policy tables.
package sweep

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/fuzzscale/pkg/fuzzer"
	"github.com/google/fuzzscale/pkg/hash"
	"github.com/google/fuzzscale/pkg/log"
	"github.com/google/fuzzscale/pkg/stat"
	"github.com/google/fuzzscale/pkg/stats"
	"github.com/google/fuzzscale/prog"
	"golang.org/x/sync/errgroup"
)

var (
	statTasksPending = stat.New("tasks pending", "Number of sweep data points not yet measured",
		stat.Console, stat.Prometheus("fuzzscale_sweep_tasks_pending"))
	statTasksDone = stat.New("tasks done", "Number of measured sweep data points",
		stat.Console, stat.Prometheus("fuzzscale_sweep_tasks_done"))
)

// Task is a single data point of the sweep.
type Task struct {
	Policy
	Guided  bool
	Workers int
}

func (task Task) String() string {
	return task.config().String()
}

func (task Task) config() *fuzzer.Config {
	return &fuzzer.Config{
		CoverageGuided: task.Guided,
		SharedInputs:   task.SharedInputs,
		SharedResults:  task.SharedResults,
		Workers:        task.Workers,
	}
}

// Tasks returns the cross product of policies, guidance and worker counts.
func Tasks(cfg *Config) []Task {
	var tasks []Task
	for _, policy := range cfg.policies() {
		for _, guided := range []bool{false, true} {
			for workers := cfg.MinWorkers; workers <= cfg.MaxWorkers; workers += cfg.WorkerStep {
				tasks = append(tasks, Task{
					Policy:  policy,
					Guided:  guided,
					Workers: workers,
				})
			}
		}
	}
	return tasks
}

// Point is the measured outcome of a task.
type Point struct {
	Task
	// Uptime to full coverage, or coverage at the time limit.
	Sample stats.Sample
	Mean   float64
	StdDev float64
	// Number of runs that reached full coverage before the time limit.
	// Their coverage is the total site count, so they flatten the coverage curve.
	Exhausted int
	// Mean final corpus size and number of inputs with distinct data.
	Corpus         float64
	CorpusDistinct float64
}

type Results struct {
	TimeLimit float64
	NumCover  int
	Points    map[Task]*Point
}

// Run measures all tasks and saves the results into cfg.Workdir.
// Results are returned even if saving some of the files failed.
func Run(ctx context.Context, cfg *Config, target *prog.Target) (*Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tasks := Tasks(cfg)
	res := &Results{
		TimeLimit: cfg.TimeLimit,
		NumCover:  target.NumCover,
		Points:    make(map[Task]*Point),
	}
	var mu sync.Mutex
	statTasksPending.Add(len(tasks))
	taskChan := make(chan Task)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Threads; i++ {
		g.Go(func() error {
			for task := range taskChan {
				point, err := runTask(gctx, cfg, target, task)
				if err != nil {
					return err
				}
				mu.Lock()
				res.Points[task] = point
				mu.Unlock()
				statTasksPending.Add(-1)
				statTasksDone.Add(1)
			}
			return nil
		})
	}
loop:
	for _, task := range tasks {
		select {
		case taskChan <- task:
		case <-gctx.Done():
			break loop
		}
	}
	close(taskChan)
	err := g.Wait()
	if err == nil {
		// Cancellation may stop the feeding loop before any task observes it.
		err = ctx.Err()
	}
	if err != nil {
		statTasksPending.Add(len(res.Points) - len(tasks))
		return nil, err
	}
	log.Logf(0, "measured %v data points, saving results to %v", len(tasks), cfg.Workdir)
	return res, res.Save(cfg.Workdir)
}

func runTask(ctx context.Context, cfg *Config, target *prog.Target, task Task) (*Point, error) {
	rnd := rand.New(rand.NewSource(taskSeed(cfg.Seed, task)))
	fz := fuzzer.NewFuzzer(target, rnd)
	fcfg := task.config()
	fcfg.TimeLimit = cfg.TimeLimit
	fcfg.SaveCrashes = cfg.SaveCrashes
	point := &Point{Task: task}
	for i := 0; i < cfg.Averages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		run := fz.Run(fcfg)
		point.Corpus += float64(run.CorpusSize)
		point.CorpusDistinct += float64(run.CorpusDistinct)
		switch {
		case cfg.TimeLimit == 0:
			point.Sample.Append(run.Uptime)
		case run.Done:
			point.Exhausted++
			point.Sample.Append(float64(target.NumCover))
		default:
			point.Sample.Append(float64(run.Cover))
		}
	}
	if point.Exhausted != 0 {
		log.Logf(0, "warning: %v: %v/%v runs reached full coverage before the time limit",
			task, point.Exhausted, cfg.Averages)
	}
	point.Mean = point.Sample.Mean()
	point.StdDev = point.Sample.StdDev()
	point.Corpus /= float64(cfg.Averages)
	point.CorpusDistinct /= float64(cfg.Averages)
	log.Logf(1, "%v: mean %.3f stddev %.3f, corpus %.1f (%.1f distinct)",
		task, point.Mean, point.StdDev, point.Corpus, point.CorpusDistinct)
	return point, nil
}

// taskSeed derives the seed of a task, so that results do not depend on task scheduling.
func taskSeed(seed int64, task Task) int64 {
	return hash.Hash([]byte(fmt.Sprintf("%v:%v", seed, task))).Seed()
}
