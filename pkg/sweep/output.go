// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package sweep

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/google/fuzzscale/pkg/osutil"
	"github.com/google/fuzzscale/pkg/stats"
	"golang.org/x/exp/maps"
)

// Series is the set of data points that differ only in the number of workers.
type Series struct {
	Policy
	Guided bool
}

func (s Series) FileName() string {
	return fmt.Sprintf("coverage_%v_inputshare_%v_resultshare_%v.txt",
		s.Guided, s.SharedInputs, s.SharedResults)
}

const PValuesFile = "pvalues.csv"

// Series groups points by series, every series is sorted by the number of workers.
func (res *Results) Series() map[Series][]*Point {
	ret := make(map[Series][]*Point)
	for _, task := range sortedTasks(res.Points) {
		s := Series{Policy: task.Policy, Guided: task.Guided}
		ret[s] = append(ret[s], res.Points[task])
	}
	return ret
}

// Save writes one table per series and the guided vs blind comparison into dir.
// A failure to write one file does not prevent writing the others.
func (res *Results) Save(dir string) error {
	if err := osutil.MkdirAll(dir); err != nil {
		return fmt.Errorf("failed to create results dir: %w", err)
	}
	var errs []error
	for s, points := range res.Series() {
		if err := osutil.WriteFile(filepath.Join(dir, s.FileName()), res.formatSeries(points)); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %v: %w", s.FileName(), err))
		}
	}
	data, err := res.formatPValues()
	if err == nil {
		err = osutil.WriteFile(filepath.Join(dir, PValuesFile), data)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to write %v: %w", PValuesFile, err))
	}
	return errors.Join(errs...)
}

// formatSeries formats rows of "workers mean stddev", plus the number of runs
// that reached full coverage if there was a time limit.
func (res *Results) formatSeries(points []*Point) []byte {
	buf := new(bytes.Buffer)
	for _, p := range points {
		fmt.Fprintf(buf, "%10v %20.10f %20.10f", p.Workers, p.Mean, p.StdDev)
		if res.TimeLimit != 0 {
			fmt.Fprintf(buf, " %10v", p.Exhausted)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// formatPValues compares guided and blind samples of the same policy and worker count
// with the Mann-Whitney U test.
func (res *Results) formatPValues() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	w.Write([]string{"shared_inputs", "shared_results", "workers",
		"blind_median", "guided_median", "p_value"})
	for _, task := range sortedTasks(res.Points) {
		if !task.Guided {
			continue
		}
		guided := res.Points[task]
		blindTask := task
		blindTask.Guided = false
		blind := res.Points[blindTask]
		if blind == nil {
			continue
		}
		pval := "-"
		if p, err := stats.UTest(&blind.Sample, &guided.Sample); err == nil {
			pval = strconv.FormatFloat(p, 'g', 6, 64)
		}
		w.Write([]string{
			strconv.FormatBool(task.SharedInputs),
			strconv.FormatBool(task.SharedResults),
			strconv.Itoa(task.Workers),
			strconv.FormatFloat(blind.Sample.Median(), 'f', 3, 64),
			strconv.FormatFloat(guided.Sample.Median(), 'f', 3, 64),
			pval,
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func sortedTasks(points map[Task]*Point) []Task {
	tasks := maps.Keys(points)
	slices.SortFunc(tasks, func(a, b Task) int {
		if a.Workers != b.Workers {
			return a.Workers - b.Workers
		}
		return compareKey(a) - compareKey(b)
	})
	return tasks
}

func compareKey(task Task) int {
	key := 0
	for i, flag := range []bool{task.SharedInputs, task.SharedResults, task.Guided} {
		if flag {
			key |= 1 << i
		}
	}
	return key
}
