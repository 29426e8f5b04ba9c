// Copyright 2024 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package stat provides named process-wide metrics (Val) for progress reporting.
//
// Typical use:
//
//	statRuns := stat.New("runs", "Number of fuzzing runs", stat.Console)
//	statRuns.Add(1)
//
// Metrics may also read their value from a function:
//
//	stat.New("corpus", "Corpus size", func() int { return corpus.Len() })
//
// Heartbeat logs use Collect(Console), the HTTP stats page uses Collect(All).
package stat

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VividCortex/gohistogram"
	"github.com/prometheus/client_golang/prometheus"
)

type UI struct {
	Name  string
	Desc  string
	Level Level
	Value string
	V     int
}

func New(name, desc string, opts ...any) *Val {
	return global.New(name, desc, opts...)
}

func Collect(level Level) []UI {
	return global.Collect(level)
}

var global = newSet(time.Now)

type set struct {
	mu    sync.Mutex
	vals  map[string]*Val
	now   func() time.Time
	start time.Time
}

func newSet(now func() time.Time) *set {
	return &set{
		vals:  make(map[string]*Val),
		now:   now,
		start: now(),
	}
}

// Level says where the metric is shown: Console metrics go to heartbeat logs,
// Simple metrics to summaries, All is everything.
type Level int

const (
	All Level = iota
	Simple
	Console
)

// Prometheus exports the metric as a gauge with the given name.
type Prometheus string

// Rate shows the metric as a total plus its per-second/minute/hour rate since start.
type Rate struct{}

// Distribution collects a histogram of individual samples.
// Val returns their mean, Quantile returns percentiles.
type Distribution struct{}

// Other accepted options are 'func() int' to read the value from a function
// and 'func(int, time.Duration) string' to format the value.

const histogramBins = 255

func (s *set) New(name, desc string, opts ...any) *Val {
	v := &Val{
		name: name,
		desc: desc,
		fmt:  func(v int, _ time.Duration) string { return strconv.Itoa(v) },
	}
	var promName Prometheus
	for _, o := range opts {
		switch opt := o.(type) {
		case Level:
			v.level = opt
		case Rate:
			v.fmt = formatRate
		case Distribution:
			v.hist = gohistogram.NewHistogram(histogramBins)
		case func() int:
			v.ext = opt
		case func(int, time.Duration) string:
			v.fmt = opt
		case Prometheus:
			promName = opt
		default:
			panic(fmt.Sprintf("unknown stat option %#v", o))
		}
	}
	if promName != "" {
		prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: string(promName),
			Help: desc,
		}, func() float64 { return float64(v.Val()) }))
	}
	s.mu.Lock()
	s.vals[name] = v
	s.mu.Unlock()
	return v
}

// Collect returns metrics of at least the given level, the most important first.
func (s *set) Collect(level Level) []UI {
	s.mu.Lock()
	defer s.mu.Unlock()
	period := max(s.now().Sub(s.start).Truncate(time.Second), time.Second)
	var res []UI
	for _, v := range s.vals {
		if v.level < level {
			continue
		}
		val := v.Val()
		res = append(res, UI{
			Name:  v.name,
			Desc:  v.desc,
			Level: v.level,
			Value: v.fmt(val, period),
			V:     val,
		})
	}
	slices.SortFunc(res, func(a, b UI) int {
		if a.Level != b.Level {
			return cmp.Compare(b.Level, a.Level)
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return res
}

type Val struct {
	name  string
	desc  string
	level Level
	val   atomic.Uint64
	ext   func() int
	fmt   func(int, time.Duration) string
	// Only for distributions.
	histMu sync.Mutex
	hist   *gohistogram.NumericHistogram
}

// Add adds val to a counter, or records it as a sample of a distribution.
// Negative values decrement counters.
func (v *Val) Add(val int) {
	if v.ext != nil {
		panic(fmt.Sprintf("stat %v reads its value from a function", v.name))
	}
	if v.hist != nil {
		v.AddSample(float64(val))
		return
	}
	v.val.Add(uint64(val))
}

// AddSample records a fractional sample of a distribution, e.g. run uptime.
func (v *Val) AddSample(val float64) {
	if v.hist == nil {
		panic(fmt.Sprintf("stat %v is not a distribution", v.name))
	}
	v.histMu.Lock()
	v.hist.Add(val)
	v.histMu.Unlock()
}

func (v *Val) Val() int {
	switch {
	case v.ext != nil:
		return v.ext()
	case v.hist != nil:
		v.histMu.Lock()
		defer v.histMu.Unlock()
		if v.hist.Count() == 0 {
			return 0
		}
		return int(v.hist.Mean())
	default:
		return int(v.val.Load())
	}
}

// Quantile returns the approximate q-th quantile of a distribution.
func (v *Val) Quantile(q float64) float64 {
	if v.hist == nil {
		panic(fmt.Sprintf("stat %v is not a distribution", v.name))
	}
	v.histMu.Lock()
	defer v.histMu.Unlock()
	if v.hist.Count() == 0 {
		return 0
	}
	return v.hist.Quantile(q)
}

func formatRate(v int, period time.Duration) string {
	secs := int(period.Seconds())
	if rate := v / secs; rate >= 10 {
		return fmt.Sprintf("%v (%v/sec)", v, rate)
	}
	if rate := v * 60 / secs; rate >= 10 {
		return fmt.Sprintf("%v (%v/min)", v, rate)
	}
	return fmt.Sprintf("%v (%v/hour)", v, v*60*60/secs)
}
