// Copyright 2021 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package stats

import "golang.org/x/perf/benchstat" // nolint:all

// UTest runs the two-sided Mann-Whitney U test and returns the probability
// that xs and ys come from the same distribution.
// It fails if the samples are too small or all values are equal.
func UTest(xs, ys *Sample) (pval float64, err error) {
	// The test itself lives in an internal package, benchstat only exposes it over Metrics.
	return benchstat.UTest(&benchstat.Metrics{RValues: xs.Xs}, &benchstat.Metrics{RValues: ys.Xs})
}
