// Copyright 2021 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package stats provides summary statistics over repeated experiment measurements.
package stats

import (
	"math"
	"sort"
)

// Sample is a set of measurements of the same quantity.
type Sample struct {
	Xs     []float64
	Sorted bool
}

func (s *Sample) Append(x float64) {
	s.Xs = append(s.Xs, x)
	s.Sorted = false
}

func (s *Sample) Len() int {
	return len(s.Xs)
}

func (s *Sample) Sort() {
	if !s.Sorted {
		sort.Float64s(s.Xs)
		s.Sorted = true
	}
}

func (s *Sample) Mean() float64 {
	if len(s.Xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range s.Xs {
		sum += x
	}
	return sum / float64(len(s.Xs))
}

// StdDev returns the population standard deviation, sqrt(E[x^2] - E[x]^2).
func (s *Sample) StdDev() float64 {
	if len(s.Xs) == 0 {
		return math.NaN()
	}
	mean := s.Mean()
	sum := 0.0
	for _, x := range s.Xs {
		sum += (x - mean) * (x - mean)
	}
	return math.Sqrt(sum / float64(len(s.Xs)))
}

// Percentile returns the p-th percentile (p in [0, 1]) with linear interpolation
// between the closest ranks.
func (s *Sample) Percentile(p float64) float64 {
	if len(s.Xs) == 0 {
		return math.NaN()
	}
	s.Sort()
	pos := p * float64(len(s.Xs)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return s.Xs[lo] + (s.Xs[hi]-s.Xs[lo])*frac
}

func (s *Sample) Median() float64 {
	return s.Percentile(0.5)
}
