// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package cover keeps per-site hit counters of a synthetic target.
package cover

// Counters holds one hit counter per site id.
// A site is discovered once its counter is non-zero. Counters only grow until Reset.
type Counters []uint64

func (c Counters) Discovered() int {
	n := 0
	for _, v := range c {
		if v != 0 {
			n++
		}
	}
	return n
}

// Full reports whether every site has been discovered.
func (c Counters) Full() bool {
	for _, v := range c {
		if v == 0 {
			return false
		}
	}
	return true
}

func (c Counters) Reset() {
	clear(c)
}

// DB is a coverage/crash shard: the counters that a group of workers reports into.
type DB struct {
	Cover   Counters
	Crashes Counters
}

func NewDB(numCover, numCrashes int) *DB {
	return &DB{
		Cover:   make(Counters, numCover),
		Crashes: make(Counters, numCrashes),
	}
}

func (db *DB) Reset() {
	db.Cover.Reset()
	db.Crashes.Reset()
}

// Stats is a snapshot of the discovered and total site counts.
type Stats struct {
	Cover        int
	TotalCover   int
	Crashes      int
	TotalCrashes int
}

func (db *DB) Stats() Stats {
	return Stats{
		Cover:        db.Cover.Discovered(),
		TotalCover:   len(db.Cover),
		Crashes:      db.Crashes.Discovered(),
		TotalCrashes: len(db.Crashes),
	}
}
