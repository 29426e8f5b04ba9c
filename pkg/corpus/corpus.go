// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package corpus

import (
	"math/rand"

	"github.com/google/fuzzscale/pkg/hash"
)

// Corpus is an append-only set of inputs that discovered something new.
// Corpus is not safe for concurrent use: a shard is owned by the single
// thread that drives a fuzzing run.
type Corpus struct {
	items []*Item
	sigs  map[string]int
}

func NewCorpus() *Corpus {
	return &Corpus{
		sigs: make(map[string]int),
	}
}

// Item objects are to be treated as immutable.
type Item struct {
	Sig        string
	Data       []byte
	NewCover   []int // coverage sites first reached by this input
	NewCrashes []int // crash sites first reached by this input
	Worker     int   // worker that discovered the input
}

type NewInput struct {
	Data       []byte
	NewCover   []int
	NewCrashes []int
	Worker     int
}

// Save appends a copy of the input to the corpus.
// The same data may be saved several times if it was discovered by different shards'
// workers or reached new sites again after a shard reset.
func (corpus *Corpus) Save(inp NewInput) *Item {
	item := &Item{
		Sig:        hash.String(inp.Data),
		Data:       append([]byte{}, inp.Data...),
		NewCover:   append([]int{}, inp.NewCover...),
		NewCrashes: append([]int{}, inp.NewCrashes...),
		Worker:     inp.Worker,
	}
	corpus.items = append(corpus.items, item)
	corpus.sigs[item.Sig]++
	return item
}

// Choose returns a uniformly random item, or nil if the corpus is empty.
func (corpus *Corpus) Choose(r *rand.Rand) *Item {
	if len(corpus.items) == 0 {
		return nil
	}
	return corpus.items[r.Intn(len(corpus.items))]
}

func (corpus *Corpus) Len() int {
	return len(corpus.items)
}

// Items returns the items in the order they were saved.
func (corpus *Corpus) Items() []*Item {
	return corpus.items
}

func (corpus *Corpus) Reset() {
	clear(corpus.items)
	corpus.items = corpus.items[:0]
	clear(corpus.sigs)
}

// Stats is a snapshot of the relevant current state figures.
type Stats struct {
	Items    int
	Distinct int
}

func (corpus *Corpus) Stats() Stats {
	return Stats{
		Items:    len(corpus.items),
		Distinct: len(corpus.sigs),
	}
}
