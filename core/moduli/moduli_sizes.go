package moduli

import (
	"math"
	"sort"

	"github.com/tuneinsight/lattigo-modchain/indexset"
	"github.com/tuneinsight/lattigo-modchain/utils/bignum"
)

// sizeEntry is one (log-size, prime subset) pair of the ModuliSizes
// table.
type sizeEntry struct {
	size float64
	set  indexset.IndexSet[int]
}

// ModuliSizes is the pre-computed, sorted enumeration of every
// (subset of smallPrimes) x (prefix interval of ctxtPrimes) pair, used
// to answer runtime set-selection queries without touching the chain
// itself. Once built it is immutable and safe for concurrent readers.
type ModuliSizes struct {
	entries []sizeEntry
}

// NewModuliSizes materializes the table from a Context's chain,
// ctxtPrimes and smallPrimes role sets.
func NewModuliSizes(ctx *Context) (*ModuliSizes, error) {
	small := ctx.SmallPrimes().Elements()
	ctxt := ctx.CtxtPrimes().Elements()

	entries := []sizeEntry{{size: 0, set: indexset.IndexSet[int]{}}}

	for _, i := range small {
		q, _ := ctx.IthPrime(i)
		s := bignum.LogOfPrimes(q)

		n := len(entries)
		for j := 0; j < n; j++ {
			e := entries[j]
			entries = append(entries, sizeEntry{size: e.size + s, set: e.set.Add(i)})
		}
	}

	n0 := len(entries)
	var curSet indexset.IndexSet[int]
	var intervalSize float64

	for _, i := range ctxt {
		q, _ := ctx.IthPrime(i)
		curSet = curSet.Add(i)
		intervalSize += bignum.LogOfPrimes(q)

		for j := 0; j < n0; j++ {
			e := entries[j]
			entries = append(entries, sizeEntry{size: e.size + intervalSize, set: e.set.Union(curSet)})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].size != entries[j].size {
			return entries[i].size < entries[j].size
		}
		return entries[i].set.Less(entries[j].set)
	})

	return &ModuliSizes{entries: entries}, nil
}

// Len returns the number of entries in the table: 2^|smallPrimes| *
// (|ctxtPrimes|+1).
func (m *ModuliSizes) Len() int { return len(m.entries) }

// Size returns the log-size of the i-th entry in ascending order.
func (m *ModuliSizes) Size(i int) float64 { return m.entries[i].size }

// Set returns the prime subset of the i-th entry in ascending order.
func (m *ModuliSizes) Set(i int) indexset.IndexSet[int] { return m.entries[i].set }

// oneBitSlack is the natural-log tolerance ("one bit") the fallback
// scans widen their window by: sizes are natural logs throughout, so
// one bit is log(2), not 1.0.
const oneBitSlack = math.Ln2

// GetSet4Size returns the IndexSet of the entry whose size lies in
// [low, high] and whose cost — the cardinality of fromSet minus the
// entry's set — is minimal, preferring the later (larger) entry among
// ties. When no entry is in range, it falls back to the entries within
// one bit of the nearest entry outside the window (below it, or above it
// when reverse is set) and returns the cheapest of those, preferring the
// one closest to the window among ties. It panics with ErrNoFeasibleSet
// when there is no entry on that side of the window.
func (m *ModuliSizes) GetSet4Size(low, high float64, fromSet indexset.IndexSet[int], reverse bool) indexset.IndexSet[int] {
	return m.getSet4SizeCost(low, high, reverse, func(e sizeEntry) int {
		return fromSet.Diff(e.set).Card()
	})
}

// GetSet4Size2 is GetSet4Size with a two-source cost: the sum of the
// cardinalities of from1 and from2 minus the entry's set.
func (m *ModuliSizes) GetSet4Size2(low, high float64, from1, from2 indexset.IndexSet[int], reverse bool) indexset.IndexSet[int] {
	return m.getSet4SizeCost(low, high, reverse, func(e sizeEntry) int {
		return from1.Diff(e.set).Card() + from2.Diff(e.set).Card()
	})
}

func (m *ModuliSizes) getSet4SizeCost(low, high float64, reverse bool, cost func(sizeEntry) int) indexset.IndexSet[int] {
	n := len(m.entries)
	idx := sort.Search(n, func(i int) bool { return m.entries[i].size >= low })

	bestIdx, bestCost := -1, 0

	// In-range scan: ties favor the later (larger) entry.
	for i := idx; i < n && m.entries[i].size <= high; i++ {
		c := cost(m.entries[i])
		if bestIdx == -1 || c <= bestCost {
			bestIdx, bestCost = i, c
		}
	}

	if bestIdx != -1 {
		return m.entries[bestIdx].set
	}

	// Slack fallback: ties favor the first (closest) entry found.
	if !reverse {
		if idx-1 >= 0 {
			threshold := m.entries[idx-1].size - oneBitSlack
			for i := idx - 1; i >= 0 && m.entries[i].size >= threshold; i-- {
				c := cost(m.entries[i])
				if bestIdx == -1 || c < bestCost {
					bestIdx, bestCost = i, c
				}
			}
		}
	} else {
		if idx < n {
			threshold := m.entries[idx].size + oneBitSlack
			for i := idx; i < n && m.entries[i].size <= threshold; i++ {
				c := cost(m.entries[i])
				if bestIdx == -1 || c < bestCost {
					bestIdx, bestCost = i, c
				}
			}
		}
	}

	if bestIdx == -1 {
		assertNoFeasibleSet()
	}

	return m.entries[bestIdx].set
}
