// Package topo orders a pedigree so that every parent precedes its
// children.
//
// [Sort] is the authoritative acyclicity gate: algorithms that require an
// ancestral order (inbreeding) call it and fail with CYCLE_DETECTED when it
// cannot complete. For a diagnostic listing of the offending cycles, use
// package cycle.
package topo

import (
	"container/heap"

	"github.com/matzehuels/pedigraph/pkg/errors"
	"github.com/matzehuels/pedigraph/pkg/pedigree"
)

// Order is a topological ordering of a pedigree.
type Order struct {
	// Order lists record indices, parents before children.
	Order []int
	// Rank is the inverse of Order: Rank[i] is the position of record i.
	Rank []int
}

// Sort orders p with Kahn's algorithm. A record's indegree is the number of
// its known, in-set parent slots. Among records that are ready, the one with
// the smallest input index is always taken first, so the order is fully
// deterministic.
//
// Sort returns a CYCLE_DETECTED error if some records can never be ordered.
func Sort(p *pedigree.Pedigree) (Order, error) {
	n := p.Len()
	indeg := make([]int, n)
	ready := make(minHeap, 0, n)
	for i := range n {
		if p.SireIndex(i) != pedigree.NoParent {
			indeg[i]++
		}
		if p.DamIndex(i) != pedigree.NoParent {
			indeg[i]++
		}
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}
	heap.Init(&ready)

	order := make([]int, 0, n)
	for ready.Len() > 0 {
		i := heap.Pop(&ready).(int)
		order = append(order, i)
		for _, c := range p.Children(i) {
			indeg[c]--
			if indeg[c] == 0 {
				heap.Push(&ready, c)
			}
		}
	}

	if len(order) < n {
		return Order{}, errors.New(errors.ErrCodeCycleDetected,
			"cycle detected in pedigree; cannot compute dependent results (ordered %d of %d individuals)",
			len(order), n)
	}

	rank := make([]int, n)
	for pos, i := range order {
		rank[i] = pos
	}
	return Order{Order: order, Rank: rank}, nil
}

// minHeap is a min-priority queue of record indices.
type minHeap []int

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) { *h = append(*h, x.(int)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
