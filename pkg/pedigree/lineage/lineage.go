// Package lineage computes longest-ancestral-path (LAP) depths.
//
// The depth of an individual is 0 when it has no known, in-set parent and
// 1 + max(depth(sire), depth(dam)) otherwise. Depth is computed with an
// explicit worklist rather than call-stack recursion, so very long lineages
// are safe. The traversal does not assume the pedigree is acyclic: a parent
// edge back onto the current path contributes 0 instead of looping.
//
// A [Session] memoizes depths and can be reused across calls on the same
// pedigree. It is not safe for concurrent use.
package lineage

import "github.com/matzehuels/pedigraph/pkg/pedigree"

const unknown = -1

// Session holds the depth memo for one pedigree.
type Session struct {
	p      *pedigree.Pedigree
	memo   []int
	onPath []bool
	stack  []frame
}

type frame struct {
	node int
	next int // 0: sire, 1: dam, 2: done
	best int // max depth over resolved parents
	any  bool
}

// NewSession creates an empty memo for p.
func NewSession(p *pedigree.Pedigree) *Session {
	memo := make([]int, p.Len())
	for i := range memo {
		memo[i] = unknown
	}
	return &Session{p: p, memo: memo, onPath: make([]bool, p.Len())}
}

// Depth returns the depth of record i.
func (s *Session) Depth(i int) int {
	if s.memo[i] != unknown {
		return s.memo[i]
	}

	s.stack = append(s.stack[:0], frame{node: i})
	s.onPath[i] = true
	for len(s.stack) > 0 {
		top := &s.stack[len(s.stack)-1]
		if top.next == 2 {
			d := 0
			if top.any {
				d = top.best + 1
			}
			s.memo[top.node] = d
			s.onPath[top.node] = false
			s.stack = s.stack[:len(s.stack)-1]
			if len(s.stack) > 0 {
				s.stack[len(s.stack)-1].best = max(s.stack[len(s.stack)-1].best, d)
			}
			continue
		}

		parent := s.p.SireIndex(top.node)
		if top.next == 1 {
			parent = s.p.DamIndex(top.node)
		}
		top.next++
		if parent == pedigree.NoParent {
			continue
		}
		top.any = true

		switch {
		case s.onPath[parent]:
			// back-edge: contributes 0
		case s.memo[parent] != unknown:
			top.best = max(top.best, s.memo[parent])
		default:
			s.onPath[parent] = true
			s.stack = append(s.stack, frame{node: parent})
		}
	}
	return s.memo[i]
}

// Depths returns the depth of every record, in input order. Shared
// ancestors are computed once.
func Depths(p *pedigree.Pedigree) []int {
	s := NewSession(p)
	out := make([]int, p.Len())
	for i := range out {
		out[i] = s.Depth(i)
	}
	return out
}
