// Package inbreeding computes inbreeding coefficients for every individual
// in a pedigree.
//
// [Compute] uses the Meuwissen–Luo sparse recursion: individuals are
// processed in groups sharing a sire, and for each group the sire's
// relationship to every potential mate is obtained by walking the sire's
// compacted ancestor set once. Total work grows with pedigree depth rather
// than with n², and the result equals the diagonal of the full numerator
// relationship matrix (see [Tabular]) to floating-point precision.
//
// Both methods require unique ids and an acyclic pedigree. They fail with
// DUPLICATE_ID (naming the id) or CYCLE_DETECTED rather than return a
// partially computed vector.
package inbreeding

import (
	"slices"

	"github.com/matzehuels/pedigraph/pkg/errors"
	"github.com/matzehuels/pedigraph/pkg/pedigree"
	"github.com/matzehuels/pedigraph/pkg/pedigree/topo"
)

// Result holds one inbreeding coefficient per individual, in input order.
type Result struct {
	IDs []string  `json:"ids"`
	F   []float64 `json:"f"`
}

// Summary describes the distribution of a coefficient vector.
type Summary struct {
	Individuals int     `json:"individuals"`
	Inbred      int     `json:"inbred"` // F > 0
	Mean        float64 `json:"mean"`
	Max         float64 `json:"max"`
	MaxID       string  `json:"max_id,omitempty"` // first id carrying Max
}

// Summary computes mean and maximum F and the number of inbred individuals.
func (r *Result) Summary() Summary {
	s := Summary{Individuals: len(r.F)}
	var sum float64
	for i, f := range r.F {
		sum += f
		if f > 0 {
			s.Inbred++
		}
		if f > s.Max {
			s.Max = f
			s.MaxID = r.IDs[i]
		}
	}
	if len(r.F) > 0 {
		s.Mean = sum / float64(len(r.F))
	}
	return s
}

// Lookup returns the coefficient of the individual with the given id.
func (r *Result) Lookup(id string) (float64, bool) {
	i := slices.Index(r.IDs, id)
	if i < 0 {
		return 0, false
	}
	return r.F[i], true
}

// Compute returns the inbreeding coefficient of every individual in p.
// Founders, and individuals missing either parent, have F = 0.
func Compute(p *pedigree.Pedigree) (*Result, error) {
	rp, err := renumber(p)
	if err != nil {
		return nil, err
	}
	f := meuwissenLuo(rp.sire, rp.dam)

	res := &Result{IDs: p.IDs(), F: make([]float64, p.Len())}
	for i := range res.F {
		res.F[i] = f[rp.rank[i]+1]
	}
	return res, nil
}

// renumbered is a pedigree in 1-based topological numbering; 0 means no
// known, in-set parent.
type renumbered struct {
	sire []int
	dam  []int
	rank []int // input index -> 0-based topological position
}

func renumber(p *pedigree.Pedigree) (*renumbered, error) {
	if id, ok := p.FirstDuplicate(); ok {
		return nil, errors.New(errors.ErrCodeDuplicateID, "duplicate ID found in pedigree: %s", id)
	}
	o, err := topo.Sort(p)
	if err != nil {
		return nil, err
	}

	n := p.Len()
	rp := &renumbered{
		sire: make([]int, n+1),
		dam:  make([]int, n+1),
		rank: o.Rank,
	}
	for pos, i := range o.Order {
		if s := p.SireIndex(i); s != pedigree.NoParent {
			rp.sire[pos+1] = o.Rank[s] + 1
		}
		if d := p.DamIndex(i); d != pedigree.NoParent {
			rp.dam[pos+1] = o.Rank[d] + 1
		}
	}
	return rp, nil
}

// meuwissenLuo runs the recursion over a 1-based, topologically numbered
// pedigree and returns F indexed the same way (F[0] is the -1 sentinel for
// an unknown parent).
func meuwissenLuo(sire, dam []int) []float64 {
	n := len(sire) - 1
	f := make([]float64, n+1)
	f[0] = -1

	// Reduced numbering: only individuals that are parents get a slot, in
	// order of first appearance as a parent. A parent's own parents always
	// receive smaller reduced ids.
	link := make([]int, n+1)
	maxID := make([]int, n+1)
	rSire := make([]int, n+1)
	rDam := make([]int, n+1)
	next := 1
	for i := 1; i <= n; i++ {
		s, d := sire[i], dam[i]
		if s != 0 && link[s] == 0 {
			link[s] = next
			maxID[next] = next
			rSire[next] = link[sire[s]]
			rDam[next] = link[dam[s]]
			next++
		}
		if d != 0 && link[d] == 0 {
			link[d] = next
			maxID[next] = next
			rSire[next] = link[sire[d]]
			rDam[next] = link[dam[d]]
			next++
		}
		if maxID[link[s]] < link[d] {
			maxID[link[s]] = link[d]
		}
	}

	bySire := make([]int, n)
	for i := range bySire {
		bySire[i] = i + 1
	}
	slices.SortStableFunc(bySire, func(a, b int) int { return sire[a] - sire[b] })

	b := make([]float64, next)
	x := newStampedVec(next)
	k := 1
	for i := 0; i < n; {
		s := sire[bySire[i]]
		if s == 0 {
			i++
			continue
		}

		rs := link[s]
		mip := maxID[rs]
		x.reset()
		x.set(rs, 1)

		// Mendelian sampling variance of every ancestor up to s. Their
		// parents' F values are final because sire groups are processed in
		// ascending topological order.
		for ; k <= s; k++ {
			if link[k] != 0 {
				b[link[k]] = 0.5 - 0.25*(f[sire[k]]+f[dam[k]])
			}
		}

		for j := rs; j >= 1; j-- {
			xj := x.get(j)
			if xj == 0 {
				continue
			}
			if rSire[j] != 0 {
				x.set(rSire[j], x.get(rSire[j])+xj*0.5)
			}
			if rDam[j] != 0 {
				x.set(rDam[j], x.get(rDam[j])+xj*0.5)
			}
			x.set(j, xj*b[j])
		}

		for j := 1; j <= mip; j++ {
			x.set(j, x.get(j)+(x.get(rSire[j])+x.get(rDam[j]))*0.5)
		}

		for ; i < n && sire[bySire[i]] == s; i++ {
			child := bySire[i]
			f[child] = x.get(link[dam[child]]) * 0.5
		}
	}
	return f
}

// stampedVec is a float vector that is cleared in O(1) by advancing a
// generation counter. Entries whose stamp differs from the current
// generation read as zero. Index 0 is never written and always reads zero.
type stampedVec struct {
	val   []float64
	stamp []uint32
	gen   uint32
}

func newStampedVec(n int) *stampedVec {
	return &stampedVec{val: make([]float64, n), stamp: make([]uint32, n)}
}

func (v *stampedVec) reset() {
	v.gen++
	if v.gen == 0 {
		clear(v.stamp)
		v.gen = 1
	}
}

func (v *stampedVec) get(i int) float64 {
	if v.stamp[i] != v.gen {
		return 0
	}
	return v.val[i]
}

func (v *stampedVec) set(i int, x float64) {
	v.val[i] = x
	v.stamp[i] = v.gen
}
