// Package pedtest provides pedigree fixtures for tests.
package pedtest

import (
	"math/rand/v2"
	"strconv"

	"github.com/matzehuels/pedigraph/pkg/pedigree"
)

// Build creates a pedigree from (id, sire, dam) triples.
func Build(triples ...[3]string) *pedigree.Pedigree {
	inds := make([]pedigree.Individual, len(triples))
	for i, t := range triples {
		inds[i] = pedigree.Individual{ID: t[0], Sire: t[1], Dam: t[2]}
	}
	return pedigree.New(inds)
}

// FullSib is the classic full-sib mating: S and D are founders, A and B
// are their offspring, and C is the offspring of A x B (F = 0.25).
func FullSib() *pedigree.Pedigree {
	return Build(
		[3]string{"S", "0", "0"},
		[3]string{"D", "0", "0"},
		[3]string{"A", "S", "D"},
		[3]string{"B", "S", "D"},
		[3]string{"C", "A", "B"},
	)
}

// Chain creates a single line of n individuals where each record is the
// sire of the next: I0 -> I1 -> ... with I0 a founder.
func Chain(n int) *pedigree.Pedigree {
	inds := make([]pedigree.Individual, n)
	for i := range n {
		inds[i] = pedigree.Individual{ID: "I" + strconv.Itoa(i)}
		if i > 0 {
			inds[i].Sire = inds[i-1].ID
		}
	}
	return pedigree.New(inds)
}

// RandomOptions configures [Random].
type RandomOptions struct {
	// Founders is the number of leading founder records. Default: 4.
	Founders int
	// UnknownRate is the probability that a non-founder parent slot is left
	// unknown. Default: 0.1.
	UnknownRate float64
	// Shuffle randomizes record order so parents do not always precede
	// children in the input.
	Shuffle bool
	// Selfing allows the same individual in both parent slots.
	Selfing bool
}

// Random creates an acyclic pedigree of n records. Parents are always drawn
// from earlier records before the optional shuffle, so the result never
// contains a cycle.
func Random(rng *rand.Rand, n int, opts RandomOptions) *pedigree.Pedigree {
	if opts.Founders <= 0 {
		opts.Founders = 4
	}
	if opts.UnknownRate == 0 {
		opts.UnknownRate = 0.1
	}

	inds := make([]pedigree.Individual, n)
	for i := range n {
		inds[i] = pedigree.Individual{ID: "R" + strconv.Itoa(i), Sire: "0", Dam: "0"}
		if i < opts.Founders {
			continue
		}
		s := rng.IntN(i)
		d := rng.IntN(i)
		for !opts.Selfing && d == s && i > 1 {
			d = rng.IntN(i)
		}
		if rng.Float64() >= opts.UnknownRate {
			inds[i].Sire = inds[s].ID
		}
		if rng.Float64() >= opts.UnknownRate {
			inds[i].Dam = inds[d].ID
		}
	}
	if opts.Shuffle {
		rng.Shuffle(len(inds), func(a, b int) { inds[a], inds[b] = inds[b], inds[a] })
	}
	return pedigree.New(inds)
}
