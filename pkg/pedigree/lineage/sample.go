package lineage

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/pedigraph/pkg/pedigree"
)

// Defaults for [Deepest] and [Distribution].
const (
	DefaultDeepestSample         = 200
	DefaultDeepestCap            = 100
	DefaultDistributionThreshold = 1_000_000
	DefaultDistributionSample    = 10_000
	DefaultMaxDepth              = 20
)

// DeepestOptions configures [Deepest]. Zero values select the defaults.
type DeepestOptions struct {
	// SampleSize is the number of non-founders examined. Default: 200.
	SampleSize int
	// Cap bounds the reported depth. Default: 100.
	Cap int
	// Seed seeds the sampler.
	Seed uint64
}

// DeepestResult is the sampled individual with the greatest depth. ID is
// empty when no sampled individual has a depth above 0.
type DeepestResult struct {
	ID    string `json:"id,omitempty"`
	Depth int    `json:"depth"`
}

// Deepest samples up to opts.SampleSize non-founders uniformly without
// replacement (all of them when there are fewer) and returns the one with
// the greatest depth, capped at opts.Cap. Ties go to the earliest record.
func Deepest(p *pedigree.Pedigree, opts DeepestOptions) DeepestResult {
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultDeepestSample
	}
	if opts.Cap <= 0 {
		opts.Cap = DefaultDeepestCap
	}

	var candidates []int
	for i := range p.Len() {
		if !p.IsFounder(i) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return DeepestResult{}
	}

	picked := candidates
	if len(candidates) > opts.SampleSize {
		picked = make([]int, 0, opts.SampleSize)
		for _, k := range sampleIndices(newRand(opts.Seed), len(candidates), opts.SampleSize) {
			picked = append(picked, candidates[k])
		}
	}

	s := NewSession(p)
	var best DeepestResult
	for _, i := range picked {
		if d := min(s.Depth(i), opts.Cap); d > best.Depth {
			best = DeepestResult{ID: p.ID(i), Depth: d}
		}
	}
	return best
}

// DistributionOptions configures [Distribution]. Zero values select the
// defaults.
type DistributionOptions struct {
	// Threshold is the population size above which sampling kicks in.
	// Default: 1,000,000.
	Threshold int
	// SampleSize is the number of individuals sampled. Default: 10,000.
	SampleSize int
	// MaxDepth is the histogram length; deeper values land in the last
	// bucket. Default: 20.
	MaxDepth int
	// Seed seeds the sampler.
	Seed uint64
}

// Distribution estimates the population depth histogram. Bucket d counts
// individuals of depth d, with depths clipped to [0, MaxDepth-1]. When the
// population exceeds Threshold, SampleSize individuals are sampled without
// replacement and every bucket is scaled by population/sample and rounded;
// otherwise the histogram is exact.
func Distribution(p *pedigree.Pedigree, opts DistributionOptions) []int {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultDistributionThreshold
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultDistributionSample
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	n := p.Len()
	var picked []int
	if n > opts.Threshold && n > opts.SampleSize {
		picked = sampleIndices(newRand(opts.Seed), n, opts.SampleSize)
	} else {
		picked = make([]int, n)
		for i := range picked {
			picked[i] = i
		}
	}

	s := NewSession(p)
	hist := make([]int, opts.MaxDepth)
	for _, i := range picked {
		hist[min(s.Depth(i), opts.MaxDepth-1)]++
	}

	if len(picked) > 0 && len(picked) < n {
		scale := float64(n) / float64(len(picked))
		for d, c := range hist {
			hist[d] = int(math.Round(float64(c) * scale))
		}
	}
	return hist
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// sampleIndices draws k distinct indices from [0, n) with Floyd's
// algorithm and returns them in ascending order.
func sampleIndices(rng *rand.Rand, n, k int) []int {
	chosen := make(map[int]struct{}, k)
	out := make([]int, 0, k)
	for j := n - k; j < n; j++ {
		t := rng.IntN(j + 1)
		if _, ok := chosen[t]; ok {
			t = j
		}
		chosen[t] = struct{}{}
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
