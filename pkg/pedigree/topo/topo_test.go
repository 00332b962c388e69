package topo_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pedigraph/pkg/errors"
	"github.com/matzehuels/pedigraph/pkg/pedigree"
	"github.com/matzehuels/pedigraph/pkg/pedigree/pedtest"
	"github.com/matzehuels/pedigraph/pkg/pedigree/topo"
)

func TestSortParentsFirst(t *testing.T) {
	p := pedtest.Build(
		[3]string{"C", "A", "B"},
		[3]string{"A", "S", "D"},
		[3]string{"B", "S", "D"},
		[3]string{"S", "0", "0"},
		[3]string{"D", "0", "0"},
	)
	o, err := topo.Sort(p)
	require.NoError(t, err)

	// S(3) and D(4) are ready first; A(1) then B(2) become ready; C(0) last.
	assert.Equal(t, []int{3, 4, 1, 2, 0}, o.Order)
	assert.Equal(t, []int{4, 2, 3, 0, 1}, o.Rank)
}

func TestSortSmallestIndexFirst(t *testing.T) {
	p := pedtest.Build(
		[3]string{"A", "0", "0"},
		[3]string{"B", "0", "0"},
		[3]string{"C", "B", "0"},
		[3]string{"D", "A", "0"},
	)
	o, err := topo.Sort(p)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, o.Order)
}

func TestSortRandomRespectsParents(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 25 {
		p := pedtest.Random(rng, 150, pedtest.RandomOptions{Shuffle: true, Selfing: true})
		o, err := topo.Sort(p)
		require.NoError(t, err)
		require.Len(t, o.Order, p.Len())
		for i := range p.Len() {
			if s := p.SireIndex(i); s != pedigree.NoParent {
				assert.Less(t, o.Rank[s], o.Rank[i])
			}
			if d := p.DamIndex(i); d != pedigree.NoParent {
				assert.Less(t, o.Rank[d], o.Rank[i])
			}
		}
	}
}

func TestSortSelfAndFullSelfing(t *testing.T) {
	// Same parent in both slots is a valid (selfed) record.
	p := pedtest.Build(
		[3]string{"P", "0", "0"},
		[3]string{"S", "P", "P"},
	)
	o, err := topo.Sort(p)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, o.Order)
}

func TestSortCycleFails(t *testing.T) {
	p := pedtest.Build(
		[3]string{"A", "C", "0"},
		[3]string{"M", "0", "0"},
		[3]string{"B", "A", "M"},
		[3]string{"C", "B", "M"},
	)
	_, err := topo.Sort(p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCycleDetected))
	assert.Contains(t, err.Error(), "ordered 1 of 4")
}

func TestSortSelfParentFails(t *testing.T) {
	_, err := topo.Sort(pedtest.Build([3]string{"X", "X", "0"}))
	assert.True(t, errors.Is(err, errors.ErrCodeCycleDetected))
}

func TestSortEmpty(t *testing.T) {
	o, err := topo.Sort(pedigree.New(nil))
	require.NoError(t, err)
	assert.Empty(t, o.Order)
}
