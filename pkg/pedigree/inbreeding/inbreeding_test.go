package inbreeding_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pedigraph/pkg/errors"
	"github.com/matzehuels/pedigraph/pkg/pedigree"
	"github.com/matzehuels/pedigraph/pkg/pedigree/inbreeding"
	"github.com/matzehuels/pedigraph/pkg/pedigree/pedtest"
)

const tol = 1e-9

func TestComputeFullSib(t *testing.T) {
	res, err := inbreeding.Compute(pedtest.FullSib())
	require.NoError(t, err)

	assert.Equal(t, []string{"S", "D", "A", "B", "C"}, res.IDs)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0, 0.25}, res.F, tol)
}

func TestComputeInputOrderIndependent(t *testing.T) {
	p := pedtest.Build(
		[3]string{"C", "A", "B"},
		[3]string{"B", "S", "D"},
		[3]string{"S", "0", "0"},
		[3]string{"A", "S", "D"},
		[3]string{"D", "0", "0"},
	)
	res, err := inbreeding.Compute(p)
	require.NoError(t, err)

	f, ok := res.Lookup("C")
	require.True(t, ok)
	assert.InDelta(t, 0.25, f, tol)
	assert.InDelta(t, 0.25, res.F[0], tol)
}

func TestComputeKnownValues(t *testing.T) {
	tests := []struct {
		name    string
		triples [][3]string
		id      string
		want    float64
	}{
		{
			name: "half-sib mating",
			triples: [][3]string{
				{"S", "0", "0"}, {"D1", "0", "0"}, {"D2", "0", "0"},
				{"A", "S", "D1"}, {"B", "S", "D2"}, {"C", "A", "B"},
			},
			id: "C", want: 0.125,
		},
		{
			name: "parent-offspring mating",
			triples: [][3]string{
				{"S", "0", "0"}, {"D", "0", "0"},
				{"A", "S", "D"}, {"C", "S", "A"},
			},
			id: "C", want: 0.25,
		},
		{
			name: "selfing",
			triples: [][3]string{
				{"P", "0", "0"}, {"S1", "P", "P"}, {"S2", "S1", "S1"},
			},
			id: "S2", want: 0.75,
		},
		{
			name: "unknown dam",
			triples: [][3]string{
				{"S", "0", "0"}, {"A", "S", "0"}, {"C", "A", "NA"},
			},
			id: "C", want: 0,
		},
		{
			name: "out-of-set parents",
			triples: [][3]string{
				{"A", "X", "Y"}, {"B", "X", "Y"}, {"C", "A", "B"},
			},
			id: "C", want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := inbreeding.Compute(pedtest.Build(tt.triples...))
			require.NoError(t, err)
			f, ok := res.Lookup(tt.id)
			require.True(t, ok)
			assert.InDelta(t, tt.want, f, tol)
		})
	}
}

func TestComputeMatchesRelationshipMatrix(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	for trial := range 200 {
		n := 2 + rng.IntN(19)
		p := pedtest.Random(rng, n, pedtest.RandomOptions{
			Founders:    1 + rng.IntN(3),
			UnknownRate: 0.15,
			Shuffle:     trial%2 == 0,
			Selfing:     trial%5 == 0,
		})

		fast, err := inbreeding.Compute(p)
		require.NoError(t, err)
		ref, err := inbreeding.Tabular(p)
		require.NoError(t, err)
		require.InDeltaSlice(t, ref.F, fast.F, tol, "trial %d", trial)
	}
}

func TestComputeFoundersAreZero(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	p := pedtest.Random(rng, 500, pedtest.RandomOptions{Founders: 10, Shuffle: true})
	res, err := inbreeding.Compute(p)
	require.NoError(t, err)

	for i := range p.Len() {
		if p.IsFounder(i) {
			assert.Zero(t, res.F[i], "founder %s", p.ID(i))
		}
		assert.GreaterOrEqual(t, res.F[i], 0.0)
		assert.Less(t, res.F[i], 1.0)
	}
}

func TestComputeDeepLineage(t *testing.T) {
	// Repeated full-sib mating: F follows F(t) = (1 + 2F(t-1) + F(t-2)) / 4.
	inds := []pedigree.Individual{{ID: "S"}, {ID: "D"}}
	prevS, prevD := "S", "D"
	for g := 1; g <= 20; g++ {
		s := "S" + string(rune('a'+g))
		d := "D" + string(rune('a'+g))
		inds = append(inds,
			pedigree.Individual{ID: s, Sire: prevS, Dam: prevD},
			pedigree.Individual{ID: d, Sire: prevS, Dam: prevD},
		)
		prevS, prevD = s, d
	}
	p := pedigree.New(inds)
	res, err := inbreeding.Compute(p)
	require.NoError(t, err)

	want := []float64{0, 0} // founders, first generation
	for g := 2; g <= 20; g++ {
		want = append(want, (1+2*want[g-1]+want[g-2])/4)
	}
	for g := 1; g <= 20; g++ {
		assert.InDelta(t, want[g], res.F[2*g], tol, "generation %d", g)
		assert.InDelta(t, want[g], res.F[2*g+1], tol, "generation %d", g)
	}
}

func TestComputeDuplicateID(t *testing.T) {
	p := pedtest.Build(
		[3]string{"A", "0", "0"},
		[3]string{"B", "0", "0"},
		[3]string{"A", "0", "0"},
	)
	res, err := inbreeding.Compute(p)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, errors.ErrCodeDuplicateID))
	assert.Contains(t, err.Error(), "A")
}

func TestComputeCycle(t *testing.T) {
	p := pedtest.Build(
		[3]string{"A", "C", "0"},
		[3]string{"M", "0", "0"},
		[3]string{"B", "A", "M"},
		[3]string{"C", "B", "M"},
	)
	res, err := inbreeding.Compute(p)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, errors.ErrCodeCycleDetected))
}

func TestComputeEmpty(t *testing.T) {
	res, err := inbreeding.Compute(pedigree.New(nil))
	require.NoError(t, err)
	assert.Empty(t, res.F)
}

func TestRelationshipMatrixFullSib(t *testing.T) {
	a, err := inbreeding.RelationshipMatrix(pedtest.FullSib())
	require.NoError(t, err)

	// Rows: S, D, A, B, C.
	want := [][]float64{
		{1, 0, 0.5, 0.5, 0.5},
		{0, 1, 0.5, 0.5, 0.5},
		{0.5, 0.5, 1, 0.5, 0.75},
		{0.5, 0.5, 0.5, 1, 0.75},
		{0.5, 0.5, 0.75, 0.75, 1.25},
	}
	for i := range want {
		assert.InDeltaSlice(t, want[i], a[i], tol, "row %d", i)
	}
}

func TestRelationshipMatrixTooLarge(t *testing.T) {
	p := pedtest.Chain(inbreeding.MaxTabularSize + 1)
	_, err := inbreeding.RelationshipMatrix(p)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestSummary(t *testing.T) {
	r := &inbreeding.Result{
		IDs: []string{"a", "b", "c", "d"},
		F:   []float64{0, 0.25, 0.125, 0.25},
	}
	s := r.Summary()
	assert.Equal(t, 4, s.Individuals)
	assert.Equal(t, 3, s.Inbred)
	assert.InDelta(t, 0.15625, s.Mean, tol)
	assert.Equal(t, 0.25, s.Max)
	assert.Equal(t, "b", s.MaxID)

	empty := (&inbreeding.Result{}).Summary()
	assert.Zero(t, empty.Mean)
	assert.Empty(t, empty.MaxID)
}
