package inbreeding

import (
	"github.com/matzehuels/pedigraph/pkg/errors"
	"github.com/matzehuels/pedigraph/pkg/pedigree"
)

// MaxTabularSize is the largest pedigree [RelationshipMatrix] accepts. The
// dense matrix needs n² float64 values (200 MB at this size).
const MaxTabularSize = 5000

// RelationshipMatrix builds the dense numerator relationship matrix A of p
// with the tabular method. Rows and columns follow input order: A[i][j] is
// twice the kinship of records i and j, and A[i][i] = 1 + F(i).
//
// It has the same preconditions as [Compute] and additionally rejects
// pedigrees larger than [MaxTabularSize] with INVALID_INPUT.
func RelationshipMatrix(p *pedigree.Pedigree) ([][]float64, error) {
	n := p.Len()
	if n > MaxTabularSize {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"pedigree too large for the tabular method (%d individuals, max %d)", n, MaxTabularSize)
	}
	rp, err := renumber(p)
	if err != nil {
		return nil, err
	}

	// a is indexed in 1-based topological order; row/column 0 stays zero so
	// unknown parents contribute nothing.
	a := make([][]float64, n+1)
	for i := range a {
		a[i] = make([]float64, n+1)
	}
	for i := 1; i <= n; i++ {
		s, d := rp.sire[i], rp.dam[i]
		for j := 1; j < i; j++ {
			v := 0.5 * (a[j][s] + a[j][d])
			a[i][j] = v
			a[j][i] = v
		}
		a[i][i] = 1 + 0.5*a[s][d]
	}

	out := make([][]float64, n)
	for i := range n {
		out[i] = make([]float64, n)
		ri := rp.rank[i] + 1
		for j := range n {
			out[i][j] = a[ri][rp.rank[j]+1]
		}
	}
	return out, nil
}

// Tabular computes inbreeding coefficients from the diagonal of the full
// relationship matrix. It is O(n²) in time and memory and serves as a
// reference for [Compute].
func Tabular(p *pedigree.Pedigree) (*Result, error) {
	a, err := RelationshipMatrix(p)
	if err != nil {
		return nil, err
	}
	res := &Result{IDs: p.IDs(), F: make([]float64, len(a))}
	for i := range a {
		res.F[i] = a[i][i] - 1
	}
	return res, nil
}
