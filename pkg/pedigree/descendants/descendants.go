// Package descendants counts the descendants of every parent, generation
// by generation.
//
// For a chosen parent role, each distinct id appearing in that role is a
// root. Its progeny form generation 1, their progeny generation 2, and so
// on up to a maximum depth. An individual reachable along several paths is
// counted once, at the first generation it is reached.
package descendants

import (
	"github.com/matzehuels/pedigraph/pkg/errors"
	"github.com/matzehuels/pedigraph/pkg/pedigree"
)

// Role selects which parent slot defines progeny.
type Role int

const (
	// Sire follows sire references.
	Sire Role = iota
	// Dam follows dam references.
	Dam
)

// String returns "sire" or "dam".
func (r Role) String() string {
	if r == Dam {
		return "dam"
	}
	return "sire"
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// ParseRole parses "sire" or "dam".
func ParseRole(s string) (Role, error) {
	switch s {
	case "sire", "":
		return Sire, nil
	case "dam":
		return Dam, nil
	}
	return Sire, errors.New(errors.ErrCodeInvalidInput, "invalid role %q (want sire or dam)", s)
}

// Lines selects which edges are followed below the first generation.
type Lines int

const (
	// SameRole descends only through the chosen role: sire lines for Sire,
	// dam lines for Dam.
	SameRole Lines = iota
	// AnyRole descends through both parent slots.
	AnyRole
)

// String returns "same" or "any".
func (l Lines) String() string {
	if l == AnyRole {
		return "any"
	}
	return "same"
}

// ParseLines parses "same" or "any".
func ParseLines(s string) (Lines, error) {
	switch s {
	case "same", "":
		return SameRole, nil
	case "any":
		return AnyRole, nil
	}
	return SameRole, errors.New(errors.ErrCodeInvalidInput, "invalid lines %q (want same or any)", s)
}

// DefaultMaxDepth is the default number of generations expanded.
const DefaultMaxDepth = 50

// Options configures [Summarize].
type Options struct {
	Role     Role
	MaxDepth int // default 50
	Lines    Lines
}

// Summary is the descendant count of one root.
type Summary struct {
	Parent        string `json:"parent"`
	Total         int    `json:"total"`
	PerGeneration []int  `json:"per_generation"` // length MaxDepth
}

// Result lists one summary per root, in order of first appearance in the
// chosen role.
type Result struct {
	Role      Role      `json:"role"`
	MaxDepth  int       `json:"max_depth"`
	Summaries []Summary `json:"summaries"`
}

// Summarize expands every root breadth-first. Roots include ids that are
// referenced in the role but absent as records.
func Summarize(p *pedigree.Pedigree, opts Options) Result {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	g := buildIndex(p, opts)
	res := Result{Role: opts.Role, MaxDepth: opts.MaxDepth, Summaries: make([]Summary, 0, len(g.roots))}

	v := newVisitor(p.Len())
	var current, next []int
	for _, root := range g.roots {
		v.advance()
		s := Summary{Parent: root, PerGeneration: make([]int, opts.MaxDepth)}
		current = append(current[:0], g.progeny[root]...)
		for depth := 0; len(current) > 0 && depth < opts.MaxDepth; depth++ {
			next = next[:0]
			for _, i := range current {
				if !v.visit(i) {
					continue
				}
				s.PerGeneration[depth]++
				s.Total++
				next = g.appendChildren(next, p.ID(i))
			}
			current, next = next, current
		}
		res.Summaries = append(res.Summaries, s)
	}
	return res
}

// progenyIndex maps parent ids to the records naming them.
type progenyIndex struct {
	roots   []string
	progeny map[string][]int // in the chosen role
	other   map[string][]int // in the other role; AnyRole only
}

func buildIndex(p *pedigree.Pedigree, opts Options) *progenyIndex {
	g := &progenyIndex{progeny: make(map[string][]int)}
	if opts.Lines == AnyRole {
		g.other = make(map[string][]int)
	}
	for i := range p.Len() {
		ind := p.At(i)
		own, other := ind.Sire, ind.Dam
		if opts.Role == Dam {
			own, other = other, own
		}
		if own != "" {
			if _, ok := g.progeny[own]; !ok {
				g.roots = append(g.roots, own)
			}
			g.progeny[own] = append(g.progeny[own], i)
		}
		if g.other != nil && other != "" {
			g.other[other] = append(g.other[other], i)
		}
	}
	return g
}

func (g *progenyIndex) appendChildren(dst []int, id string) []int {
	dst = append(dst, g.progeny[id]...)
	if g.other != nil {
		dst = append(dst, g.other[id]...)
	}
	return dst
}

// visitor marks records as seen for the current root. Advancing the stamp
// forgets every mark in O(1); the marks are cleared only when the stamp
// wraps around.
type visitor struct {
	mark  []uint32
	stamp uint32
}

func newVisitor(n int) *visitor {
	return &visitor{mark: make([]uint32, n)}
}

func (v *visitor) advance() {
	v.stamp++
	if v.stamp == 0 {
		clear(v.mark)
		v.stamp = 1
	}
}

// visit marks i and reports whether it was unmarked.
func (v *visitor) visit(i int) bool {
	if v.mark[i] == v.stamp {
		return false
	}
	v.mark[i] = v.stamp
	return true
}
