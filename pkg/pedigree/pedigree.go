package pedigree

import (
	"slices"
	"strings"

	"github.com/matzehuels/pedigraph/pkg/errors"
)

// NoParent is the index returned by [Pedigree.SireIndex] and
// [Pedigree.DamIndex] when a parent slot is unknown or out of set.
const NoParent = -1

// DefaultMissingTokens are the parent references treated as "no parent
// recorded" after trimming whitespace.
var DefaultMissingTokens = []string{"", "0", "NA"}

// MissingFunc reports whether a raw parent reference means "no parent".
type MissingFunc func(token string) bool

// MissingTokens returns a MissingFunc that trims token and matches it
// exactly (case-sensitive) against tokens.
func MissingTokens(tokens ...string) MissingFunc {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[strings.TrimSpace(t)] = struct{}{}
	}
	return func(token string) bool {
		_, ok := set[strings.TrimSpace(token)]
		return ok
	}
}

// DefaultMissing is the missing-parent predicate built from
// [DefaultMissingTokens].
var DefaultMissing = MissingTokens(DefaultMissingTokens...)

// Individual is one pedigree record.
//
// Sire and Dam hold trimmed parent ids, or "" when the parent is unknown.
// BirthDate is nil when unknown; any consistent linear time unit works.
type Individual struct {
	ID        string
	Sire      string
	Dam       string
	Sex       Sex
	BirthDate *float64
}

// Columns is the columnar input shape: parallel slices of equal length.
// Sex and BirthDates are optional and may be nil.
type Columns struct {
	IDs        []string
	Sires      []string
	Dams       []string
	Sex        []string
	BirthDates []*float64
}

// Option configures pedigree construction.
type Option func(*options)

type options struct {
	missing MissingFunc
}

// WithMissing sets the missing-parent predicate. A nil fn keeps the default.
func WithMissing(fn MissingFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.missing = fn
		}
	}
}

// WithMissingTokens is shorthand for WithMissing(MissingTokens(tokens...)).
// An empty token list keeps the default.
func WithMissingTokens(tokens ...string) Option {
	return func(o *options) {
		if len(tokens) > 0 {
			o.missing = MissingTokens(tokens...)
		}
	}
}

// Pedigree is an immutable, indexed list of individuals.
//
// The zero value is not usable - use [New] or [FromColumns].
type Pedigree struct {
	inds     []Individual
	missing  MissingFunc
	index    map[string][]int // id -> all record positions, ascending
	sire     []int
	dam      []int
	children [][]int
	hasSex   bool
	hasBirth bool
}

// New builds a Pedigree from individuals. The slice is copied, parent
// references are trimmed, and missing references are normalized to "".
func New(inds []Individual, opts ...Option) *Pedigree {
	o := options{missing: DefaultMissing}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pedigree{
		inds:    make([]Individual, len(inds)),
		missing: o.missing,
		index:   make(map[string][]int, len(inds)),
	}
	for i, ind := range inds {
		ind.Sire = p.normalizeParent(ind.Sire)
		ind.Dam = p.normalizeParent(ind.Dam)
		if ind.Sex != SexUnknown {
			p.hasSex = true
		}
		if ind.BirthDate != nil {
			p.hasBirth = true
		}
		p.inds[i] = ind
		p.index[ind.ID] = append(p.index[ind.ID], i)
	}
	p.resolve()
	return p
}

// FromColumns builds a Pedigree from parallel columns. It returns a
// SHAPE_MISMATCH error when the column lengths differ.
func FromColumns(cols Columns, opts ...Option) (*Pedigree, error) {
	n := len(cols.IDs)
	if len(cols.Sires) != n || len(cols.Dams) != n {
		return nil, errors.New(errors.ErrCodeShapeMismatch,
			"ids, sires, and dams must have the same length (got %d, %d, %d)",
			n, len(cols.Sires), len(cols.Dams))
	}
	if cols.Sex != nil && len(cols.Sex) != n {
		return nil, errors.New(errors.ErrCodeShapeMismatch,
			"sex must have the same length as ids (got %d, want %d)", len(cols.Sex), n)
	}
	if cols.BirthDates != nil && len(cols.BirthDates) != n {
		return nil, errors.New(errors.ErrCodeShapeMismatch,
			"birth_dates must have the same length as ids (got %d, want %d)", len(cols.BirthDates), n)
	}

	inds := make([]Individual, n)
	for i := range n {
		inds[i] = Individual{ID: cols.IDs[i], Sire: cols.Sires[i], Dam: cols.Dams[i]}
		if cols.Sex != nil {
			inds[i].Sex = ParseSex(cols.Sex[i])
		}
		if cols.BirthDates != nil {
			inds[i].BirthDate = cols.BirthDates[i]
		}
	}
	return New(inds, opts...), nil
}

func (p *Pedigree) normalizeParent(ref string) string {
	if p.missing(ref) {
		return ""
	}
	return strings.TrimSpace(ref)
}

func (p *Pedigree) resolve() {
	n := len(p.inds)
	p.sire = make([]int, n)
	p.dam = make([]int, n)
	p.children = make([][]int, n)
	for i, ind := range p.inds {
		p.sire[i] = p.lookup(ind.Sire)
		p.dam[i] = p.lookup(ind.Dam)
		if s := p.sire[i]; s != NoParent {
			p.children[s] = append(p.children[s], i)
		}
		if d := p.dam[i]; d != NoParent {
			p.children[d] = append(p.children[d], i)
		}
	}
}

func (p *Pedigree) lookup(id string) int {
	if id == "" {
		return NoParent
	}
	if pos, ok := p.index[id]; ok {
		return pos[0]
	}
	return NoParent
}

// Len returns the number of records.
func (p *Pedigree) Len() int { return len(p.inds) }

// At returns the record at position i.
func (p *Pedigree) At(i int) Individual { return p.inds[i] }

// ID returns the id of the record at position i.
func (p *Pedigree) ID(i int) string { return p.inds[i].ID }

// Individuals returns a copy of all records in input order.
func (p *Pedigree) Individuals() []Individual { return slices.Clone(p.inds) }

// IDs returns the record ids in input order.
func (p *Pedigree) IDs() []string {
	ids := make([]string, len(p.inds))
	for i, ind := range p.inds {
		ids[i] = ind.ID
	}
	return ids
}

// IsMissing applies the pedigree's missing-parent predicate to a raw token.
func (p *Pedigree) IsMissing(token string) bool { return p.missing(token) }

// HasSire reports whether record i names a sire, whether or not that sire
// is present as a record.
func (p *Pedigree) HasSire(i int) bool { return p.inds[i].Sire != "" }

// HasDam reports whether record i names a dam, whether or not that dam is
// present as a record.
func (p *Pedigree) HasDam(i int) bool { return p.inds[i].Dam != "" }

// SireIndex returns the position of record i's sire, or NoParent.
func (p *Pedigree) SireIndex(i int) int { return p.sire[i] }

// DamIndex returns the position of record i's dam, or NoParent.
func (p *Pedigree) DamIndex(i int) int { return p.dam[i] }

// IsFounder reports whether record i has no known, in-set parent.
func (p *Pedigree) IsFounder(i int) bool {
	return p.sire[i] == NoParent && p.dam[i] == NoParent
}

// Children returns the records that reference record i as sire or dam. A
// record naming i in both slots appears twice. The slice must not be
// modified.
func (p *Pedigree) Children(i int) []int { return p.children[i] }

// Index returns the position of the first record with the given id.
func (p *Pedigree) Index(id string) (int, bool) {
	pos, ok := p.index[id]
	if !ok {
		return NoParent, false
	}
	return pos[0], true
}

// Occurrences returns every position holding id, in ascending order. The
// slice must not be modified.
func (p *Pedigree) Occurrences(id string) []int { return p.index[id] }

// Contains reports whether any record has the given id.
func (p *Pedigree) Contains(id string) bool {
	_, ok := p.index[id]
	return ok
}

// FirstDuplicate returns the first id, in input order, whose second
// occurrence comes earliest.
func (p *Pedigree) FirstDuplicate() (string, bool) {
	for i, ind := range p.inds {
		if pos := p.index[ind.ID]; len(pos) > 1 && pos[1] == i {
			return ind.ID, true
		}
	}
	return "", false
}

// HasSex reports whether any record carries a known sex.
func (p *Pedigree) HasSex() bool { return p.hasSex }

// HasBirthDates reports whether any record carries a birth date.
func (p *Pedigree) HasBirthDates() bool { return p.hasBirth }
