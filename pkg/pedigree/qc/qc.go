// Package qc computes structural statistics and anomaly sets over a
// pedigree.
//
// QC never fails on data content: duplicate ids, missing parents, self
// parenting, dual-role parents and sex mismatches are all counted and
// reported, never rejected. Every id set is returned in first-appearance
// order so reports are stable across runs.
//
// In QC statistics a founder is a record with no parent recorded (both
// references missing). This differs from the graph algorithms, which also
// treat an out-of-set parent as unknown.
package qc

import "github.com/matzehuels/pedigraph/pkg/pedigree"

// ProgenyCount is the number of records naming ID in one parent role.
type ProgenyCount struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Report holds the counts and anomaly sets of one QC pass.
type Report struct {
	Total           int `json:"total"`
	Founders        int `json:"founders"`
	WithBothParents int `json:"with_both_parents"`
	OnlySire        int `json:"only_sire"`
	OnlyDam         int `json:"only_dam"`
	SelfParentCount int `json:"self_parent_count"`

	DuplicateIDs []string `json:"duplicate_ids"`
	MissingSires []string `json:"missing_sires"` // referenced as sire, absent as a record
	MissingDams  []string `json:"missing_dams"`
	DualRoleIDs  []string `json:"dual_role_ids"` // referenced as both sire and dam

	UniqueSires               int `json:"unique_sires"`
	UniqueDams                int `json:"unique_dams"`
	TotalSireProgeny          int `json:"total_sire_progeny"`
	TotalDamProgeny           int `json:"total_dam_progeny"`
	IndividualsWithProgeny    int `json:"individuals_with_progeny"`
	IndividualsWithoutProgeny int `json:"individuals_without_progeny"`

	FounderSires        int `json:"founder_sires"`
	FounderDams         int `json:"founder_dams"`
	FounderSireProgeny  int `json:"founder_sire_progeny"`
	FounderDamProgeny   int `json:"founder_dam_progeny"`
	FounderTotalProgeny int `json:"founder_total_progeny"` // records with at least one founder parent
	FounderNoProgeny    int `json:"founder_no_progeny"`

	NonFounderSires       int `json:"non_founder_sires"`
	NonFounderDams        int `json:"non_founder_dams"`
	NonFounderSireProgeny int `json:"non_founder_sire_progeny"`
	NonFounderDamProgeny  int `json:"non_founder_dam_progeny"`

	SireProgeny []ProgenyCount `json:"sire_progeny"`
	DamProgeny  []ProgenyCount `json:"dam_progeny"`

	// Sex is nil unless the pedigree carries sex information.
	Sex *SexReport `json:"sex,omitempty"`
}

// SexReport flags parent references whose known sex contradicts the role.
// A reference to an individual of unknown sex is never a mismatch.
type SexReport struct {
	SireMismatchCount int      `json:"sire_mismatch_count"` // sire references to a known non-male
	DamMismatchCount  int      `json:"dam_mismatch_count"`  // dam references to a known non-female
	SireMismatchIDs   []string `json:"sire_mismatch_ids"`
	DamMismatchIDs    []string `json:"dam_mismatch_ids"`
}

// Run computes the QC report for p.
func Run(p *pedigree.Pedigree) *Report {
	n := p.Len()
	r := &Report{
		Total:        n,
		DuplicateIDs: []string{},
		MissingSires: []string{},
		MissingDams:  []string{},
		DualRoleIDs:  []string{},
	}

	seen := make(map[string]int, n)
	founderIDs := make(map[string]struct{})
	for i := range n {
		ind := p.At(i)
		seen[ind.ID]++
		if seen[ind.ID] == 2 {
			r.DuplicateIDs = append(r.DuplicateIDs, ind.ID)
		}
		if ind.Sire == "" && ind.Dam == "" {
			founderIDs[ind.ID] = struct{}{}
		}
	}

	sires := newTally()
	dams := newTally()
	missingSires := newOrderedSet()
	missingDams := newOrderedSet()

	for i := range n {
		ind := p.At(i)
		hasSire, hasDam := ind.Sire != "", ind.Dam != ""

		switch {
		case hasSire && hasDam:
			r.WithBothParents++
		case hasSire:
			r.OnlySire++
		case hasDam:
			r.OnlyDam++
		default:
			r.Founders++
		}
		if (hasSire && ind.Sire == ind.ID) || (hasDam && ind.Dam == ind.ID) {
			r.SelfParentCount++
		}

		if hasSire {
			sires.add(ind.Sire)
			if !p.Contains(ind.Sire) {
				missingSires.add(ind.Sire)
			}
		}
		if hasDam {
			dams.add(ind.Dam)
			if !p.Contains(ind.Dam) {
				missingDams.add(ind.Dam)
			}
		}

		_, sireFounder := founderIDs[ind.Sire]
		_, damFounder := founderIDs[ind.Dam]
		if (hasSire && sireFounder) || (hasDam && damFounder) {
			r.FounderTotalProgeny++
		}
	}

	r.MissingSires = append(r.MissingSires, missingSires.items...)
	r.MissingDams = append(r.MissingDams, missingDams.items...)
	for _, id := range sires.order {
		if _, ok := dams.counts[id]; ok {
			r.DualRoleIDs = append(r.DualRoleIDs, id)
		}
	}

	r.SireProgeny = sires.list()
	r.DamProgeny = dams.list()
	r.UniqueSires = len(sires.order)
	r.UniqueDams = len(dams.order)

	withProgeny := newOrderedSet()
	founderParents := newOrderedSet()
	for _, pc := range r.SireProgeny {
		r.TotalSireProgeny += pc.Count
		if p.Contains(pc.ID) {
			withProgeny.add(pc.ID)
		}
		if _, ok := founderIDs[pc.ID]; ok {
			r.FounderSires++
			r.FounderSireProgeny += pc.Count
			founderParents.add(pc.ID)
		} else {
			r.NonFounderSires++
			r.NonFounderSireProgeny += pc.Count
		}
	}
	for _, pc := range r.DamProgeny {
		r.TotalDamProgeny += pc.Count
		if p.Contains(pc.ID) {
			withProgeny.add(pc.ID)
		}
		if _, ok := founderIDs[pc.ID]; ok {
			r.FounderDams++
			r.FounderDamProgeny += pc.Count
			founderParents.add(pc.ID)
		} else {
			r.NonFounderDams++
			r.NonFounderDamProgeny += pc.Count
		}
	}
	r.IndividualsWithProgeny = len(withProgeny.items)
	r.IndividualsWithoutProgeny = n - r.IndividualsWithProgeny
	r.FounderNoProgeny = r.Founders - len(founderParents.items)

	if p.HasSex() {
		r.Sex = checkSex(p)
	}
	return r
}

// checkSex compares every known parent reference against the sex recorded
// for that id. When an id occurs more than once, the last record with a
// known sex wins.
func checkSex(p *pedigree.Pedigree) *SexReport {
	sexOf := make(map[string]pedigree.Sex)
	for i := range p.Len() {
		if ind := p.At(i); ind.Sex != pedigree.SexUnknown {
			sexOf[ind.ID] = ind.Sex
		}
	}

	sr := &SexReport{SireMismatchIDs: []string{}, DamMismatchIDs: []string{}}
	sireIDs := newOrderedSet()
	damIDs := newOrderedSet()
	for i := range p.Len() {
		ind := p.At(i)
		if s, ok := sexOf[ind.Sire]; ok && ind.Sire != "" && s != pedigree.SexMale {
			sr.SireMismatchCount++
			sireIDs.add(ind.Sire)
		}
		if s, ok := sexOf[ind.Dam]; ok && ind.Dam != "" && s != pedigree.SexFemale {
			sr.DamMismatchCount++
			damIDs.add(ind.Dam)
		}
	}
	sr.SireMismatchIDs = append(sr.SireMismatchIDs, sireIDs.items...)
	sr.DamMismatchIDs = append(sr.DamMismatchIDs, damIDs.items...)
	return sr
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(id string) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.items = append(s.items, id)
}

// tally counts references per parent id, remembering first appearance.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(id string) {
	if _, ok := t.counts[id]; !ok {
		t.order = append(t.order, id)
	}
	t.counts[id]++
}

func (t *tally) list() []ProgenyCount {
	out := make([]ProgenyCount, len(t.order))
	for i, id := range t.order {
		out[i] = ProgenyCount{ID: id, Count: t.counts[id]}
	}
	return out
}
