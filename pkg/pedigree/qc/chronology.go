package qc

import "github.com/matzehuels/pedigraph/pkg/pedigree"

// Violation is one record whose birth date does not come strictly after a
// parent's. Sire or Dam is empty when that parent is not in violation.
type Violation struct {
	Offspring string `json:"offspring"`
	Sire      string `json:"sire,omitempty"`
	Dam       string `json:"dam,omitempty"`
}

// Chronology is the result of [CheckBirthOrder].
type Chronology struct {
	Count            int         `json:"count"` // offending records
	InvalidSireCount int         `json:"invalid_sire_count"`
	InvalidDamCount  int         `json:"invalid_dam_count"`
	Violations       []Violation `json:"violations"`
}

// CheckBirthOrder flags every record born on or before one of its parents.
// Records or parents without a known birth date are skipped. Dates are
// looked up by id; when an id occurs more than once, the last record with a
// known date wins.
func CheckBirthOrder(p *pedigree.Pedigree) Chronology {
	born := make(map[string]float64)
	for i := range p.Len() {
		if ind := p.At(i); ind.BirthDate != nil {
			born[ind.ID] = *ind.BirthDate
		}
	}

	c := Chronology{Violations: []Violation{}}
	for i := range p.Len() {
		ind := p.At(i)
		date, ok := born[ind.ID]
		if !ok {
			continue
		}

		var v Violation
		if d, ok := born[ind.Sire]; ok && ind.Sire != "" && date <= d {
			v.Sire = ind.Sire
			c.InvalidSireCount++
		}
		if d, ok := born[ind.Dam]; ok && ind.Dam != "" && date <= d {
			v.Dam = ind.Dam
			c.InvalidDamCount++
		}
		if v.Sire != "" || v.Dam != "" {
			v.Offspring = ind.ID
			c.Violations = append(c.Violations, v)
			c.Count++
		}
	}
	return c
}
