package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pedigraph/pkg/pedigree"
)

func toColumns(p *pedigree.Pedigree) columns {
	n := p.Len()
	out := columns{
		IDs:   make([]string, n),
		Sires: make([]string, n),
		Dams:  make([]string, n),
	}
	if p.HasSex() {
		out.Sex = make([]string, n)
	}
	if p.HasBirthDates() {
		out.BirthDates = make([]*float64, n)
	}
	for i := range n {
		ind := p.At(i)
		out.IDs[i], out.Sires[i], out.Dams[i] = ind.ID, ind.Sire, ind.Dam
		if out.Sex != nil && ind.Sex != pedigree.SexUnknown {
			out.Sex[i] = ind.Sex.String()
		}
		if out.BirthDates != nil {
			out.BirthDates[i] = ind.BirthDate
		}
	}
	return out
}

// WriteJSON encodes p as columnar JSON and writes it to w. The output can
// be re-imported with [ReadJSON].
func WriteJSON(p *pedigree.Pedigree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toColumns(p)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes p to a JSON file at path.
func ExportJSON(p *pedigree.Pedigree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(p, f)
}

// Encode returns the canonical compact JSON encoding of p.
func Encode(p *pedigree.Pedigree) ([]byte, error) {
	b, err := json.Marshal(toColumns(p))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return b, nil
}

// WriteResult encodes an analysis result as indented JSON.
func WriteResult(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
