package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pedigraph/pkg/errors"
	"github.com/matzehuels/pedigraph/pkg/pedigree"
)

type columns struct {
	IDs        []string   `json:"ids"`
	Sires      []string   `json:"sires"`
	Dams       []string   `json:"dams"`
	Sex        []string   `json:"sex,omitempty"`
	BirthDates []*float64 `json:"birth_dates,omitempty"`
}

// ReadJSON decodes a columnar JSON pedigree from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - The ids array is absent
//   - Column lengths differ (SHAPE_MISMATCH)
//
// Options are passed to [pedigree.FromColumns]. ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ...pedigree.Option) (*pedigree.Pedigree, error) {
	var data columns
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if data.IDs == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "pedigree has no ids column")
	}
	return pedigree.FromColumns(pedigree.Columns{
		IDs:        data.IDs,
		Sires:      data.Sires,
		Dams:       data.Dams,
		Sex:        data.Sex,
		BirthDates: data.BirthDates,
	}, opts...)
}

// ImportJSON reads a JSON pedigree file at path.
//
// A path that does not exist yields a FILE_NOT_FOUND error; other failures
// wrap the underlying cause with the path for context.
func ImportJSON(path string, opts ...pedigree.Option) (*pedigree.Pedigree, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	p, err := ReadJSON(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
