package pedigree

import "strings"

// Sex is the normalized sex of an individual.
type Sex int

const (
	// SexUnknown is the zero value: no usable sex information.
	SexUnknown Sex = iota
	// SexMale marks a male individual.
	SexMale
	// SexFemale marks a female individual.
	SexFemale
)

// String returns "male", "female", or "unknown".
func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return "unknown"
	}
}

// ParseSex normalizes a raw sex code. Matching is case-insensitive on the
// trimmed value: "m", "male" and "1" are male, "f", "female" and "2" are
// female, and anything else is unknown.
func ParseSex(raw string) Sex {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m", "male", "1":
		return SexMale
	case "f", "female", "2":
		return SexFemale
	default:
		return SexUnknown
	}
}
