// Package pedigree provides the indexed pedigree graph that every analysis
// in pedigraph consumes.
//
// # Overview
//
// A pedigree is an ordered list of individuals, each referencing at most two
// parents: a sire (male parent) and a dam (female parent). Parent references
// are weak: they are id strings that may or may not resolve to another record
// in the same pedigree. Input order is significant. It is the stable
// tie-break key for every deterministic algorithm and the index used in all
// results.
//
// # Building a Pedigree
//
// Build from individuals with [New], or from parallel columns with
// [FromColumns], which rejects columns of different lengths:
//
//	p, err := pedigree.FromColumns(pedigree.Columns{
//	    IDs:   []string{"S", "D", "A"},
//	    Sires: []string{"0", "0", "S"},
//	    Dams:  []string{"0", "0", "D"},
//	})
//
// # Missing Parents
//
// A parent reference is missing when, after trimming whitespace, it matches
// one of the missing tokens ("", "0" and "NA" by default, see
// [DefaultMissingTokens]). References are stored trimmed, so every analysis
// shares one predicate. A known reference that does not resolve to a record
// is "out of set": QC reports it as a missing sire or dam, and graph
// algorithms treat that slot as unknown.
//
// # Resolution
//
// [Pedigree.SireIndex] and [Pedigree.DamIndex] resolve parent references to
// record indices (the first record carrying that id), and [Pedigree.Children]
// lists records referencing a given record as a parent. These indices are
// computed once in the constructor; a Pedigree is immutable afterwards.
//
// # Concurrency
//
// A Pedigree is read-only after construction and safe for concurrent use by
// multiple analyses. Per-analysis traversal state lives in the analysis.
package pedigree
