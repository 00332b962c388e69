// Package pkg provides the libraries behind pedigraph.
//
// # Overview
//
// A pedigree is a list of individuals, each naming a sire and a dam. The pkg
// directory is organized into four areas:
//
//  1. [pedigree] - the model and the analyses (qc, cycle, topo, inbreeding,
//     lineage, descendants)
//  2. [io] - columnar JSON input and result output
//  3. [cache] and [observability] - infrastructure shared by the runner
//  4. [pipeline] - orchestration of analyses over one pedigree
//
// # Architecture
//
// The typical data flow:
//
//	columnar JSON
//	     ↓
//	[io] package (decode, shape check)
//	     ↓
//	[pedigree] package (id index, resolved parents)
//	     ↓
//	[pipeline] package (concurrent analyses, cached inbreeding)
//	     ↓
//	text report or JSON
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/pedigraph/pkg/io"
//	    "github.com/matzehuels/pedigraph/pkg/pedigree/inbreeding"
//	)
//
//	p, err := io.ImportJSON("herd.json")
//	if err != nil {
//	    return err
//	}
//	res, err := inbreeding.Compute(p)
//	if err != nil {
//	    return err // DUPLICATE_ID or CYCLE_DETECTED
//	}
//	fmt.Println(res.Summary().Mean)
//
// Analyses never mutate the pedigree and keep all working state per call,
// so any number of them may run concurrently over the same value.
package pkg
