// Package io provides JSON import and export for pedigrees and analysis
// results.
//
// # Overview
//
// The pedigree engine consumes parallel columns. This package is the
// marshaling boundary between those columns and a host: files produced by a
// database export, a notebook, or another tool. It is not a pedigree file
// format; there is no header sniffing and no delimiter handling.
//
// # JSON Format
//
// A pedigree is one JSON object with three required arrays of equal length
// and two optional ones:
//
//	{
//	  "ids":         ["S", "D", "A"],
//	  "sires":       ["0", "0", "S"],
//	  "dams":        ["0", "0", "D"],
//	  "sex":         ["M", "F", "M"],
//	  "birth_dates": [0, 0, 365.25]
//	}
//
// Entries of birth_dates may be null for unknown dates. Missing parents use
// any of the configured missing tokens ("", "0" and "NA" by default).
//
// # Import
//
// Use [ImportJSON] to read a pedigree from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	p, err := io.ImportJSON("herd.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Column length mismatches are reported as SHAPE_MISMATCH errors before any
// analysis runs.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write a pedigree back in the same format, with
// normalized parent references ("" for unknown). [WriteResult] writes any
// analysis result as indented JSON.
//
// [Encode] produces the canonical compact encoding used to derive cache
// keys: two pedigrees with the same records in the same order encode to the
// same bytes.
package io
