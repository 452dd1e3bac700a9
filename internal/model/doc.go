// Package model defines the data structures shared by the scanner, the
// pipeline, the report writers and the history database.
//
// This package contains the following main types:
//   - Record: one function-level metric value, the unit of output
//   - Extraction: every record pulled from one report plus scan counters
//   - Diff: the changes between the records of two saved runs
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The scanner produces records, while the report and database
// packages consume them; centralizing the types prevents import cycles.
//
// The models are serializable to JSON for report and comparison output.
package model
