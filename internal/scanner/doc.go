// Package scanner extracts function-level metric records from HTML metrics
// reports.
//
// # Report layout
//
// A report is a sequence of tables. A table holding an <h4> heading is a
// header table and names the source file that the following tables describe,
// for example "Metrics for Foo.java". Any other table is a data table with
// one row per function: the first cell holds the signature, the second the
// metric value.
//
// # Walk
//
// The Scanner performs a single forward pass over all <table> elements in
// document order. The current filename is local to that pass: a header table
// ending in the configured suffix sets it, any other header table clears it,
// and data tables are only read while it is set. Rows are turned into
// records when the first cell, minus its leading characters, ends in "()".
// Everything else is skipped silently.
//
// An <h4> written directly inside <table>, outside any cell, is moved in
// front of the table by the parser. Such a table still counts as a header
// table: a token pass over the markup records which tables held a heading.
//
// Design decision: We query the tree with goquery on top of
// golang.org/x/net/html rather than walking *html.Node by hand because:
//  1. The parser tolerates malformed markup the same way browsers do
//  2. Selector queries ("table", "h4", "tr", "td") keep the walk readable
//  3. Selections already return matches in document order
//
// # Usage
//
//	s := scanner.New(scanner.WithLogger(logger))
//	res, err := s.Scan(ctx, file, func(r model.Record) {
//	    fmt.Println(r)
//	})
package scanner
