// Package report provides output writers for extracted records.
//
// This package contains writers for different output formats:
//   - TextWriter: one "<file>:<function>,<value>" line per record
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: a Markdown table per report for documentation
//
// Design decision: We separate output from the data structures (which are
// in the model package) so new formats can be added without touching the
// scanner or the history database.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
