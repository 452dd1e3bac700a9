package model

import "strings"

// Record is one function-level metric value extracted from a data table row.
//
// The textual form "<file>:<function>,<value>" is the output unit of the tool.
// Function and Value are kept exactly as they appeared in the report (apart
// from the leading characters dropped from the first cell), so the textual
// form round-trips byte for byte.
type Record struct {
	// File is the source filename taken from the most recent header table.
	File string `json:"file"`

	// Function is the function signature derived from the row's first cell.
	Function string `json:"function"`

	// Value is the raw text of the row's second cell.
	Value string `json:"value"`
}

// String renders the record as "<file>:<function>,<value>" without a newline.
func (r Record) String() string {
	var sb strings.Builder
	sb.Grow(len(r.File) + len(r.Function) + len(r.Value) + 2)
	sb.WriteString(r.File)
	sb.WriteByte(':')
	sb.WriteString(r.Function)
	sb.WriteByte(',')
	sb.WriteString(r.Value)
	return sb.String()
}

// Key identifies the function a record belongs to, "<file>:<function>".
// Two records with the same key describe the same function in different runs.
func (r Record) Key() string {
	return r.File + ":" + r.Function
}
