package model

import (
	"time"
)

// Extraction is the result of processing a single metrics report.
// It is filled in step by step by the pipeline: the read step stores the raw
// content and its hash, the scan step appends records and counters.
//
// Design decision: We keep the raw content on the struct (excluded from JSON)
// rather than passing it between steps as a return value, so every step has
// the same signature and the batch processor can treat reports uniformly.
type Extraction struct {
	// Source is the path of the report file as given on the command line.
	Source string `json:"source"`

	// SHA256 is the hex-encoded SHA-256 digest of the raw report bytes.
	SHA256 string `json:"sha256,omitempty"`

	// Encoding is the character encoding the report was decoded from.
	Encoding string `json:"encoding,omitempty"`

	// Records are the extracted records in document order.
	Records []Record `json:"records"`

	// Stats counts what the scanner saw while walking the document.
	Stats ScanStats `json:"stats"`

	// StartedAt is when processing of this report began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last pipeline step returned.
	FinishedAt time.Time `json:"finished_at"`

	// Content holds the raw report bytes between the read and scan steps.
	Content []byte `json:"-"`

	// Err is the error that stopped processing, if any.
	// It is not serialized; ErrorMessage carries the text instead.
	Err error `json:"-"`

	// ErrorMessage is the string form of Err for JSON output.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`
}

// ScanStats counts tables and rows encountered during a scan.
type ScanStats struct {
	Tables       int `json:"tables"`
	HeaderTables int `json:"header_tables"`
	DataTables   int `json:"data_tables"`

	// Rows is the number of data table rows visited under a valid filename.
	Rows int `json:"rows"`

	// SkippedRows is the number of visited rows that produced no record.
	SkippedRows int `json:"skipped_rows"`
}

// NewExtraction creates an Extraction for the given report path.
func NewExtraction(source string) *Extraction {
	return &Extraction{
		Source:    source,
		Records:   make([]Record, 0),
		StartedAt: time.Now(),
	}
}

// Add appends a record in document order.
func (e *Extraction) Add(r Record) {
	e.Records = append(e.Records, r)
}

// Len returns the number of extracted records.
func (e *Extraction) Len() int {
	return len(e.Records)
}

// Failed reports whether processing stopped with an error.
func (e *Extraction) Failed() bool {
	return e.Err != nil
}

// SetError records err as the failure reason.
func (e *Extraction) SetError(err error) {
	e.Err = err
	if err != nil {
		e.ErrorMessage = err.Error()
	}
}

// Duration returns how long processing took.
// It returns zero when the extraction has not finished.
func (e *Extraction) Duration() time.Duration {
	if e.FinishedAt.IsZero() {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}
