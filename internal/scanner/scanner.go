package scanner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/fnmetrics/internal/model"
)

// Scanner walks metrics reports and emits one record per function row.
// A Scanner holds configuration only and is safe for concurrent use.
type Scanner struct {
	// opts controls how headers and rows are interpreted.
	opts Options

	// logger receives debug messages for skipped tables and rows.
	logger *slog.Logger
}

// Result summarizes a completed scan.
type Result struct {
	// Stats counts the tables and rows that were visited.
	Stats model.ScanStats

	// Encoding is the name of the character encoding the report was read in.
	Encoding string
}

// New creates a Scanner with DefaultOptions, modified by opts.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		opts: DefaultOptions(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Scan reads the whole report from r, decodes it to UTF-8, parses it and
// walks its tables, calling emit for every record in document order.
//
// Only reading and context cancellation produce errors. Malformed markup is
// repaired by the parser and structural anomalies are skipped.
func (s *Scanner) Scan(ctx context.Context, r io.Reader, emit func(model.Record)) (Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read report: %w", err)
	}
	return s.ScanBytes(ctx, content, emit)
}

// ScanBytes is Scan for a report that is already in memory.
func (s *Scanner) ScanBytes(ctx context.Context, content []byte, emit func(model.Record)) (Result, error) {
	decoded, encoding := Decode(content, "")

	body, err := io.ReadAll(decoded)
	if err != nil {
		return Result{Encoding: encoding}, fmt.Errorf("failed to decode report: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Result{Encoding: encoding}, fmt.Errorf("failed to parse report: %w", err)
	}

	stats, err := s.scanDocument(ctx, doc, sourceHeaders(body), emit)
	return Result{Stats: stats, Encoding: encoding}, err
}

// scanDocument walks the tables of a parsed document. headers holds the
// source-order heading of every table and may be nil.
//
// The current filename lives only for the duration of this call, so
// concurrent scans never share state.
func (s *Scanner) scanDocument(ctx context.Context, doc *goquery.Document, headers []sourceHeader, emit func(model.Record)) (model.ScanStats, error) {
	var (
		stats    model.ScanStats
		filename string
		walkErr  error
	)

	tables := doc.Find("table")
	if len(headers) != tables.Length() {
		s.logger.Debug("table count differs between markup and parsed tree, ignoring source headings",
			"markup", len(headers),
			"parsed", tables.Length(),
		)
		headers = nil
	}

	tables.EachWithBreak(func(i int, table *goquery.Selection) bool {
		if err := ctx.Err(); err != nil {
			walkErr = err
			return false
		}
		stats.Tables++

		text, isHeader := tableHeader(table, headers, i)
		if isHeader {
			stats.HeaderTables++
			name, ok := HeaderFilename(text, s.opts)
			if !ok {
				s.logger.Debug("header does not name a source file, skipping data tables until the next header",
					"header", text,
				)
			}
			filename = name
			return true
		}

		stats.DataTables++
		if filename == "" {
			return true
		}

		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			stats.Rows++
			rec, ok := s.recordFromRow(filename, row)
			if !ok {
				stats.SkippedRows++
				return
			}
			emit(rec)
		})
		return true
	})

	return stats, walkErr
}

// tableHeader returns the text of the table's <h4> heading. A heading the
// parser moved out of the table is taken from headers[i].
func tableHeader(table *goquery.Selection, headers []sourceHeader, i int) (string, bool) {
	if h4 := table.Find("h4"); h4.Length() > 0 {
		return h4.First().Text(), true
	}
	if i < len(headers) && headers[i].found {
		return headers[i].text, true
	}
	return "", false
}

// recordFromRow turns a data table row into a record.
// It returns false for rows that do not describe a function.
func (s *Scanner) recordFromRow(filename string, row *goquery.Selection) (model.Record, bool) {
	cells := row.Find("td")
	switch cells.Length() {
	case 0:
		return model.Record{}, false
	case 1:
		// A lone cell has no value to report.
		s.logger.Debug("row has a single cell, skipping",
			"file", filename,
			"cell", cells.Text(),
		)
		return model.Record{}, false
	}

	name, ok := FunctionName(cells.Eq(0).Text(), s.opts)
	if !ok {
		return model.Record{}, false
	}

	return model.Record{
		File:     filename,
		Function: name,
		Value:    cells.Eq(1).Text(),
	}, true
}
