package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/fnmetrics/internal/model"
	"github.com/nao1215/fnmetrics/internal/scanner"
)

// ReadStep loads the report file into memory and fingerprints it.
//
// Design decision: The whole file is read up front rather than streamed into
// the parser because the parser builds the complete tree anyway, and the
// digest stored with history runs needs every byte.
type ReadStep struct {
	logger *slog.Logger
}

// NewReadStep creates a new read step.
func NewReadStep(logger *slog.Logger) *ReadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadStep{logger: logger}
}

// Name returns the step name.
func (s *ReadStep) Name() string {
	return "read"
}

// Do reads extraction.Source.
func (s *ReadStep) Do(_ context.Context, extraction *model.Extraction) error {
	content, err := os.ReadFile(extraction.Source)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}

	sum := sha256.Sum256(content)
	extraction.Content = content
	extraction.SHA256 = hex.EncodeToString(sum[:])

	s.logger.Debug("report read",
		"source", extraction.Source,
		"bytes", len(content),
	)
	return nil
}

// ScanStep walks the report's tables and appends the records.
type ScanStep struct {
	scanner *scanner.Scanner
	logger  *slog.Logger
}

// NewScanStep creates a new scan step using s.
func NewScanStep(s *scanner.Scanner, logger *slog.Logger) *ScanStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanStep{scanner: s, logger: logger}
}

// Name returns the step name.
func (s *ScanStep) Name() string {
	return "scan"
}

// Do scans extraction.Content. The raw content is released afterwards.
func (s *ScanStep) Do(ctx context.Context, extraction *model.Extraction) error {
	res, err := s.scanner.ScanBytes(ctx, extraction.Content, extraction.Add)
	extraction.Stats = res.Stats
	extraction.Encoding = res.Encoding
	extraction.Content = nil
	if err != nil {
		return err
	}

	s.logger.Debug("report scanned",
		"source", extraction.Source,
		"encoding", res.Encoding,
		"tables", res.Stats.Tables,
		"records", extraction.Len(),
		"skipped_rows", res.Stats.SkippedRows,
	)
	return nil
}

// DefaultPipeline creates the standard read → scan pipeline.
func DefaultPipeline(s *scanner.Scanner, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewReadStep(p.logger),
		NewScanStep(s, p.logger),
	)
	return p
}
