package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/fnmetrics/internal/config"
	"github.com/nao1215/fnmetrics/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor handles concurrent processing of multiple reports.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on a single report
// 2. Callers see each report as it finishes and keep input order by index
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each report.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of reports processed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent reports.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each report so that pipeline
// state never leaks between reports.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     config.DefaultBatchSize,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatchWithCallback processes multiple reports concurrently and calls
// callback once for every source with its finished extraction and its index
// in sources. It respects the configured concurrency limit and context
// cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because errgroup handles the bookkeeping correctly with less code.
//
// The callback runs on the worker goroutine and must be safe for concurrent
// use. A report that failed carries its error in Extraction.Err; reports not
// started before cancellation carry the context error. The error return is
// only set when the context was cancelled.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	sources []string,
	callback func(extraction *model.Extraction, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_reports", len(sources),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, source := range sources {
		g.Go(func() error {
			extraction := model.NewExtraction(source)

			select {
			case <-ctx.Done():
				extraction.SetError(ctx.Err())
				callback(extraction, i)
				return ctx.Err()
			default:
			}

			if err := bp.pipelineFactory().Execute(ctx, extraction); err != nil {
				bp.logger.Warn("report failed",
					"source", source,
					"error", err,
				)
			} else {
				bp.logger.Info("report completed",
					"source", source,
					"records", extraction.Len(),
					"elapsed", extraction.Duration(),
				)
			}

			// Don't return report errors to errgroup: other reports continue.
			callback(extraction, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_reports", len(sources),
		"elapsed", time.Since(startTime),
	)

	return err
}
