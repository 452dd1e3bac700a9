package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/nao1215/fnmetrics/internal/config"
	"github.com/nao1215/fnmetrics/internal/model"
	"github.com/nao1215/fnmetrics/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <report.html>...",
		Short: "Extract records from several reports concurrently",
		Long: `Batch processes several reports concurrently and writes their records in
argument order, so the text output equals running fnmetrics on each report in
turn.

A report that cannot be read does not stop the others. The command exits with
a non-zero status if any report failed.

Examples:
  # Process all reports in a directory
  fnmetrics batch reports/*.html

  # Limit concurrency and write a JSON array
  fnmetrics batch -b 2 -f json a.html b.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatchCmd,
	}

	cmd.Flags().IntP("batch-size", "b", config.DefaultBatchSize,
		"Number of reports processed concurrently")

	return cmd
}

// runBatchCmd executes the batch command.
func runBatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return configError(err)
	}

	logger := newLogger(cmd, cfg)
	ctx := cmd.Context()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return newPipeline(cfg, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	startTime := time.Now()

	// Failures are reported as they happen; records keep argument order.
	var (
		mu     sync.Mutex
		failed int
	)
	extractions := make([]*model.Extraction, len(cfg.Inputs))
	batchErr := bp.ProcessBatchWithCallback(ctx, cfg.Inputs, func(e *model.Extraction, index int) {
		mu.Lock()
		defer mu.Unlock()

		extractions[index] = e
		if e.Failed() {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", e.Source, e.ErrorMessage)
		}
	})

	if err := writeExtractions(cmd, cfg, extractions); err != nil {
		return err
	}

	if err := saveExtractions(ctx, cfg, extractions, logger); err != nil {
		return err
	}

	logger.Info("batch finished",
		"reports", len(extractions),
		"failed", failed,
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if batchErr != nil {
		return fmt.Errorf("batch interrupted: %w", batchErr)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(extractions))
	}
	return nil
}
