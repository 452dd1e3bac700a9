package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/fnmetrics/internal/config"
	"github.com/nao1215/fnmetrics/internal/database"
	fnlog "github.com/nao1215/fnmetrics/internal/log"
	"github.com/nao1215/fnmetrics/internal/model"
	"github.com/nao1215/fnmetrics/internal/pipeline"
	"github.com/nao1215/fnmetrics/internal/report"
	"github.com/nao1215/fnmetrics/internal/scanner"
	"github.com/spf13/cobra"
)

// buildConfig creates a Config from defaults, the configuration file and
// the cobra command flags, in that order of precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// A missing file is only an error when the user named it explicitly.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("save") {
		if cfg.Save, err = flags.GetBool("save"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("batch-size") {
		if cfg.BatchSize, err = flags.GetInt("batch-size"); err != nil {
			return nil, err
		}
	}

	if cfg.OutputFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Tee, err = flags.GetBool("tee"); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}

	cfg.Inputs = args

	return cfg, nil
}

// configError wraps a validation failure for display.
func configError(err error) error {
	return fmt.Errorf("configuration error: %w", err)
}

// newLogger creates the structured logger on the command's stderr.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return fnlog.NewJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	return fnlog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
}

// newPipeline creates the read → scan pipeline for one report.
func newPipeline(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	s := scanner.New(
		scanner.WithOptions(cfg.ScannerOptions()),
		scanner.WithLogger(logger),
	)
	return pipeline.DefaultPipeline(s, pipeline.WithLogger(logger))
}

// openOutput returns the destination for command output: the file named
// by path, or the command's stdout when path is empty.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// withOutput opens the configured destination, runs write against it and
// closes it again.
func withOutput(cmd *cobra.Command, cfg *config.Config, write func(w io.Writer) error) (err error) {
	out, closeOutput, err := openOutput(cmd, cfg.OutputFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOutput(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	return write(out)
}

// newRecordWriter returns the writer for records in the configured format
// on out. When --tee accompanies --output, the records are printed as text
// on stdout as well.
func newRecordWriter(cmd *cobra.Command, cfg *config.Config, out io.Writer) (report.Writer, error) {
	w, err := report.NewWriter(cfg.Format, out)
	if err != nil {
		return nil, err
	}
	if !cfg.Tee || cfg.OutputFile == "" {
		return w, nil
	}
	return report.NewMultiWriter(w, report.NewTextWriter(cmd.OutOrStdout())), nil
}

// writeExtraction writes a single extraction in the configured format.
func writeExtraction(cmd *cobra.Command, cfg *config.Config, extraction *model.Extraction) error {
	return withOutput(cmd, cfg, func(out io.Writer) error {
		w, err := newRecordWriter(cmd, cfg, out)
		if err != nil {
			return err
		}
		_, err = w.Write(extraction)
		return err
	})
}

// writeExtractions writes several extractions, in order, as one document.
func writeExtractions(cmd *cobra.Command, cfg *config.Config, extractions []*model.Extraction) error {
	return withOutput(cmd, cfg, func(out io.Writer) error {
		w, err := newRecordWriter(cmd, cfg, out)
		if err != nil {
			return err
		}
		_, err = w.WriteAll(extractions)
		return err
	})
}

// openHistory opens the history database, creating it when create is set.
// Without create it returns nil, nil when no database exists yet.
func openHistory(dbDir string, create bool) (*database.HistoryDB, error) {
	if !create {
		if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); os.IsNotExist(err) {
			return nil, nil
		}
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = create

	db, err := database.Open(dbDir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// saveExtractions stores the successful extractions when saving is enabled.
func saveExtractions(ctx context.Context, cfg *config.Config, extractions []*model.Extraction, logger *slog.Logger) error {
	if !cfg.Save {
		return nil
	}

	db, err := openHistory(cfg.DBDir, true)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Debug("history database opened", "path", db.Path())

	for _, e := range extractions {
		if e.Failed() {
			continue
		}
		id, err := db.SaveExtraction(ctx, e)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", e.Source, err)
		}
		logger.Info("extraction saved", "source", e.Source, "run_id", id, "records", e.Len())
	}

	return nil
}

// isTTY reports whether w is a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
