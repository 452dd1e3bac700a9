package main

import (
	"github.com/nao1215/fnmetrics/internal/config"
	"github.com/nao1215/fnmetrics/internal/model"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for fnmetrics.
// The root command itself extracts one report; other operations are subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fnmetrics <report.html>",
		Short: "Extract per-function metric values from HTML metrics reports",
		Long: `fnmetrics reads an HTML metrics report and prints one line per function:

  <file>:<function>,<value>

A table containing an <h4> heading names the source file (the heading must end
with ".java"); the rows of the following tables list functions in their first
cell and the metric value in their second cell.

Examples:
  # Print records of a single report
  fnmetrics report.html

  # Write JSON to a file
  fnmetrics -f json -o out/report.json report.html

  # Keep JSON in a file and watch the records on the terminal
  fnmetrics -f json -o out/report.json --tee report.html

  # Save the extraction to the history database
  fnmetrics --save report.html

  # Process many reports concurrently
  fnmetrics batch reports/*.html`,
		Version:       getVersion(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging (skipped tables and rows)")
	cmd.PersistentFlags().Bool("log-json", false, "Write log lines as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: "+config.DefaultConfigFile+" in current or XDG config directory)")
	cmd.PersistentFlags().StringP("format", "f", config.DefaultFormat,
		"Output format: text, json or markdown")
	cmd.PersistentFlags().StringP("output", "o", "",
		"Write output to the specified file path (creates directories if needed)")
	cmd.PersistentFlags().Bool("tee", false, "With --output, also print the records as text on stdout")
	cmd.PersistentFlags().BoolP("save", "s", false, "Save extractions to the history database")

	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// runRootCmd extracts the records of a single report.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return configError(err)
	}

	logger := newLogger(cmd, cfg)
	ctx := cmd.Context()

	extraction := model.NewExtraction(cfg.Inputs[0])
	if err := newPipeline(cfg, logger).Execute(ctx, extraction); err != nil {
		return err
	}

	if err := writeExtraction(cmd, cfg, extraction); err != nil {
		return err
	}

	return saveExtractions(ctx, cfg, []*model.Extraction{extraction}, logger)
}
