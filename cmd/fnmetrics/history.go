package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nao1215/fnmetrics/internal/config"
	"github.com/nao1215/fnmetrics/internal/database"
	"github.com/nao1215/fnmetrics/internal/model"
	"github.com/nao1215/fnmetrics/internal/report"
	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"
)

// timeLayout is used for run timestamps in human-readable output.
const timeLayout = "2006-01-02 15:04:05"

// errRunNotFound is returned when a run ID does not exist in the database.
var errRunNotFound = errors.New("run not found")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [report.html]",
		Short: "List saved extraction runs",
		Long: `History lists the extraction runs saved with --save, newest first.

Pass a report path to list only the runs of that report. Use "history show"
to print the records of one run.

Examples:
  # List all saved runs
  fnmetrics history

  # List the five latest runs of one report
  fnmetrics history -n 5 report.html

  # Print the records saved by run 3
  fnmetrics history show 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 0, "Show at most this many runs (0 lists all)")

	cmd.AddCommand(newHistoryShowCmd())

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the records saved by one run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}
}

// buildQueryConfig builds the configuration of the commands that only read
// the history database and checks the output format.
func buildQueryConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return nil, err
	}
	if !config.ValidFormat(cfg.Format) {
		return nil, configError(fmt.Errorf("%w: %q", config.ErrUnknownFormat, cfg.Format))
	}
	return cfg, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildQueryConfig(cmd)
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	var source string
	if len(args) > 0 {
		source = args[0]
	}

	runs := []database.Run{}

	db, err := openHistory(cfg.DBDir, false)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()

		if limit > 0 {
			runs, err = db.LatestRuns(cmd.Context(), source, limit)
		} else {
			runs, err = db.ListRuns(cmd.Context(), source)
		}
		if err != nil {
			return fmt.Errorf("failed to get history: %w", err)
		}
	}

	return withOutput(cmd, cfg, func(out io.Writer) error {
		switch cfg.Format {
		case config.FormatJSON:
			_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(runs)
			return err
		case config.FormatMarkdown:
			return writeRunsMarkdown(out, source, runs)
		default:
			return writeRunsText(out, source, runs, isTTY(out))
		}
	})
}

// runHistoryShowCmd prints the records of one run in the configured format.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	cfg, err := buildQueryConfig(cmd)
	if err != nil {
		return err
	}

	db, err := openHistory(cfg.DBDir, false)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("%w: %d", errRunNotFound, id)
	}
	defer db.Close()

	run, records, err := db.GetRun(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("%w: %d", errRunNotFound, id)
	}

	return writeExtraction(cmd, cfg, extractionFromRun(run, records))
}

// extractionFromRun rebuilds an extraction from saved data so the report
// writers can print it.
func extractionFromRun(run *database.Run, records []model.Record) *model.Extraction {
	return &model.Extraction{
		Source:     run.Source,
		SHA256:     run.SHA256,
		Encoding:   run.Encoding,
		Records:    records,
		StartedAt:  run.Timestamp,
		FinishedAt: run.Timestamp,
	}
}

// runRow returns the table cells of a run.
func runRow(run database.Run) []string {
	return []string{
		strconv.FormatInt(run.ID, 10),
		run.Timestamp.Local().Format(timeLayout),
		run.Source,
		strconv.Itoa(run.RecordCount),
		shortHash(run.SHA256),
	}
}

var runHeaders = []string{"ID", "Date", "Source", "Records", "SHA-256"}

// shortHash abbreviates a hex digest for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// writeRunsText writes the run list as a table. Terminals get a bordered
// lipgloss table; pipes and files get the same table without borders.
func writeRunsText(w io.Writer, source string, runs []database.Run, tty bool) error {
	if len(runs) == 0 {
		if source != "" {
			_, err := fmt.Fprintf(w, "No saved runs found for %s.\nUse 'fnmetrics --save %s' to record one.\n", source, source)
			return err
		}
		_, err := fmt.Fprintln(w, "No saved runs found.\nUse 'fnmetrics --save <report.html>' to record extractions.")
		return err
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, runRow(run))
	}

	t := table.New().
		Headers(runHeaders...).
		Rows(rows...)

	if tty {
		headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		cellStyle := lipgloss.NewStyle().Padding(0, 1)
		t = t.Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
	} else {
		// Only the column separators remain, rendered as blanks.
		cellStyle := lipgloss.NewStyle().PaddingRight(1)
		t = t.Border(lipgloss.HiddenBorder()).
			BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderHeader(false).
			StyleFunc(func(_, _ int) lipgloss.Style {
				return cellStyle
			})
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// writeRunsMarkdown writes the run list as a Markdown table.
func writeRunsMarkdown(w io.Writer, source string, runs []database.Run) error {
	md := markdown.NewMarkdown(w)

	title := "Extraction History"
	if source != "" {
		title += ": " + source
	}
	md.H1(title)
	md.PlainText("")

	if len(runs) == 0 {
		md.Note("No saved runs found.")
		return md.Build()
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, runRow(run))
	}
	md.Table(markdown.TableSet{
		Header: runHeaders,
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainTextf("*%d runs listed by fnmetrics %s*", len(runs), getVersion())

	return md.Build()
}
