package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/nao1215/fnmetrics/internal/config"
	"github.com/nao1215/fnmetrics/internal/database"
	"github.com/nao1215/fnmetrics/internal/model"
	"github.com/nao1215/fnmetrics/internal/report"
	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"
)

// errNotEnoughRuns is returned when a report has fewer than two saved runs.
var errNotEnoughRuns = errors.New("at least two saved runs are required to compare")

// comparison is the result of comparing two runs of one report.
type comparison struct {
	Source string       `json:"source"`
	Older  database.Run `json:"older"`
	Newer  database.Run `json:"newer"`
	model.Diff
}

// NewCompareCmd creates the compare command.
// This command compares the records of two saved runs of the same report.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <report.html>",
		Short: "Compare saved runs of a report",
		Long: `Compare shows how the records of a report changed between two saved runs:

- Functions added since the older run
- Functions removed since the older run
- Functions whose value changed

By default the two latest runs are compared. Runs are recorded with --save;
use 'fnmetrics history' to see the available run IDs.

Examples:
  # Compare the latest two runs
  fnmetrics compare report.html

  # Compare the latest run with run 5
  fnmetrics compare --with-run-id 5 report.html

  # Output the comparison as Markdown
  fnmetrics compare -f markdown report.html`,
		Args: cobra.ExactArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare the latest run with the run of this ID (use 'history' to see IDs)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildQueryConfig(cmd)
	if err != nil {
		return err
	}

	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}

	source := args[0]

	db, err := openHistory(cfg.DBDir, false)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("%w: no runs of %s have been saved", errNotEnoughRuns, source)
	}
	defer db.Close()

	result, err := compareRuns(cmd.Context(), db, source, withRunID)
	if err != nil {
		return err
	}

	return withOutput(cmd, cfg, func(out io.Writer) error {
		switch cfg.Format {
		case config.FormatJSON:
			_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(result)
			return err
		case config.FormatMarkdown:
			return writeComparisonMarkdown(out, result)
		default:
			return writeComparisonText(out, result, isTTY(out))
		}
	})
}

// compareRuns loads the runs to compare and diffs their records.
// The latest run of source is always the newer side; the older side is the
// run before it, or the run with ID withRunID when that is non-zero.
func compareRuns(ctx context.Context, db *database.HistoryDB, source string, withRunID int64) (*comparison, error) {
	latest, err := db.LatestRuns(ctx, source, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}

	var olderID int64
	switch {
	case withRunID != 0:
		if len(latest) == 0 {
			return nil, fmt.Errorf("%w: no runs of %s have been saved", errNotEnoughRuns, source)
		}
		if withRunID == latest[0].ID {
			return nil, fmt.Errorf("run %d is the latest run of %s; choose an older run", withRunID, source)
		}
		olderID = withRunID
	case len(latest) < 2:
		return nil, fmt.Errorf("%w: %s has %d saved run(s)", errNotEnoughRuns, source, len(latest))
	default:
		olderID = latest[1].ID
	}

	newer, newerRecords, err := db.GetRun(ctx, latest[0].ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", latest[0].ID, err)
	}
	if newer == nil {
		return nil, fmt.Errorf("%w: %d", errRunNotFound, latest[0].ID)
	}

	older, olderRecords, err := db.GetRun(ctx, olderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", olderID, err)
	}
	if older == nil {
		return nil, fmt.Errorf("%w: %d", errRunNotFound, olderID)
	}
	if older.Source != source {
		return nil, fmt.Errorf("run %d belongs to %s, not %s", olderID, older.Source, source)
	}

	return &comparison{
		Source: source,
		Older:  *older,
		Newer:  *newer,
		Diff:   model.Compare(olderRecords, newerRecords),
	}, nil
}

// diffStyles colors change lines on terminals.
type diffStyles struct {
	added   lipgloss.Style
	removed lipgloss.Style
	changed lipgloss.Style
	muted   lipgloss.Style
}

func newDiffStyles(tty bool) diffStyles {
	if !tty {
		return diffStyles{
			added:   lipgloss.NewStyle(),
			removed: lipgloss.NewStyle(),
			changed: lipgloss.NewStyle(),
			muted:   lipgloss.NewStyle(),
		}
	}
	return diffStyles{
		added:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // Green
		removed: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // Red
		changed: lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // Yellow
		muted:   lipgloss.NewStyle().Faint(true),
	}
}

// changeLine renders one change in the record line format, prefixed with
// "+", "-" or "~".
func changeLine(c model.Change) string {
	switch c.Kind {
	case model.ChangeAdded:
		return "+ " + model.Record{File: c.File, Function: c.Function, Value: c.New}.String()
	case model.ChangeRemoved:
		return "- " + model.Record{File: c.File, Function: c.Function, Value: c.Old}.String()
	default:
		return "~ " + model.Record{File: c.File, Function: c.Function, Value: c.Old}.String() + " -> " + c.New
	}
}

// summaryLine returns the counts of a comparison.
func summaryLine(result *comparison) string {
	return fmt.Sprintf("%d added, %d removed, %d changed, %d unchanged",
		result.Count(model.ChangeAdded),
		result.Count(model.ChangeRemoved),
		result.Count(model.ChangeModified),
		result.Unchanged,
	)
}

// writeComparisonText writes the comparison in a diff-like text format.
func writeComparisonText(w io.Writer, result *comparison, tty bool) error {
	styles := newDiffStyles(tty)

	if _, err := fmt.Fprintf(w, "Comparing %s: run #%d (%s) -> run #%d (%s)\n\n",
		result.Source,
		result.Older.ID, result.Older.Timestamp.Local().Format(timeLayout),
		result.Newer.ID, result.Newer.Timestamp.Local().Format(timeLayout),
	); err != nil {
		return err
	}

	if result.Empty() {
		if _, err := fmt.Fprintln(w, "No differences."); err != nil {
			return err
		}
	}

	for _, c := range result.Changes {
		style := styles.changed
		switch c.Kind {
		case model.ChangeAdded:
			style = styles.added
		case model.ChangeRemoved:
			style = styles.removed
		}
		if _, err := fmt.Fprintln(w, style.Render(changeLine(c))); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%s\n", styles.muted.Render(summaryLine(result)))
	return err
}

// writeComparisonMarkdown writes the comparison as a Markdown document.
func writeComparisonMarkdown(w io.Writer, result *comparison) error {
	md := markdown.NewMarkdown(w)

	md.H1("Comparison: " + result.Source)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Run", "ID", "Date", "Records"},
		Rows: [][]string{
			{"Older", strconv.FormatInt(result.Older.ID, 10), result.Older.Timestamp.Local().Format(timeLayout), strconv.Itoa(result.Older.RecordCount)},
			{"Newer", strconv.FormatInt(result.Newer.ID, 10), result.Newer.Timestamp.Local().Format(timeLayout), strconv.Itoa(result.Newer.RecordCount)},
		},
	})
	md.PlainText("")

	if result.Empty() {
		md.Tip("No differences between the runs.")
		return md.Build()
	}

	md.H2("Changes")
	md.PlainText("")

	rows := make([][]string, 0, len(result.Changes))
	for _, c := range result.Changes {
		rows = append(rows, []string{string(c.Kind), c.File, "`" + c.Function + "`", c.Old, c.New})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Change", "File", "Function", "Old", "New"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainText(summaryLine(result))

	return md.Build()
}
