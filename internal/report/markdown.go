package report

import (
	"io"
	"strconv"

	"github.com/nao1215/fnmetrics/internal/model"
	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs extractions in Markdown format.
// This format is designed for documentation and sharing, for example as a
// pull request comment.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Table rendering with proper column alignment
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one extraction as a Markdown document.
func (w *MarkdownWriter) Write(extraction *model.Extraction) (int, error) {
	return w.WriteAll([]*model.Extraction{extraction})
}

// WriteAll outputs the extractions as one Markdown document with a
// section per report.
func (w *MarkdownWriter) WriteAll(extractions []*model.Extraction) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Function Metrics")
	md.PlainText("")

	for _, e := range extractions {
		w.writeExtraction(md, e)
	}

	return len(md.String()), md.Build()
}

// writeExtraction writes the section for a single report.
func (w *MarkdownWriter) writeExtraction(md *markdown.Markdown, e *model.Extraction) {
	md.H2(e.Source)
	md.PlainText("")

	if e.Failed() {
		md.Cautionf("Extraction failed: %s", e.ErrorMessage)
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Records", strconv.Itoa(e.Len())},
			{"Tables", strconv.Itoa(e.Stats.Tables)},
			{"Skipped Rows", strconv.Itoa(e.Stats.SkippedRows)},
			{"Encoding", e.Encoding},
		},
	})
	md.PlainText("")

	if e.Len() == 0 {
		md.Note("No function rows found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, e.Len())
	for _, r := range e.Records {
		rows = append(rows, []string{r.File, "`" + r.Function + "`", r.Value})
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Function", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}
