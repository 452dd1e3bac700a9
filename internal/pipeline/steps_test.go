package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/fnmetrics/internal/model"
	"github.com/nao1215/fnmetrics/internal/scanner"
)

const sampleReport = `<html><body>
<table><tr><td><h4>Report for pkg Foo.java</h4></td></tr></table>
<table>
<tr><td>int bar()</td><td>3</td></tr>
<tr></tr>
</table>
</body></html>`

// writeReport writes content to a temporary report file and returns its path.
func writeReport(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}
	return path
}

// TestDefaultPipeline tests the read → scan pipeline.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("has read and scan steps", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline(scanner.New())
		names := p.StepNames()
		if len(names) != 2 || names[0] != "read" || names[1] != "scan" {
			t.Errorf("expected [read scan], got %v", names)
		}
	})

	t.Run("extracts records from a report file", func(t *testing.T) {
		t.Parallel()

		path := writeReport(t, "report.html", sampleReport)
		extraction := model.NewExtraction(path)

		if err := DefaultPipeline(scanner.New()).Execute(context.Background(), extraction); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if extraction.Len() != 1 {
			t.Fatalf("expected 1 record, got %d", extraction.Len())
		}
		if got := extraction.Records[0].String(); got != "Foo.java:bar(),3" {
			t.Errorf("expected 'Foo.java:bar(),3', got %q", got)
		}
		if len(extraction.SHA256) != 64 {
			t.Errorf("expected hex sha256, got %q", extraction.SHA256)
		}
		if extraction.Encoding != "utf-8" {
			t.Errorf("expected utf-8, got %q", extraction.Encoding)
		}
		if extraction.Content != nil {
			t.Error("expected raw content to be released after scanning")
		}
		if extraction.Stats.SkippedRows != 1 {
			t.Errorf("expected 1 skipped row, got %d", extraction.Stats.SkippedRows)
		}
	})

	t.Run("missing file fails the read step", func(t *testing.T) {
		t.Parallel()

		extraction := model.NewExtraction(filepath.Join(t.TempDir(), "missing.html"))
		err := DefaultPipeline(scanner.New()).Execute(context.Background(), extraction)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got %v", err)
		}
		if len(extraction.PerformedSteps) != 0 {
			t.Errorf("expected no performed steps, got %v", extraction.PerformedSteps)
		}
	})

	t.Run("identical files hash identically", func(t *testing.T) {
		t.Parallel()

		a := model.NewExtraction(writeReport(t, "a.html", sampleReport))
		b := model.NewExtraction(writeReport(t, "b.html", sampleReport))
		step := NewReadStep(nil)

		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := step.Do(context.Background(), b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.SHA256 != b.SHA256 {
			t.Errorf("expected equal digests, got %s and %s", a.SHA256, b.SHA256)
		}
	})
}
