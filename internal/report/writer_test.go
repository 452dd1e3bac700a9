package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/fnmetrics/internal/model"
)

// createTestExtraction creates an extraction with sample records for testing.
func createTestExtraction(source string) *model.Extraction {
	e := model.NewExtraction(source)
	e.Encoding = "utf-8"
	e.Add(model.Record{File: "Foo.java", Function: "bar()", Value: "3"})
	e.Add(model.Record{File: "Foo.java", Function: "baz()", Value: "1,5"})
	e.Stats = model.ScanStats{Tables: 2, HeaderTables: 1, DataTables: 1, Rows: 3, SkippedRows: 1}
	return e
}

// TestTextWriter tests the record line writer.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes one line per record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewTextWriter(&buf).Write(createTestExtraction("report.html"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "Foo.java:bar(),3\nFoo.java:baz(),1,5\n"
		if buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
		if n != len(want) {
			t.Errorf("expected %d bytes, got %d", len(want), n)
		}
	})

	t.Run("writes nothing for zero records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(model.NewExtraction("empty.html")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected empty output, got %q", buf.String())
		}
	})

	t.Run("concatenates extractions in order", func(t *testing.T) {
		t.Parallel()

		second := model.NewExtraction("b.html")
		second.Add(model.Record{File: "Bar.java", Function: "qux()", Value: "7"})

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).WriteAll([]*model.Extraction{createTestExtraction("a.html"), second}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "Foo.java:bar(),3\nFoo.java:baz(),1,5\nBar.java:qux(),7\n"
		if buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
	})
}

// TestJSONWriter tests JSON output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes extraction object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestExtraction("report.html")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.Extraction
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Source != "report.html" {
			t.Errorf("expected source report.html, got %q", decoded.Source)
		}
		if len(decoded.Records) != 2 || decoded.Records[1].Value != "1,5" {
			t.Errorf("unexpected records: %+v", decoded.Records)
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("compact by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestExtraction("report.html")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("expected single line, got %q", buf.String())
		}
	})

	t.Run("WithIndent pretty prints", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent("", "\t")).Write(createTestExtraction("report.html")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n\t\"source\"") {
			t.Errorf("expected tab indentation, got %q", buf.String())
		}
	})

	t.Run("WriteAll writes an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteAll([]*model.Extraction{createTestExtraction("a.html"), createTestExtraction("b.html")}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded []model.Extraction
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[1].Source != "b.html" {
			t.Errorf("unexpected array: %+v", decoded)
		}
	})

	t.Run("WriteAll of nil writes an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteAll(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "[]\n" {
			t.Errorf("expected empty array, got %q", buf.String())
		}
	})

	t.Run("error message is serialized", func(t *testing.T) {
		t.Parallel()

		e := model.NewExtraction("missing.html")
		e.SetError(errors.New("failed to read report"))

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"error":"failed to read report"`) {
			t.Errorf("expected error field, got %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests Markdown output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes title, section and record table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestExtraction("report.html")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"# Function Metrics", "## report.html", "Function", "`bar()`", "Foo.java"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("notes reports without records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(model.NewExtraction("empty.html")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No function rows found.") {
			t.Errorf("expected note, got:\n%s", buf.String())
		}
	})

	t.Run("shows failures", func(t *testing.T) {
		t.Parallel()

		e := model.NewExtraction("missing.html")
		e.SetError(errors.New("no such file"))

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Extraction failed: no such file") {
			t.Errorf("expected failure alert, got:\n%s", buf.String())
		}
	})
}

// TestNewWriter tests the format factory.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		wantErr bool
	}{
		{format: "text"},
		{format: "json"},
		{format: "markdown"},
		{format: "csv", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			t.Parallel()

			w, err := NewWriter(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil || w == nil {
				t.Errorf("expected writer, got %v", err)
			}
		})
	}
}

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewTextWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(createTestExtraction("report.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("expected %d total bytes, got %d", text.Len()+js.Len(), n)
	}
	if !strings.HasPrefix(text.String(), "Foo.java:bar(),3\n") {
		t.Errorf("unexpected text output %q", text.String())
	}
	if !json.Valid(js.Bytes()) {
		t.Errorf("expected valid JSON, got %q", js.String())
	}
}
