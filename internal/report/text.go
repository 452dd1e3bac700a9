package report

import (
	"bufio"
	"io"

	"github.com/nao1215/fnmetrics/internal/model"
)

// TextWriter outputs one "<file>:<function>,<value>" line per record, in
// document order, with no header and no summary. This is the format other
// tools consume, so it never changes shape.
//
// Design decision: We write the lines ourselves instead of using
// encoding/csv because the format is not CSV: the function and value are
// never quoted, and a value containing a comma is written as is.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the records of one extraction.
func (w *TextWriter) Write(extraction *model.Extraction) (int, error) {
	return w.WriteAll([]*model.Extraction{extraction})
}

// WriteAll outputs the records of every extraction, one after the other.
// Failed extractions contribute whatever records they have, normally none.
func (w *TextWriter) WriteAll(extractions []*model.Extraction) (int, error) {
	bw := bufio.NewWriter(w.output)

	var total int
	for _, e := range extractions {
		for _, r := range e.Records {
			n, err := bw.WriteString(r.String())
			total += n
			if err != nil {
				return total, err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return total, err
			}
			total++
		}
	}

	return total, bw.Flush()
}
