package output

import (
	"fmt"
	"io"
)

// TextSink writes the tab-separated text representation of each record to a
// writer, typically a log file or stdout. Records without a text
// representation are skipped.
type TextSink struct {
	name string
	w    io.Writer
}

// NewTextSink creates a TextSink over w and writes the column header
// comment line. The sink does not own the writer; closing the underlying
// file is the caller's job.
func NewTextSink(name string, w io.Writer, header string) (*TextSink, error) {
	if header != "" {
		if _, err := fmt.Fprintln(w, header); err != nil {
			return nil, fmt.Errorf("writing text log header: %w", err)
		}
	}
	return &TextSink{name: name, w: w}, nil
}

func (s *TextSink) Name() string { return s.name }

// Emit writes the record's text line. Write failures are reported but do
// not disable the sink; the next record is attempted regardless.
func (s *TextSink) Emit(rec Record) error {
	if rec.Text == "" {
		return nil
	}
	if _, err := fmt.Fprintln(s.w, rec.Text); err != nil {
		return fmt.Errorf("writing text line: %w", err)
	}
	return nil
}
