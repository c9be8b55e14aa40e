package output

import (
	"fmt"
	"io"
)

// TextWriter writes the human-readable stats summary.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// Write prints the report header, stats and warnings.
func (w *TextWriter) Write(r Report) error {
	if _, err := fmt.Fprintf(w.w, "== %s\n", r.Source); err != nil {
		return err
	}
	if r.Stats != nil {
		if _, err := io.WriteString(w.w, r.Stats.String()); err != nil {
			return err
		}
	}
	for _, warn := range r.Warnings {
		if _, err := fmt.Fprintf(w.w, "Warning: %s\n", warn); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op.
func (w *TextWriter) Close() error {
	return nil
}
