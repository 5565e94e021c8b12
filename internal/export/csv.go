package export

import (
	"encoding/csv"
	"io"

	"vatcart/internal/cart"
)

// BOM is the UTF-8 byte order mark, for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting quotes as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes CSV to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteQuote writes the context block, the line table, the totals block and
// the legal mentions, separated by empty records.
func (w *CSVWriter) WriteQuote(q *cart.Quote) error {
	if err := w.csv.WriteAll(headerRows(q)); err != nil {
		return err
	}
	if err := w.blank(); err != nil {
		return err
	}

	if err := w.csv.Write(lineColumns); err != nil {
		return err
	}
	for i := range q.Lines {
		if err := w.csv.Write(lineToRow(&q.Lines[i])); err != nil {
			return err
		}
	}
	if err := w.blank(); err != nil {
		return err
	}

	if err := w.csv.WriteAll(totalRows(q)); err != nil {
		return err
	}

	if len(q.Mentions) == 0 {
		return nil
	}
	if err := w.blank(); err != nil {
		return err
	}
	if err := w.csv.Write([]string{"Mentions"}); err != nil {
		return err
	}
	for _, m := range q.Mentions {
		if err := w.csv.Write([]string{m}); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) blank() error {
	return w.csv.Write([]string{""})
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}
