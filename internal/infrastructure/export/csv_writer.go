// Package csvexport produces CSV attachments for download by the admin panel.
// Output is UTF-8 with a leading BOM so spreadsheet tools pick up the encoding.
package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer writes a fixed-column CSV document. The column layout is set at
// construction and every row must match it.
type Writer struct {
	columns []string
	writer  *csv.Writer
}

// NewWriter writes the BOM and the header row, then returns a Writer for the
// data rows.
func NewWriter(w io.Writer, columns []string) (*Writer, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("csv export requires at least one column")
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	return &Writer{columns: columns, writer: cw}, nil
}

// WriteRow appends one data row. The value count must match the column count.
func (w *Writer) WriteRow(values ...string) error {
	if len(values) != len(w.columns) {
		return fmt.Errorf("row has %d values, expected %d", len(values), len(w.columns))
	}
	if err := w.writer.Write(values); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// Flush commits buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	w.writer.Flush()
	return w.writer.Error()
}

// Build renders a complete document in memory.
func Build(columns []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, columns)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.WriteRow(row...); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Filename builds an attachment name like "bill_report_20260701-20260731.csv".
func Filename(prefix string, from, to time.Time) string {
	return fmt.Sprintf("%s_%s-%s.csv", prefix, from.Format("20060102"), to.Format("20060102"))
}

// MonthFilename builds an attachment name for a single billing month, like
// "bill_report_202607.csv". The month is passed through as given.
func MonthFilename(prefix, billMonth string) string {
	stamp := billMonth
	if t, err := time.Parse("2006-01", billMonth); err == nil {
		stamp = t.Format("200601")
	}
	return fmt.Sprintf("%s_%s.csv", prefix, stamp)
}
