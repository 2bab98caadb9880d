package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"histogen/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize UTF-8 CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StreamWriter writes table rows one at a time as CSV.
type StreamWriter struct {
	writer *csv.Writer
	rows   int
}

// NewStreamWriter writes the optional BOM and the header line to w.
func NewStreamWriter(w io.Writer, bom bool) (*StreamWriter, error) {
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(domain.Columns); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	return &StreamWriter{writer: writer}, nil
}

// WriteRow writes a single row to the stream
func (s *StreamWriter) WriteRow(row domain.BinObservation) error {
	if err := s.writer.Write(FormatRecord(row)); err != nil {
		return fmt.Errorf("failed to write record %d: %w", s.rows, err)
	}
	s.rows++
	return nil
}

// Rows returns the number of rows written so far.
func (s *StreamWriter) Rows() int {
	return s.rows
}

// Flush flushes buffered rows and reports any write error.
func (s *StreamWriter) Flush() error {
	s.writer.Flush()
	return s.writer.Error()
}

// WriteCSV writes the header and every row of t to w.
func WriteCSV(w io.Writer, t *domain.Table, bom bool) error {
	stream, err := NewStreamWriter(w, bom)
	if err != nil {
		return err
	}
	if t != nil {
		for _, row := range t.Rows {
			if err := stream.WriteRow(row); err != nil {
				return err
			}
		}
	}
	return stream.Flush()
}
