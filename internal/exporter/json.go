package exporter

import (
	"encoding/json"
	"io"

	"histogen/pkg/contracts/domain"
)

// RecordsDocument is the JSON form of a table. Rows hold the same strings
// as a CSV export, in Columns order, so the infinite edges survive encoding.
type RecordsDocument struct {
	Columns    []string                  `json:"columns"`
	Rows       [][]string                `json:"rows"`
	Histograms int                       `json:"histograms"`
	Summary    []domain.HistogramSummary `json:"summary"`
}

// NewRecordsDocument builds the JSON document for t.
func NewRecordsDocument(t *domain.Table) *RecordsDocument {
	return &RecordsDocument{
		Columns:    domain.Columns,
		Rows:       FormatTable(t),
		Histograms: t.Histograms(),
		Summary:    domain.Summarize(t),
	}
}

// WriteJSON encodes the records document for t to w.
func WriteJSON(w io.Writer, t *domain.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewRecordsDocument(t))
}
