package domain

// Columns is the fixed column order of the tidy histogram table.
// Exporters and API responses must emit fields in exactly this order.
var Columns = []string{
	"ID",
	"name",
	"binMin",
	"binMax",
	"region",
	"value",
	"isUnderflow",
	"isOverflow",
	"nbins",
	"xmin",
	"xmax",
	"nEvents",
	"normEwEvents",
	"nEntries",
	"normEwEntries",
	"sumWeightsSq",
	"sumValWeight",
	"sumValSqWeight",
}

// HistogramInfo is the identity and Description block of one SAF histogram.
type HistogramInfo struct {
	ID     int     `csv:"ID" validate:"min=1"`
	Name   string  `csv:"name"`
	NBins  int     `csv:"nbins" validate:"min=1"`
	XMin   float64 `csv:"xmin"`
	XMax   float64 `csv:"xmax" validate:"gtfield=XMin"`
	Region string  `csv:"region"`
}

// HistogramStatistics is the Statistics block of one SAF histogram.
// Every field is the difference of the two columns on its line.
type HistogramStatistics struct {
	NEvents        int64   `csv:"nEvents"`
	NormEwEvents   float64 `csv:"normEwEvents"`
	NEntries       int64   `csv:"nEntries"`
	NormEwEntries  float64 `csv:"normEwEntries"`
	SumWeightsSq   float64 `csv:"sumWeightsSq"`
	SumValWeight   float64 `csv:"sumValWeight"`
	SumValSqWeight float64 `csv:"sumValSqWeight"`
}

// BinObservation is one row of the tidy table: a single Data line of a
// histogram joined with the histogram's Description and Statistics.
//
// BinMin is -Inf on the underflow row and BinMax is +Inf on overflow rows,
// so rows must go through an exporter before being encoded as JSON.
type BinObservation struct {
	HistogramInfo
	HistogramStatistics

	BinMin      float64 `csv:"binMin"`
	BinMax      float64 `csv:"binMax"`
	Value       float64 `csv:"value"`
	IsUnderflow bool    `csv:"isUnderflow"`
	IsOverflow  bool    `csv:"isOverflow"`
}

// InRange reports whether the row is a regular bin inside [xmin, xmax).
func (o BinObservation) InRange() bool {
	return !o.IsUnderflow && !o.IsOverflow
}

// Table is the flattened, one-row-per-bin-observation output of a SAF parse,
// in file order.
type Table struct {
	Rows []BinObservation
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Histograms returns the number of distinct histogram IDs in the table.
func (t *Table) Histograms() int {
	if t == nil {
		return 0
	}
	n, last := 0, 0
	for _, row := range t.Rows {
		if row.ID != last {
			n++
			last = row.ID
		}
	}
	return n
}
