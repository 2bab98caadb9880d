package exporter

import (
	"math"
	"strconv"

	"histogen/pkg/contracts/domain"
)

// decimalDigits is the number of fractional digits of exported decimals.
const decimalDigits = 6

// formatDecimal formats a float64 in scientific notation with six fractional
// digits, e.g. 1.500000E+00. The open bin edges print as inf and -inf.
func formatDecimal(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'E', decimalDigits, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// FormatRecord renders a row as strings in domain.Columns order.
func FormatRecord(o domain.BinObservation) []string {
	return []string{
		formatInt(int64(o.ID)),
		o.Name,
		formatDecimal(o.BinMin),
		formatDecimal(o.BinMax),
		o.Region,
		formatDecimal(o.Value),
		formatBool(o.IsUnderflow),
		formatBool(o.IsOverflow),
		formatInt(int64(o.NBins)),
		formatDecimal(o.XMin),
		formatDecimal(o.XMax),
		formatInt(o.NEvents),
		formatDecimal(o.NormEwEvents),
		formatInt(o.NEntries),
		formatDecimal(o.NormEwEntries),
		formatDecimal(o.SumWeightsSq),
		formatDecimal(o.SumValWeight),
		formatDecimal(o.SumValSqWeight),
	}
}

// FormatTable renders every row of t.
func FormatTable(t *domain.Table) [][]string {
	records := make([][]string, 0, t.Len())
	if t == nil {
		return records
	}
	for _, row := range t.Rows {
		records = append(records, FormatRecord(row))
	}
	return records
}
