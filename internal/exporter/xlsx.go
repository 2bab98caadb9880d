package exporter

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"histogen/pkg/contracts/domain"
)

// SheetName is the worksheet holding the table in XLSX output.
const SheetName = "histograms"

// WriteXLSX writes t as a single-sheet workbook with a frozen header row.
// Rows go through the excelize stream writer so large tables are not held
// as a cell tree in memory.
func WriteXLSX(w io.Writer, t *domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	header := make([]interface{}, len(domain.Columns))
	for i, c := range domain.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	if t != nil {
		for i, row := range t.Rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := sw.SetRow(cell, xlsxValues(row)); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i, err)
			}
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// xlsxValues keeps numbers numeric; the infinite edges, which a workbook
// cannot store, fall back to their text form.
func xlsxValues(o domain.BinObservation) []interface{} {
	return []interface{}{
		o.ID,
		o.Name,
		xlsxDecimal(o.BinMin),
		xlsxDecimal(o.BinMax),
		o.Region,
		xlsxDecimal(o.Value),
		o.IsUnderflow,
		o.IsOverflow,
		o.NBins,
		xlsxDecimal(o.XMin),
		xlsxDecimal(o.XMax),
		o.NEvents,
		xlsxDecimal(o.NormEwEvents),
		o.NEntries,
		xlsxDecimal(o.NormEwEntries),
		xlsxDecimal(o.SumWeightsSq),
		xlsxDecimal(o.SumValWeight),
		xlsxDecimal(o.SumValSqWeight),
	}
}

func xlsxDecimal(f float64) interface{} {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return formatDecimal(f)
	}
	return f
}
