// Package exporter renders parsed histogram tables.
//
// Every format emits the 18 columns of domain.Columns in order:
//
// CSV: a header line then one line per row. Decimals are written in
// scientific notation with six fractional digits (1.500000E+00), the open
// bin edges as -inf and inf, booleans as True and False. An optional UTF-8
// BOM helps Excel detect the encoding.
//
// XLSX: one worksheet named "histograms", written through the excelize
// stream writer, with numeric cells wherever the value is finite.
//
// JSON: a RecordsDocument holding the column names, the CSV strings of each
// row and a per-histogram summary.
//
// Example usage:
//
//	exp := exporter.NewExporter(paths, exporter.Options{BOM: false})
//	path, size, err := exp.WriteFile("run1/histos.saf", exporter.FormatCSV, table)
package exporter
