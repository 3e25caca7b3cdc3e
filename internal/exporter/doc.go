// Package exporter turns dashboard data into files and display strings.
//
// CSVWriter is the low-level CSV writer with BOM and streaming support.
// SubsetExporter writes a filtered subset as filtered_data.csv or
// filtered_data.xlsx, reproducing the source header and one row per record in
// subset order. The Format* helpers render KPI values for display.
//
// Example usage:
//
//	exp := exporter.NewSubsetExporter("data/exports", logger)
//	path, err := exp.Export(subset, exporter.FormatCSV)
//
//	// Or straight to a response body
//	err = exporter.WriteSubsetCSV(w, subset, exporter.SubsetOptions{BOMPrefix: true})
package exporter
