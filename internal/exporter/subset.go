package exporter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/dataprocessing"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ExportBaseName is the file name, without extension, of a subset export.
const ExportBaseName = "filtered_data"

// ParseFormat resolves a format name. An empty name means CSV.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", name)
}

// FileName is the download name for the format.
func (f Format) FileName() string {
	return ExportBaseName + "." + string(f)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// SubsetExporter writes filtered subsets to files under an output directory.
type SubsetExporter struct {
	csvWriter *CSVWriter
	outputDir string
	logger    *slog.Logger
}

// NewSubsetExporter creates a new subset exporter
func NewSubsetExporter(outputDir string, logger *slog.Logger) *SubsetExporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &SubsetExporter{
		csvWriter: NewCSVWriter(outputDir, logger),
		outputDir: outputDir,
		logger:    logger,
	}
}

// Export writes s in the given format and returns the written path.
func (e *SubsetExporter) Export(s dataprocessing.Subset, format Format) (string, error) {
	switch format {
	case FormatCSV:
		return e.exportCSV(s)
	case FormatXLSX:
		return e.exportXLSX(s)
	}
	return "", fmt.Errorf("unsupported export format %q", format)
}

// exportCSV streams s to filtered_data.csv.
func (e *SubsetExporter) exportCSV(s dataprocessing.Subset) (string, error) {
	header := s.Columns()
	stream, err := e.csvWriter.CreateStreamWriter(FormatCSV.FileName(), header)
	if err != nil {
		return "", err
	}

	var writeErr error
	s.Each(func(rec domain.Record) {
		if writeErr == nil {
			writeErr = stream.WriteRecord(RowCells(header, rec))
		}
	})
	if writeErr != nil {
		stream.Close()
		return "", fmt.Errorf("failed to write subset: %w", writeErr)
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("failed to close export: %w", err)
	}

	e.logger.Info("subset exported",
		slog.String("format", string(FormatCSV)),
		slog.String("path", stream.Path()),
		slog.Int("rows", s.Len()))
	return stream.Path(), nil
}

// exportXLSX writes s to filtered_data.xlsx.
func (e *SubsetExporter) exportXLSX(s dataprocessing.Subset) (string, error) {
	path := filepath.Join(e.outputDir, FormatXLSX.FileName())
	if err := SaveSubsetXLSX(path, s); err != nil {
		return "", err
	}

	e.logger.Info("subset exported",
		slog.String("format", string(FormatXLSX)),
		slog.String("path", path),
		slog.Int("rows", s.Len()))
	return path, nil
}
