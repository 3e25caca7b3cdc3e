package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/gurnulezaran/Blinkit-Data-Analysis/internal/errors"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// Format is a supported dataset file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromName picks the format from a file name extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", apperrors.NewUnreadableSourceError(name,
		fmt.Errorf("unsupported file extension %q", filepath.Ext(name)))
}

const utf8BOM = "\ufeff"

// Loader reads sales datasets from CSV or XLSX sources.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// LoadFile reads and normalizes the dataset at path. The file is closed
// before the dataset is returned.
func (l *Loader) LoadFile(path string) (*Dataset, error) {
	format, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewUnreadableSourceError(path, err)
	}
	defer f.Close()

	return l.LoadReader(f, path, format)
}

// LoadReader reads and normalizes a dataset from r. source names the data in
// errors and logs. The reader is consumed fully.
func (l *Loader) LoadReader(r io.Reader, source string, format Format) (*Dataset, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		l.logger.Error("dataset unreadable",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, apperrors.NewUnreadableSourceError(source, err)
	}

	ds, err := buildDataset(source, rows)
	if err != nil {
		l.logger.Error("dataset rejected",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, err
	}

	l.logger.Info("dataset loaded",
		slog.String("source", source),
		slog.String("dataset_id", ds.ID()),
		slog.String("format", string(format)),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", len(ds.columns)))
	return ds, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// columnIndex maps the interpreted columns onto positions in the header.
type columnIndex struct {
	fat, itemType, size, location, year, sales, rating int
}

func resolveColumns(source string, header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	for _, col := range domain.RequiredColumns {
		if _, ok := pos[col]; !ok {
			return columnIndex{}, apperrors.NewMissingColumnError(source, col)
		}
	}

	return columnIndex{
		fat:      pos[domain.ColumnItemFatContent],
		itemType: pos[domain.ColumnItemType],
		size:     pos[domain.ColumnOutletSize],
		location: pos[domain.ColumnOutletLocationType],
		year:     pos[domain.ColumnOutletEstablishmentYear],
		sales:    pos[domain.ColumnSales],
		rating:   pos[domain.ColumnRating],
	}, nil
}

func buildDataset(source string, rows [][]string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewUnreadableSourceError(source, errors.New("no header row"))
	}

	header := rows[0]
	idx, err := resolveColumns(source, header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := i + 2

		cells := make([]string, len(header))
		copy(cells, row)

		rec, err := parseRecord(source, line, idx, cells)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return NewDataset(source, header, records), nil
}

func parseRecord(source string, line int, idx columnIndex, cells []string) (domain.Record, error) {
	rec := domain.Record{
		ItemFatContent:     cells[idx.fat],
		ItemType:           cells[idx.itemType],
		OutletSize:         strings.TrimSpace(cells[idx.size]),
		OutletLocationType: cells[idx.location],
		Cells:              cells,
	}

	year, err := parseYear(cells[idx.year])
	if err != nil {
		return rec, apperrors.NewInvalidValueError(source, domain.ColumnOutletEstablishmentYear, line, cells[idx.year], err)
	}
	rec.OutletEstablishmentYear = year

	if rec.Sales, err = parseOptionalFloat(cells[idx.sales]); err != nil {
		return rec, apperrors.NewInvalidValueError(source, domain.ColumnSales, line, cells[idx.sales], err)
	}
	if rec.Sales != nil && *rec.Sales < 0 {
		return rec, apperrors.NewInvalidValueError(source, domain.ColumnSales, line, cells[idx.sales],
			errors.New("sales must not be negative"))
	}

	if rec.Rating, err = parseOptionalFloat(cells[idx.rating]); err != nil {
		return rec, apperrors.NewInvalidValueError(source, domain.ColumnRating, line, cells[idx.rating], err)
	}

	return rec, nil
}

func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("year is required")
	}
	if year, err := strconv.Atoi(raw); err == nil {
		return year, nil
	}
	// Spreadsheets sometimes hand back "2012.0".
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, errors.New("not a whole year")
	}
	return int(f), nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) {
		return nil, nil
	}
	return &v, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
