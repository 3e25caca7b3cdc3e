package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/dataprocessing"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// SheetName is the worksheet a subset is written to.
const SheetName = "Filtered Data"

// numericColumns are written as numbers so spreadsheets can sum them.
var numericColumns = map[string]bool{
	domain.ColumnOutletEstablishmentYear: true,
	domain.ColumnSales:                   true,
	domain.ColumnRating:                  true,
}

// WriteSubsetXLSX writes s as a single-sheet workbook to out.
func WriteSubsetXLSX(out io.Writer, s dataprocessing.Subset) error {
	f, err := buildWorkbook(s)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveSubsetXLSX writes s as a single-sheet workbook at path.
func SaveSubsetXLSX(path string, s dataprocessing.Subset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := buildWorkbook(s)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func buildWorkbook(s dataprocessing.Subset) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open sheet stream: %w", err)
	}

	header := s.Columns()
	headerRow := make([]interface{}, len(header))
	for i, col := range header {
		headerRow[i] = col
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	var writeErr error
	line := 2
	s.Each(func(rec domain.Record) {
		if writeErr != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			writeErr = err
			return
		}
		if err := sw.SetRow(cell, typedRow(header, RowCells(header, rec))); err != nil {
			writeErr = fmt.Errorf("failed to write row %d: %w", line, err)
		}
		line++
	})
	if writeErr != nil {
		f.Close()
		return nil, writeErr
	}

	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}
	return f, nil
}

func typedRow(header, cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, v := range cells {
		if numericColumns[header[i]] {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				row[i] = n
				continue
			}
		}
		row[i] = v
	}
	return row
}
