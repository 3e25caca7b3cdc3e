package dataprocessing

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/gurnulezaran/Blinkit-Data-Analysis/internal/errors"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/shared/testutil"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

func TestLoader_LoadFile_SampleCSV(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := testutil.WriteFile(t, t.TempDir(), "blinkit_data.csv", testutil.SampleCSV)

	ds, err := NewLoader(logger).LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 6, ds.Len())
	assert.Equal(t, testutil.SampleHeader, ds.Columns())
	assert.Equal(t, path, ds.Source())

	kpis := ComputeKPIs(ds.All())
	assert.Equal(t, 300.0, kpis.TotalSales)
	assert.Equal(t, 50.0, kpis.AverageSales.Value)
	assert.InDelta(t, 3.6, kpis.AverageRating.Value, 1e-9)
	assert.Equal(t, 5, kpis.AverageRating.Count)

	fat := sumBy(t, ds.All(), domain.FieldItemFatContent)
	assert.Equal(t, []string{"Regular", "Low Fat"}, keys(fat))

	fifth := ds.All().At(4)
	assert.False(t, fifth.HasOutletSize())
	assert.Equal(t, "low fat", fifth.Cells[0], "raw cells keep the source spelling")

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "dataset loaded")
	testutil.AssertLogAttr(t, handler, "rows", int64(6))
}

func TestLoader_LoadReader_StripsBOM(t *testing.T) {
	input := utf8BOM + testutil.SampleCSV

	ds, err := NewLoader(nil).LoadReader(strings.NewReader(input), "upload.csv", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "Item Fat Content", ds.Columns()[0])
}

func TestLoader_LoadReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "empty input",
			input:   "",
			wantMsg: "unreadable",
		},
		{
			name: "missing rating column",
			input: testutil.NewCSV("Item Fat Content", "Item Type", "Outlet Size",
				"Outlet Location Type", "Outlet Establishment Year", "Sales").
				Row("Regular", "Dairy", "Small", "Tier 1", "2010", "5").String(),
			wantMsg: `"Rating" is missing`,
		},
		{
			name: "column names are case sensitive",
			input: testutil.NewCSV("item fat content", "Item Type", "Outlet Size",
				"Outlet Location Type", "Outlet Establishment Year", "Sales", "Rating").String(),
			wantMsg: `"Item Fat Content" is missing`,
		},
		{
			name: "non numeric year",
			input: testutil.NewCSV(domain.RequiredColumns...).
				Row("Regular", "Dairy", "Small", "Tier 1", "recent", "5", "4").String(),
			wantMsg: "Outlet Establishment Year",
		},
		{
			name: "negative sales",
			input: testutil.NewCSV(domain.RequiredColumns...).
				Row("Regular", "Dairy", "Small", "Tier 1", "2010", "-5", "4").String(),
			wantMsg: "invalid Sales",
		},
		{
			name:    "malformed quoting",
			input:   "Item Fat Content,\"Item Type\n",
			wantMsg: "unreadable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewLoader(nil).LoadReader(strings.NewReader(tt.input), "test.csv", FormatCSV)
			require.Error(t, err)
			assert.Nil(t, ds)
			assert.True(t, apperrors.IsLoadError(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoader_LoadReader_OptionalCells(t *testing.T) {
	input := testutil.NewCSV(domain.RequiredColumns...).
		Row("LF", "", "", "Tier 2", "2012.0", "", "").
		Row("", "", "", "", "", "", "").
		Row("reg", "Dairy", " Small ", "Tier 1", "2015", "12.5", "NaN").
		String()

	ds, err := NewLoader(nil).LoadReader(strings.NewReader(input), "test.csv", FormatCSV)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len(), "blank rows are skipped")

	first := ds.All().At(0)
	assert.Equal(t, "Low Fat", first.ItemFatContent)
	assert.Equal(t, 2012, first.OutletEstablishmentYear)
	assert.Nil(t, first.Sales)
	assert.Nil(t, first.Rating)

	second := ds.All().At(1)
	assert.Equal(t, "Small", second.OutletSize)
	assert.Equal(t, 12.5, *second.Sales)
	assert.Nil(t, second.Rating)
}

func TestLoader_LoadFile_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Item Fat Content", "Item Type", "Outlet Size", "Outlet Location Type", "Outlet Establishment Year", "Sales", "Rating"},
		{"LF", "Dairy", "Small", "Tier 1", 2010, 12.5, 4},
		{"Regular", "Snacks", "Medium", "Tier 3", 2018, 7.5, nil},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := NewLoader(nil).LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	kpis := ComputeKPIs(ds.All())
	assert.Equal(t, 20.0, kpis.TotalSales)
	assert.Equal(t, 1, kpis.AverageRating.Count)
	assert.Equal(t, "Low Fat", ds.All().At(0).ItemFatContent)
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewLoader(nil).LoadFile(filepath.Join(dir, "absent.csv"))
	assert.True(t, apperrors.IsLoadError(err))

	txt := testutil.WriteFile(t, dir, "sales.txt", testutil.SampleCSV)
	_, err = NewLoader(nil).LoadFile(txt)
	assert.True(t, apperrors.IsLoadError(err))

	_, err = NewLoader(nil).LoadReader(bytes.NewReader([]byte("not a zip")), "x.xlsx", FormatXLSX)
	assert.True(t, apperrors.IsLoadError(err))
}

func TestFormatFromName(t *testing.T) {
	f, err := FormatFromName("Data.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = FormatFromName("book.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatFromName("book.ods")
	assert.Error(t, err)
}
