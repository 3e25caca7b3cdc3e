package exporter

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/dataprocessing"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/shared/testutil"
)

func TestWriteSubsetXLSX(t *testing.T) {
	ds := loadSample(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSubsetXLSX(&buf, ds.All()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, testutil.SampleHeader, rows[0])
	assert.Equal(t, "Low Fat", rows[3][0])

	sales, err := f.GetCellValue(SheetName, "J2")
	require.NoError(t, err)
	assert.Equal(t, "100", sales)

	cellType, err := f.GetCellType(SheetName, "J2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	assert.NotEqual(t, excelize.CellTypeInlineString, cellType)
}

func TestSubsetExporter_XLSXLoadsBack(t *testing.T) {
	dir := t.TempDir()
	ds := loadSample(t)

	path, err := NewSubsetExporter(dir, nil).Export(ds.All(), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "filtered_data.xlsx"), path)

	reloaded, err := dataprocessing.NewLoader(nil).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ds.Len(), reloaded.Len())
	assert.Equal(t,
		dataprocessing.ComputeKPIs(ds.All()),
		dataprocessing.ComputeKPIs(reloaded.All()))
}
