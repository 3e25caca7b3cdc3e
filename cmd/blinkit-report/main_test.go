package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/shared/testutil"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(t.Context(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestSummary(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "blinkit.csv", testutil.SampleCSV)

	tests := []struct {
		name  string
		args  []string
		wants []string
	}{
		{
			name:  "default filter",
			args:  []string{"summary", "--data", path},
			wants: []string{"$280", "$56", "3.5", "Tier 1", "Regular", "Low Fat"},
		},
		{
			name:  "single item type",
			args:  []string{"summary", "--data", path, "--item-type", "Canned"},
			wants: []string{"$30", "Tier 3"},
		},
		{
			name:  "empty year window",
			args:  []string{"summary", "--data", path, "--year-min", "2023"},
			wants: []string{"$0", "N/A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.wants {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestSummary_JSON(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "blinkit.csv", testutil.SampleCSV)

	stdout, _, err := runCLI(t, "summary", "--data", path, "--json", "--outlet-size", "Small")
	require.NoError(t, err)

	var body struct {
		Rows int `json:"rows"`
		KPIs struct {
			TotalSales float64 `json:"total_sales"`
		} `json:"kpis"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &body))
	assert.Equal(t, 2, body.Rows)
	assert.Equal(t, 100.0, body.KPIs.TotalSales)
}

func TestOptions(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "blinkit.csv", testutil.SampleCSV)

	stdout, _, err := runCLI(t, "options", "--data", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Canned, Frozen Foods")
	assert.Contains(t, stdout, "High, Medium, Small")
	assert.Contains(t, stdout, "2000-2022")
}

func TestChart(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "blinkit.csv", testutil.SampleCSV)

	stdout, _, err := runCLI(t, "chart", "sales-by-outlet-size", "--data", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Medium")
	assert.Contains(t, lines[1], "$150")

	_, _, err = runCLI(t, "chart", "nope", "--data", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sales-by-item-type")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "blinkit.csv", testutil.SampleCSV)

	t.Run("csv to stdout", func(t *testing.T) {
		stdout, _, err := runCLI(t, "export", "--data", path, "--out", "-", "--item-type", "Frozen Foods")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(stdout, "\ufeff")), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, strings.Join(testutil.SampleHeader, ","), lines[0])
		assert.Contains(t, lines[1], "FDR28")
		assert.Contains(t, lines[2], "FDS52")
	})

	t.Run("xlsx to file", func(t *testing.T) {
		out := filepath.Join(dir, "small.xlsx")
		_, stderr, err := runCLI(t, "export", "--data", path, "--format", "xlsx", "--out", out, "--outlet-size", "Small")
		require.NoError(t, err)
		assert.Contains(t, stderr, "wrote")

		f, err := excelize.OpenFile(out)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("csv into a directory", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "exports")
		_, stderr, err := runCLI(t, "export", "--data", path, "--out-dir", outDir, "--item-type", "Frozen Foods")
		require.NoError(t, err)

		written := filepath.Join(outDir, "filtered_data.csv")
		assert.Contains(t, stderr, written)
		data, err := os.ReadFile(written)
		require.NoError(t, err)
		assert.Contains(t, string(data), "FDR28")
		assert.Contains(t, string(data), "FDS52")
		assert.NotContains(t, string(data), "FDX32")
	})

	t.Run("out and out-dir together", func(t *testing.T) {
		_, _, err := runCLI(t, "export", "--data", path, "--out", "-", "--out-dir", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out-dir")
	})

	t.Run("unknown format", func(t *testing.T) {
		out := filepath.Join(dir, "x.pdf")
		_, _, err := runCLI(t, "export", "--data", path, "--format", "pdf", "--out", out)
		require.Error(t, err)
		_, statErr := os.Stat(out)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, contracts.GetVersionString())
	assert.Contains(t, stdout, "commit: "+contracts.GitCommit)
}

func TestMissingDataset(t *testing.T) {
	_, _, err := runCLI(t, "summary", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestUnsupportedDatasetFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "blinkit.txt", testutil.SampleCSV)
	_, _, err := runCLI(t, "summary", "--data", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".txt")
}

func TestMissingColumn(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "broken.csv", "Item Type,Sales\nCanned,10\n")
	_, _, err := runCLI(t, "summary", "--data", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load")
}
