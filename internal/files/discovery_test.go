package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/shared/testutil"
)

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestFindDatasetFiles(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	newer := testutil.WriteFile(t, dir, "b.csv", testutil.SampleCSV)
	older := testutil.WriteFile(t, dir, "a.xlsx", "x")
	testutil.WriteFile(t, dir, "notes.txt", "ignored")
	testutil.WriteFile(t, dir, "~$a.xlsx", "lock file")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	touch(t, older, base)
	touch(t, newer, base.Add(time.Hour))

	files, err := FindDatasetFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.xlsx", files[0].Name)
	assert.Equal(t, "b.csv", files[1].Name)
	assert.Equal(t, int64(len(testutil.SampleCSV)), files[1].Size)

	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, newer, latest.Path)
}

func TestFindDatasetFiles_MissingDir(t *testing.T) {
	_, err := FindDatasetFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestGetLatestFile_Empty(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)
}

func TestResolveDatasetPath(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := testutil.WriteFile(t, dir, "first.csv", testutil.SampleCSV)
	second := testutil.WriteFile(t, dir, "second.csv", testutil.SampleCSV)
	touch(t, first, base.Add(time.Hour))
	touch(t, second, base)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "file is returned as is", path: second, want: second},
		{name: "directory picks newest", path: dir, want: first},
		{name: "missing path", path: filepath.Join(dir, "nope.csv"), wantErr: true},
		{name: "directory without datasets", path: t.TempDir(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDatasetPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
