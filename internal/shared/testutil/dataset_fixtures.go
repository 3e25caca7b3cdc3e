package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SampleHeader is the column layout of the Blinkit sales export.
var SampleHeader = []string{
	"Item Fat Content", "Item Identifier", "Item Type", "Outlet Establishment Year",
	"Outlet Identifier", "Outlet Location Type", "Outlet Size", "Item Visibility",
	"Item Weight", "Sales", "Rating",
}

// SampleCSV is a small dataset with raw fat-content spellings, one absent
// outlet size and one absent rating.
//
// Totals: sales 300 over 6 rows, rating mean 3.6 over 5 rated rows.
const SampleCSV = `Item Fat Content,Item Identifier,Item Type,Outlet Establishment Year,Outlet Identifier,Outlet Location Type,Outlet Size,Item Visibility,Item Weight,Sales,Rating
Regular,FDX32,Fruits and Vegetables,2012,OUT049,Tier 1,Medium,0.100014,15.1,100,5
Low Fat,NCB42,Health and Hygiene,2022,OUT018,Tier 3,Medium,0.008596,11.8,50,4
LF,FDR28,Frozen Foods,2010,OUT046,Tier 1,Small,0.025896,13.85,70,3
reg,FDL50,Canned,2000,OUT013,Tier 3,High,0.042278,12.15,30,
low fat,DRI25,Soft Drinks,2015,OUT045,Tier 2,,0.033970,19.6,20,4
Regular,FDS52,Frozen Foods,2020,OUT017,Tier 2,Small,0.005505,8.89,30,2
`

// CSVBuilder assembles CSV text row by row.
type CSVBuilder struct {
	lines []string
}

// NewCSV starts a CSV document with header.
func NewCSV(header ...string) *CSVBuilder {
	return &CSVBuilder{lines: []string{strings.Join(header, ",")}}
}

// Row appends a data row.
func (b *CSVBuilder) Row(cells ...string) *CSVBuilder {
	b.lines = append(b.lines, strings.Join(cells, ","))
	return b
}

// String returns the document.
func (b *CSVBuilder) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}
