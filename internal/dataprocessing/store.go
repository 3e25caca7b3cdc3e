package dataprocessing

import (
	"time"

	"github.com/google/uuid"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// Dataset is the in-memory working dataset of a session. It is normalized
// once by NewDataset and never mutated afterwards, so it can be shared by
// concurrent readers.
type Dataset struct {
	id       string
	source   string
	columns  []string
	records  []domain.Record
	loadedAt time.Time
}

// NewDataset normalizes records and wraps them in a Dataset. columns is the
// source header in source order; records keep their raw Cells for export.
func NewDataset(source string, columns []string, records []domain.Record) *Dataset {
	return &Dataset{
		id:       uuid.New().String(),
		source:   source,
		columns:  append([]string(nil), columns...),
		records:  Normalize(records),
		loadedAt: time.Now().UTC(),
	}
}

// ID uniquely identifies this load of the data.
func (d *Dataset) ID() string { return d.id }

// Source is the file name or upload name the data came from.
func (d *Dataset) Source() string { return d.source }

// Columns returns a copy of the source header.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// LoadedAt is when the dataset was built.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// All returns a subset holding every record.
func (d *Dataset) All() Subset {
	rows := make([]int, len(d.records))
	for i := range rows {
		rows[i] = i
	}
	return Subset{dataset: d, rows: rows}
}

// Info describes the dataset for status endpoints.
func (d *Dataset) Info() domain.DatasetInfo {
	return domain.DatasetInfo{
		ID:       d.id,
		Source:   d.source,
		Rows:     len(d.records),
		Columns:  d.Columns(),
		LoadedAt: d.loadedAt,
	}
}

// Subset is an order-preserving, read-only projection of a Dataset. It holds
// row indices into the parent and never copies records.
type Subset struct {
	dataset *Dataset
	rows    []int
}

// Len returns the number of records in the subset.
func (s Subset) Len() int { return len(s.rows) }

// Empty reports whether the subset has no rows.
func (s Subset) Empty() bool { return len(s.rows) == 0 }

// At returns the i-th record of the subset.
func (s Subset) At(i int) domain.Record {
	return s.dataset.records[s.rows[i]]
}

// Each calls fn for every record in subset order.
func (s Subset) Each(fn func(domain.Record)) {
	for _, idx := range s.rows {
		fn(s.dataset.records[idx])
	}
}

// Records copies the subset out as a slice.
func (s Subset) Records() []domain.Record {
	out := make([]domain.Record, len(s.rows))
	for i, idx := range s.rows {
		out[i] = s.dataset.records[idx]
	}
	return out
}

// Columns returns the header of the parent dataset.
func (s Subset) Columns() []string {
	if s.dataset == nil {
		return nil
	}
	return s.dataset.Columns()
}
