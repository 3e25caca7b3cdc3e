package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

func rec(fat, itemType, size, location string, year int, sales float64, rating *float64) domain.Record {
	return domain.Record{
		ItemFatContent:          fat,
		ItemType:                itemType,
		OutletSize:              size,
		OutletLocationType:      location,
		OutletEstablishmentYear: year,
		Sales:                   float(sales),
		Rating:                  rating,
	}
}

func dataset(records ...domain.Record) *Dataset {
	return NewDataset("test", domain.RequiredColumns, records)
}

func float(v float64) *float64 { return &v }

func sumBy(t *testing.T, s Subset, field domain.GroupField) domain.GroupSummary {
	t.Helper()
	g, err := SumBy(s, field)
	require.NoError(t, err)
	return g
}

func keys(g domain.GroupSummary) []string {
	out := make([]string, len(g.Entries))
	for i, e := range g.Entries {
		out[i] = e.Key
	}
	return out
}
