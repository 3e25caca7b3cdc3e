package dataprocessing

import (
	"sort"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// Matches reports whether rec satisfies every predicate of spec. A record
// without an outlet size never matches, whatever the selected sizes are.
func Matches(rec domain.Record, spec domain.FilterSpec) bool {
	if !spec.ItemTypes.Has(rec.ItemType) {
		return false
	}
	if !rec.HasOutletSize() || !spec.OutletSizes.Has(rec.OutletSize) {
		return false
	}
	return spec.Years.Contains(rec.OutletEstablishmentYear)
}

// Apply returns the records of ds matching spec, in dataset order. An empty
// result is a valid subset.
func Apply(ds *Dataset, spec domain.FilterSpec) Subset {
	rows := make([]int, 0, len(ds.records))
	for i, rec := range ds.records {
		if Matches(rec, spec) {
			rows = append(rows, i)
		}
	}
	return Subset{dataset: ds, rows: rows}
}

// Options collects the filter choices present in ds: distinct non-empty item
// types and outlet sizes, sorted, plus the observed year range.
func Options(ds *Dataset) domain.FilterOptions {
	itemTypes := make(map[string]struct{})
	sizes := make(map[string]struct{})
	var years domain.YearRange

	for i, rec := range ds.records {
		if rec.ItemType != "" {
			itemTypes[rec.ItemType] = struct{}{}
		}
		if rec.HasOutletSize() {
			sizes[rec.OutletSize] = struct{}{}
		}
		year := rec.OutletEstablishmentYear
		if i == 0 || year < years.Min {
			years.Min = year
		}
		if i == 0 || year > years.Max {
			years.Max = year
		}
	}

	return domain.FilterOptions{
		ItemTypes:   sortedKeys(itemTypes),
		OutletSizes: sortedKeys(sizes),
		Years:       years,
	}
}

// DefaultFilterSpec selects everything: every item type present (absent
// included), every non-null outlet size, and the full observed year range.
func DefaultFilterSpec(ds *Dataset) domain.FilterSpec {
	opts := Options(ds)

	itemTypes := domain.NewStringSet(opts.ItemTypes...)
	for _, rec := range ds.records {
		if rec.ItemType == "" {
			itemTypes[""] = struct{}{}
			break
		}
	}

	return domain.FilterSpec{
		ItemTypes:   itemTypes,
		OutletSizes: domain.NewStringSet(opts.OutletSizes...),
		Years:       opts.Years,
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
