// Package api contains the request contracts of the dashboard HTTP API.
package api

import (
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// FilterRequest is the body of POST /api/dashboard/query.
//
// A nil list means "everything present in the dataset"; an empty list selects
// nothing. Missing year bounds fall back to the observed range.
type FilterRequest struct {
	ItemTypes   []string `json:"item_types" validate:"omitempty,max=200,dive,max=100"`
	OutletSizes []string `json:"outlet_sizes" validate:"omitempty,max=20,dive,max=50"`
	YearMin     *int     `json:"year_min,omitempty" validate:"omitempty,gte=0,lte=9999"`
	YearMax     *int     `json:"year_max,omitempty" validate:"omitempty,gte=0,lte=9999"`
}

// YearsOrdered reports whether both bounds, when given, are in order.
func (r FilterRequest) YearsOrdered() bool {
	return r.YearMin == nil || r.YearMax == nil || *r.YearMin <= *r.YearMax
}

// Resolve fills the unset parts of the request from def and clamps the year
// range to def's years.
func (r FilterRequest) Resolve(def domain.FilterSpec) domain.FilterSpec {
	spec := def

	if r.ItemTypes != nil {
		spec.ItemTypes = domain.NewStringSet(r.ItemTypes...)
	}
	if r.OutletSizes != nil {
		spec.OutletSizes = domain.NewStringSet(r.OutletSizes...)
	}

	years := def.Years
	if r.YearMin != nil {
		years.Min = *r.YearMin
	}
	if r.YearMax != nil {
		years.Max = *r.YearMax
	}
	spec.Years = years.Clamp(def.Years)

	return spec
}

// ExportRequest selects the export file format.
type ExportRequest struct {
	Format string `json:"format" validate:"omitempty,oneof=csv xlsx"`
}
