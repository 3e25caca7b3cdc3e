package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoData is returned when an average is requested over no values.
var ErrNoData = errors.New("no data")

// UnknownKey labels the group that collects records with an absent key. The
// parentheses keep it apart from a category literally named "unknown";
// GroupEntry.Unknown and TierRow.Unknown mark the bucket regardless of label.
const UnknownKey = "(unknown)"

// Average is a mean that remembers how many values produced it, so an empty
// input can be told apart from a mean of exactly zero.
type Average struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Available reports whether at least one value contributed.
func (a Average) Available() bool {
	return a.Count > 0
}

// Get returns the mean, or ErrNoData when nothing contributed.
func (a Average) Get() (float64, error) {
	if !a.Available() {
		return 0, ErrNoData
	}
	return a.Value, nil
}

// MarshalJSON encodes an unavailable average as null.
func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Available() {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// KPIs are the headline figures of a subset.
type KPIs struct {
	TotalSales    float64 `json:"total_sales"`
	AverageSales  Average `json:"average_sales"`
	ItemCount     int     `json:"item_count"`
	AverageRating Average `json:"average_rating"`
}

// GroupField names a column records can be grouped by.
type GroupField string

const (
	FieldItemFatContent          GroupField = "item_fat_content"
	FieldItemType                GroupField = "item_type"
	FieldOutletSize              GroupField = "outlet_size"
	FieldOutletLocationType      GroupField = "outlet_location_type"
	FieldOutletEstablishmentYear GroupField = "outlet_establishment_year"
)

// GroupFields lists every supported grouping field.
var GroupFields = []GroupField{
	FieldItemFatContent,
	FieldItemType,
	FieldOutletSize,
	FieldOutletLocationType,
	FieldOutletEstablishmentYear,
}

// ParseGroupField resolves a field name.
func ParseGroupField(name string) (GroupField, error) {
	for _, f := range GroupFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown group field %q", name)
}

// GroupEntry is one bucket of a grouped sum.
type GroupEntry struct {
	Key     string  `json:"key"`
	Value   float64 `json:"value"`
	Rows    int     `json:"rows"`
	Unknown bool    `json:"unknown,omitempty"`
}

// GroupSummary is a grouped sum of sales in a deterministic order.
type GroupSummary struct {
	Field   GroupField   `json:"field"`
	Entries []GroupEntry `json:"entries"`
}

// Total returns the sum of every bucket.
func (g GroupSummary) Total() float64 {
	var total float64
	for _, e := range g.Entries {
		total += e.Value
	}
	return total
}

// TierCell is one location/fat-content sum. A cell with no rows is absent.
type TierCell struct {
	Sum  float64 `json:"sum"`
	Rows int     `json:"rows"`
}

// Present reports whether any row contributed to the cell.
func (c TierCell) Present() bool {
	return c.Rows > 0
}

// MarshalJSON encodes an absent cell as null.
func (c TierCell) MarshalJSON() ([]byte, error) {
	if !c.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(c.Sum)
}

// TierRow is one outlet location of the location by fat-content table.
type TierRow struct {
	Location string   `json:"location"`
	Unknown  bool     `json:"unknown,omitempty"`
	Regular  TierCell `json:"regular"`
	LowFat   TierCell `json:"low_fat"`
}

// Cell returns the cell for a canonical fat-content column.
func (r TierRow) Cell(column string) (TierCell, bool) {
	switch column {
	case FatContentRegular:
		return r.Regular, true
	case FatContentLowFat:
		return r.LowFat, true
	}
	return TierCell{}, false
}

// TierColumns is the fixed column order of a TierTable.
var TierColumns = []string{FatContentRegular, FatContentLowFat}

// TierTable sums sales by outlet location and fat content. StrayCategories
// lists fat-content values outside the canonical pair that were seen and left
// out of the table.
type TierTable struct {
	Columns         []string  `json:"columns"`
	Rows            []TierRow `json:"rows"`
	StrayCategories []string  `json:"stray_categories,omitempty"`
}

// Err returns a *MissingCategoryError when stray categories were found.
func (t TierTable) Err() error {
	if len(t.StrayCategories) == 0 {
		return nil
	}
	return &MissingCategoryError{Values: append([]string(nil), t.StrayCategories...)}
}

// MissingCategoryError reports fat-content values that have no column in the
// location by fat-content table. It is informational: the table still holds
// the known columns.
type MissingCategoryError struct {
	Values []string
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("fat content values outside %s: %s",
		strings.Join(TierColumns, "/"), strings.Join(e.Values, ", "))
}
