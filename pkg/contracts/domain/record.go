package domain

// Column names of the sales dataset. They are matched exactly, case and spacing included.
const (
	ColumnItemFatContent          = "Item Fat Content"
	ColumnItemType                = "Item Type"
	ColumnOutletSize              = "Outlet Size"
	ColumnOutletLocationType      = "Outlet Location Type"
	ColumnOutletEstablishmentYear = "Outlet Establishment Year"
	ColumnSales                   = "Sales"
	ColumnRating                  = "Rating"
)

// RequiredColumns lists every column a dataset must carry to be loaded.
var RequiredColumns = []string{
	ColumnItemFatContent,
	ColumnItemType,
	ColumnOutletSize,
	ColumnOutletLocationType,
	ColumnOutletEstablishmentYear,
	ColumnSales,
	ColumnRating,
}

// Canonical fat-content labels.
const (
	FatContentLowFat  = "Low Fat"
	FatContentRegular = "Regular"
)

// Record is one row of the sales dataset.
//
// Categorical fields use the empty string for an absent value. Sales and
// Rating are nil when the source cell was empty.
type Record struct {
	ItemFatContent          string   `json:"item_fat_content"`
	ItemType                string   `json:"item_type"`
	OutletSize              string   `json:"outlet_size,omitempty"`
	OutletLocationType      string   `json:"outlet_location_type"`
	OutletEstablishmentYear int      `json:"outlet_establishment_year"`
	Sales                   *float64 `json:"sales"`
	Rating                  *float64 `json:"rating"`

	// Cells holds the raw source row, in source column order, so exports can
	// reproduce columns the engine does not interpret.
	Cells []string `json:"-"`
}

// HasOutletSize reports whether the outlet size is present.
func (r Record) HasOutletSize() bool {
	return r.OutletSize != ""
}

// SalesValue returns the sales amount and whether it was present.
func (r Record) SalesValue() (float64, bool) {
	if r.Sales == nil {
		return 0, false
	}
	return *r.Sales, true
}

// RatingValue returns the rating and whether it was present.
func (r Record) RatingValue() (float64, bool) {
	if r.Rating == nil {
		return 0, false
	}
	return *r.Rating, true
}
