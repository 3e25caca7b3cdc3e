package domain

import "time"

// ChartKind tells the presentation layer how to draw a chart.
type ChartKind string

const (
	ChartBar           ChartKind = "bar"
	ChartHorizontalBar ChartKind = "horizontal_bar"
	ChartPie           ChartKind = "pie"
	ChartLine          ChartKind = "line"
	ChartGroupedBar    ChartKind = "grouped_bar"
)

// Chart names served by the dashboard.
const (
	ChartSalesByItemType       = "sales-by-item-type"
	ChartSalesByFatContent     = "sales-by-fat-content"
	ChartSalesByOutletSize     = "sales-by-outlet-size"
	ChartOutletTierByFat       = "outlet-tier-vs-fat-content"
	ChartSalesByEstablishment  = "sales-by-establishment-year"
	ChartSalesByOutletLocation = "sales-by-outlet-location"
)

// ChartNames lists the dashboard charts in display order.
var ChartNames = []string{
	ChartSalesByItemType,
	ChartSalesByFatContent,
	ChartSalesByOutletSize,
	ChartOutletTierByFat,
	ChartSalesByEstablishment,
	ChartSalesByOutletLocation,
}

// ChartPoint is one labelled value. Missing marks a slot with no rows behind it.
type ChartPoint struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Missing bool    `json:"missing,omitempty"`
}

// ChartSeries is a named run of points.
type ChartSeries struct {
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points"`
}

// Chart is the data behind one dashboard chart.
type Chart struct {
	Name     string        `json:"name"`
	Title    string        `json:"title"`
	Kind     ChartKind     `json:"kind"`
	Series   []ChartSeries `json:"series"`
	NoData   bool          `json:"no_data"`
	Warnings []string      `json:"warnings,omitempty"`
}

// KPIDisplay is the formatted form of KPIs.
type KPIDisplay struct {
	TotalSales    string `json:"total_sales"`
	AverageSales  string `json:"average_sales"`
	ItemCount     string `json:"item_count"`
	AverageRating string `json:"average_rating"`
}

// Dashboard is everything the dashboard shows for one filter.
type Dashboard struct {
	DatasetID   string     `json:"dataset_id"`
	Filter      FilterSpec `json:"filter"`
	Rows        int        `json:"rows"`
	KPIs        KPIs       `json:"kpis"`
	Display     KPIDisplay `json:"display"`
	Charts      []Chart    `json:"charts"`
	Tiers       TierTable  `json:"tiers"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// Chart returns the named chart.
func (d Dashboard) Chart(name string) (Chart, bool) {
	for _, c := range d.Charts {
		if c.Name == name {
			return c, true
		}
	}
	return Chart{}, false
}

// DatasetInfo describes the loaded dataset.
type DatasetInfo struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	Columns  []string  `json:"columns"`
	LoadedAt time.Time `json:"loaded_at"`
}
