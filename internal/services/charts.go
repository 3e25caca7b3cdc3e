package services

import (
	"fmt"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/internal/dataprocessing"
	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

const salesSeries = "Sales"

type chartDef struct {
	title string
	kind  domain.ChartKind
	field domain.GroupField
}

var chartDefs = map[string]chartDef{
	domain.ChartSalesByItemType:       {title: "Total Sales by Item Type", kind: domain.ChartBar, field: domain.FieldItemType},
	domain.ChartSalesByFatContent:     {title: "Sales by Fat Content", kind: domain.ChartPie, field: domain.FieldItemFatContent},
	domain.ChartSalesByOutletSize:     {title: "Sales by Outlet Size", kind: domain.ChartPie, field: domain.FieldOutletSize},
	domain.ChartOutletTierByFat:       {title: "Outlet Tier by Item Fat Content", kind: domain.ChartGroupedBar},
	domain.ChartSalesByEstablishment:  {title: "Outlet Establishment", kind: domain.ChartLine, field: domain.FieldOutletEstablishmentYear},
	domain.ChartSalesByOutletLocation: {title: "Outlet Location", kind: domain.ChartHorizontalBar, field: domain.FieldOutletLocationType},
}

// IsChart reports whether name is a known chart.
func IsChart(name string) bool {
	_, ok := chartDefs[name]
	return ok
}

// BuildChart computes one named chart over s. tiers is only read for the
// tier chart and may be nil otherwise, in which case it is computed.
func BuildChart(name string, s dataprocessing.Subset, tiers *domain.TierTable) (domain.Chart, error) {
	def, ok := chartDefs[name]
	if !ok {
		return domain.Chart{}, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}

	chart := domain.Chart{
		Name:   name,
		Title:  def.title,
		Kind:   def.kind,
		NoData: s.Empty(),
	}

	if name == domain.ChartOutletTierByFat {
		if tiers == nil {
			t := dataprocessing.SumByLocationAndFatContent(s)
			tiers = &t
		}
		chart.Series = tierSeries(*tiers)
		if err := tiers.Err(); err != nil {
			chart.Warnings = append(chart.Warnings, err.Error())
		}
		return chart, nil
	}

	summary, err := dataprocessing.SumBy(s, def.field)
	if err != nil {
		return domain.Chart{}, err
	}
	entries := summary.Entries
	if def.kind == domain.ChartHorizontalBar {
		entries = dataprocessing.SortByValue(summary)
	}

	points := make([]domain.ChartPoint, len(entries))
	for i, e := range entries {
		points[i] = domain.ChartPoint{Label: e.Key, Value: e.Value}
	}
	chart.Series = []domain.ChartSeries{{Name: salesSeries, Points: points}}
	return chart, nil
}

// tierSeries turns the tier table into one series per fat-content column,
// each with a point per location.
func tierSeries(t domain.TierTable) []domain.ChartSeries {
	series := make([]domain.ChartSeries, len(t.Columns))
	for i, col := range t.Columns {
		points := make([]domain.ChartPoint, len(t.Rows))
		for j, row := range t.Rows {
			cell, _ := row.Cell(col)
			points[j] = domain.ChartPoint{Label: row.Location, Value: cell.Sum, Missing: !cell.Present()}
		}
		series[i] = domain.ChartSeries{Name: col, Points: points}
	}
	return series
}

// BuildCharts computes every dashboard chart in display order.
func BuildCharts(s dataprocessing.Subset, tiers domain.TierTable) []domain.Chart {
	charts := make([]domain.Chart, 0, len(domain.ChartNames))
	for _, name := range domain.ChartNames {
		chart, err := BuildChart(name, s, &tiers)
		if err != nil {
			// chartDefs covers every name in ChartNames
			panic(err)
		}
		charts = append(charts, chart)
	}
	return charts
}
