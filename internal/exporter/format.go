package exporter

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// NotAvailable is shown in place of an average over no values.
const NotAvailable = "N/A"

// formatFloat formats a cell value with the shortest exact representation
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatCurrency renders a whole-dollar amount with thousands separators, e.g. "$1,235".
// Halves round to even.
func FormatCurrency(v float64) string {
	whole := decimal.NewFromFloat(v).RoundBank(0).IntPart()
	if whole < 0 {
		return "-$" + humanize.Comma(-whole)
	}
	return "$" + humanize.Comma(whole)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatRating renders a rating with one decimal place.
func FormatRating(v float64) string {
	return decimal.NewFromFloat(v).RoundBank(1).StringFixed(1)
}

// FormatKPIs renders the headline figures for display. Unavailable averages
// become NotAvailable rather than a misleading zero.
func FormatKPIs(k domain.KPIs) domain.KPIDisplay {
	display := domain.KPIDisplay{
		TotalSales:    FormatCurrency(k.TotalSales),
		AverageSales:  NotAvailable,
		ItemCount:     FormatCount(k.ItemCount),
		AverageRating: NotAvailable,
	}
	if v, err := k.AverageSales.Get(); err == nil {
		display.AverageSales = FormatCurrency(v)
	}
	if v, err := k.AverageRating.Get(); err == nil {
		display.AverageRating = FormatRating(v)
	}
	return display
}
