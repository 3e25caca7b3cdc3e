package exporter

import (
	"strconv"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// RowCells renders rec as a row under header. Raw source cells are reused so
// columns the engine never parsed survive the round trip; fat content is
// written in its normalized spelling. Records built in code without raw cells
// get their interpreted fields filled by column name.
func RowCells(header []string, rec domain.Record) []string {
	row := make([]string, len(header))
	copy(row, rec.Cells)

	for i, col := range header {
		if col == domain.ColumnItemFatContent {
			row[i] = rec.ItemFatContent
			continue
		}
		if len(rec.Cells) > 0 {
			continue
		}
		row[i] = fieldValue(col, rec)
	}
	return row
}

func fieldValue(col string, rec domain.Record) string {
	switch col {
	case domain.ColumnItemType:
		return rec.ItemType
	case domain.ColumnOutletSize:
		return rec.OutletSize
	case domain.ColumnOutletLocationType:
		return rec.OutletLocationType
	case domain.ColumnOutletEstablishmentYear:
		return strconv.Itoa(rec.OutletEstablishmentYear)
	case domain.ColumnSales:
		if v, ok := rec.SalesValue(); ok {
			return formatFloat(v)
		}
	case domain.ColumnRating:
		if v, ok := rec.RatingValue(); ok {
			return formatFloat(v)
		}
	}
	return ""
}
