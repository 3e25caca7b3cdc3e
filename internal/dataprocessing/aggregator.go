package dataprocessing

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"
)

// ComputeKPIs computes the headline figures of s. Sales and ratings are summed
// as decimals so totals do not drift with row order. Absent ratings are left
// out of the rating mean entirely.
func ComputeKPIs(s Subset) domain.KPIs {
	salesSum, ratingSum := decimal.Zero, decimal.Zero
	var salesN, ratingN int

	s.Each(func(rec domain.Record) {
		if v, ok := rec.SalesValue(); ok {
			salesSum = salesSum.Add(decimal.NewFromFloat(v))
			salesN++
		}
		if v, ok := rec.RatingValue(); ok {
			ratingSum = ratingSum.Add(decimal.NewFromFloat(v))
			ratingN++
		}
	})

	return domain.KPIs{
		TotalSales:    salesSum.InexactFloat64(),
		AverageSales:  mean(salesSum, salesN),
		ItemCount:     s.Len(),
		AverageRating: mean(ratingSum, ratingN),
	}
}

func mean(sum decimal.Decimal, n int) domain.Average {
	if n == 0 {
		return domain.Average{}
	}
	return domain.Average{
		Value: sum.Div(decimal.NewFromInt(int64(n))).InexactFloat64(),
		Count: n,
	}
}

type groupKey struct {
	value   string
	unknown bool
}

func (k groupKey) label() string {
	if k.unknown {
		return domain.UnknownKey
	}
	return k.value
}

type bucket struct {
	key  groupKey
	year int
	sum  decimal.Decimal
	rows int
}

// SumBy sums sales per distinct value of field. Records whose key is absent
// land in a single unknown bucket. Item type and outlet location are ranked by
// value, highest first with ties broken by key; establishment year runs
// oldest first; fat content and outlet size keep the order keys were first seen.
func SumBy(s Subset, field domain.GroupField) (domain.GroupSummary, error) {
	if _, err := domain.ParseGroupField(string(field)); err != nil {
		return domain.GroupSummary{}, err
	}

	index := make(map[groupKey]*bucket)
	var order []*bucket

	s.Each(func(rec domain.Record) {
		key, year := keyOf(rec, field)
		b, ok := index[key]
		if !ok {
			b = &bucket{key: key, year: year, sum: decimal.Zero}
			index[key] = b
			order = append(order, b)
		}
		if v, ok := rec.SalesValue(); ok {
			b.sum = b.sum.Add(decimal.NewFromFloat(v))
		}
		b.rows++
	})

	switch field {
	case domain.FieldItemType, domain.FieldOutletLocationType:
		sort.SliceStable(order, func(i, j int) bool {
			if c := order[i].sum.Cmp(order[j].sum); c != 0 {
				return c > 0
			}
			if a, b := order[i].key.label(), order[j].key.label(); a != b {
				return a < b
			}
			return !order[i].key.unknown
		})
	case domain.FieldOutletEstablishmentYear:
		sort.SliceStable(order, func(i, j int) bool {
			return order[i].year < order[j].year
		})
	}

	entries := make([]domain.GroupEntry, len(order))
	for i, b := range order {
		entries[i] = domain.GroupEntry{
			Key:     b.key.label(),
			Value:   b.sum.InexactFloat64(),
			Rows:    b.rows,
			Unknown: b.key.unknown,
		}
	}
	return domain.GroupSummary{Field: field, Entries: entries}, nil
}

func keyOf(rec domain.Record, field domain.GroupField) (groupKey, int) {
	var v string
	switch field {
	case domain.FieldItemFatContent:
		v = rec.ItemFatContent
	case domain.FieldItemType:
		v = rec.ItemType
	case domain.FieldOutletSize:
		v = rec.OutletSize
	case domain.FieldOutletLocationType:
		v = rec.OutletLocationType
	case domain.FieldOutletEstablishmentYear:
		return groupKey{value: strconv.Itoa(rec.OutletEstablishmentYear)}, rec.OutletEstablishmentYear
	}
	if v == "" {
		return groupKey{unknown: true}, 0
	}
	return groupKey{value: v}, 0
}

// SortByValue returns the entries of g ranked by value, highest first, ties
// broken by key. g is not modified.
func SortByValue(g domain.GroupSummary) []domain.GroupEntry {
	out := append([]domain.GroupEntry(nil), g.Entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out
}

type tierAcc struct {
	key     groupKey
	regular decimal.Decimal
	lowFat  decimal.Decimal
	regRows int
	lowRows int
}

// SumByLocationAndFatContent builds the outlet location by fat-content table.
// Every location present in s gets a row, even when one or both of its cells
// are empty. Fat-content values other than Regular and Low Fat are collected
// in StrayCategories, in order of first appearance, and left out of the sums.
func SumByLocationAndFatContent(s Subset) domain.TierTable {
	index := make(map[groupKey]*tierAcc)
	var order []*tierAcc
	seenStray := make(map[string]struct{})
	var stray []string

	s.Each(func(rec domain.Record) {
		key, _ := keyOf(rec, domain.FieldOutletLocationType)
		acc, ok := index[key]
		if !ok {
			acc = &tierAcc{key: key, regular: decimal.Zero, lowFat: decimal.Zero}
			index[key] = acc
			order = append(order, acc)
		}

		sales := decimal.Zero
		if v, ok := rec.SalesValue(); ok {
			sales = decimal.NewFromFloat(v)
		}

		switch rec.ItemFatContent {
		case domain.FatContentRegular:
			acc.regular = acc.regular.Add(sales)
			acc.regRows++
		case domain.FatContentLowFat:
			acc.lowFat = acc.lowFat.Add(sales)
			acc.lowRows++
		default:
			label := rec.ItemFatContent
			if label == "" {
				label = domain.UnknownKey
			}
			if _, dup := seenStray[label]; !dup {
				seenStray[label] = struct{}{}
				stray = append(stray, label)
			}
		}
	})

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i].key, order[j].key
		if a.unknown != b.unknown {
			return b.unknown
		}
		return a.value < b.value
	})

	rows := make([]domain.TierRow, len(order))
	for i, acc := range order {
		rows[i] = domain.TierRow{
			Location: acc.key.label(),
			Unknown:  acc.key.unknown,
			Regular:  domain.TierCell{Sum: acc.regular.InexactFloat64(), Rows: acc.regRows},
			LowFat:   domain.TierCell{Sum: acc.lowFat.InexactFloat64(), Rows: acc.lowRows},
		}
	}

	return domain.TierTable{
		Columns:         append([]string(nil), domain.TierColumns...),
		Rows:            rows,
		StrayCategories: stray,
	}
}
