// Package dataprocessing is the query layer over an in-memory sales dataset.
//
// A Dataset is loaded once (Loader.LoadFile or Loader.LoadReader), its
// fat-content labels are normalized on construction, and it is never mutated
// afterwards. Apply narrows it to a Subset, an index list into the parent
// that preserves record order. The aggregation functions then read a Subset:
//
//	ds, err := dataprocessing.NewLoader(logger).LoadFile("blinkit_data.csv")
//	if err != nil {
//	    return err
//	}
//	subset := dataprocessing.Apply(ds, dataprocessing.DefaultFilterSpec(ds))
//	kpis := dataprocessing.ComputeKPIs(subset)
//	byType, _ := dataprocessing.SumBy(subset, domain.FieldItemType)
//	tiers := dataprocessing.SumByLocationAndFatContent(subset)
//
// Empty subsets are valid everywhere. Averages over no values come back as
// an unavailable domain.Average rather than zero, and fat-content values that
// survive normalization without matching Regular or Low Fat are reported on
// the tier table instead of failing it.
package dataprocessing
