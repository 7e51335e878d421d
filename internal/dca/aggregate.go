// internal/dca/aggregate.go
// Agregasi lintas metode: rata-rata cadangan dan ORC

package dca

// ExpectedValidMethodCount pembagi tetap rata-rata cadangan. Asumsi domain:
// empat dari enam metode normalnya memberi estimasi cadangan. Kalau metode
// valid kurang dari ini, rata-rata ter-under-count (lihat Aggregate.UnderCounted).
const ExpectedValidMethodCount = 4

// AggregateResults menghitung rata-rata extractable/remaining dan ORC.
// geological boleh nil; ORC hanya dihitung kalau geological > 0.
func AggregateResults(results []*MethodResult, cumulativeOil float64, geological *float64) Aggregate {
	agg := Aggregate{CumulativeOilProduction: cumulativeOil, GeologicalReserves: geological}

	var sumExtractable, sumRemaining float64
	for _, r := range results {
		if r == nil || r.ExtractableOilReserves == nil || r.RemainingOilReserves == nil {
			continue
		}
		sumExtractable += *r.ExtractableOilReserves
		sumRemaining += *r.RemainingOilReserves
		agg.ValidCount++
	}
	if agg.ValidCount == 0 {
		agg.UnderCounted = true
		return agg
	}
	agg.UnderCounted = agg.ValidCount < ExpectedValidMethodCount
	agg.ExtractableAverage = ptr(sumExtractable / ExpectedValidMethodCount)
	agg.RemainingAverage = ptr(sumRemaining / ExpectedValidMethodCount)

	total := cumulativeOil + *agg.RemainingAverage
	agg.TotalNumerator = ptr(total)
	if geological != nil && *geological > 0 {
		agg.ORC = ptr(total / *geological)
	}
	return agg
}
