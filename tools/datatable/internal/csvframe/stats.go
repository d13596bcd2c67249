package csvframe

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a numeric column, missing cells excluded. Std is the
// sample standard deviation and the quartiles interpolate linearly
// between order statistics.
type Stats struct {
	Count  float64
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Values returns the stats in report row order: count, mean, std, min,
// 25%, 50%, 75%, max.
func (s Stats) Values() []float64 {
	return []float64{s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max}
}

// Stats computes the summary statistics of the column.
func (c *Column) Stats() Stats {
	xs := c.NonNull()
	n := len(xs)
	if n == 0 {
		nan := math.NaN()
		return Stats{Count: 0, Mean: nan, Std: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan}
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return Stats{
		Count:  float64(n),
		Mean:   stat.Mean(xs, nil),
		Std:    stat.StdDev(xs, nil),
		Min:    sorted[0],
		Q25:    quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q75:    quantile(sorted, 0.75),
		Max:    sorted[n-1],
	}
}

// quantile interpolates linearly between the two order statistics
// around p, the convention dataframe percentiles use.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// Correlation returns the Pearson correlation of two numeric columns
// over the rows where both are present. Fewer than two shared rows, or
// a constant column, yield NaN.
func Correlation(a, b *Column) float64 {
	var xs, ys []float64
	for i := range a.Nulls {
		if a.Nulls[i] || b.Nulls[i] {
			continue
		}
		xs = append(xs, a.Nums[i])
		ys = append(ys, b.Nums[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
