// Package stats holds the guarded numeric helpers shared by the analytics
// and risk packages. None of the helpers panic or return NaN for empty input.
package stats

import (
	"math"

	"github.com/shopspring/decimal"
)

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return Sum(xs) / float64(len(xs))
}

// Sum returns the sum of xs.
func Sum(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum
}

// StdDev returns the population standard deviation of xs around mean.
// Fewer than two values yield 0.
func StdDev(xs []float64, mean float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n))
}

// RMS returns the root mean square of xs, or 0 for an empty slice.
func RMS(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, x := range xs {
		sumSq += x * x
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// Clip bounds x to [lo, hi].
func Clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Ratio returns num/den, or fallback when den is zero.
func Ratio(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	return num / den
}

// Round rounds x half away from zero to the given number of decimal places.
// Infinities and NaN are returned unchanged.
func Round(x float64, places int32) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// Split partitions xs into its strictly positive and strictly negative values.
// Zeros land in neither slice.
func Split(xs []float64) (pos, neg []float64) {
	for _, x := range xs {
		switch {
		case x > 0:
			pos = append(pos, x)
		case x < 0:
			neg = append(neg, x)
		}
	}
	return pos, neg
}

// AbsMean returns the mean of |x| over xs, or 0 for an empty slice.
func AbsMean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += math.Abs(x)
	}
	return sum / float64(len(xs))
}

// Consistency scores how tightly xs cluster around their mean on a 0..100
// scale: max(0, 100 - stdDev/|mean|*100). Fewer than two values score 0.
// When the values do not vary the result is flat; a zero mean with non-zero
// spread scores 0.
func Consistency(xs []float64, flat float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := Mean(xs)
	sd := StdDev(xs, mean)
	if sd == 0 {
		return flat
	}
	if mean == 0 {
		return 0
	}
	return math.Max(0, 100-sd/math.Abs(mean)*100)
}
