package domain

import (
	"math"
	"sort"
)

// Display precision per channel class: solar flux metrics carry one
// decimal, thermodynamic channels three, and the derived wind magnitude
// six (it feeds downstream comparisons, not just the report).
const (
	PrecisionSolar = 1
	PrecisionMet   = 3
	PrecisionWind  = 6
)

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	if math.IsNaN(v) {
		return v
	}
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

// WindSpeed derives the combined wind magnitude sqrt(Uw^2+Vw^2) for each
// sample, rounded to six decimals. NaN warmup samples from smoothing
// propagate so the derived channel keeps the same undefined prefix.
func WindSpeed(uw, vw []float64) []float64 {
	n := len(uw)
	if len(vw) < n {
		n = len(vw)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = Round(math.Hypot(uw[i], vw[i]), PrecisionWind)
	}
	return out
}

// Describe computes mean, median, min, max, and population standard
// deviation over the defined (non-NaN) samples of a channel, rounded to
// the channel class's precision. An all-NaN or empty channel yields NaN
// statistics.
func Describe(values []float64, decimals int) ChannelStats {
	defined := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}
	if len(defined) == 0 {
		nan := math.NaN()
		return ChannelStats{Mean: nan, Median: nan, Min: nan, Max: nan, StdDev: nan}
	}

	var sum float64
	minV, maxV := defined[0], defined[0]
	for _, v := range defined {
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	mean := sum / float64(len(defined))

	var sq float64
	for _, v := range defined {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(defined)))

	return ChannelStats{
		Mean:   Round(mean, decimals),
		Median: Round(median(defined), decimals),
		Min:    Round(minV, decimals),
		Max:    Round(maxV, decimals),
		StdDev: Round(std, decimals),
	}
}

// median mutates its argument's order; callers pass the scratch slice
// Describe already owns.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2
}
