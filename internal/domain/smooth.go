package domain

import (
	"math"
	"time"
)

// WindowSize converts a smoothing period into a sample-count window using
// the series' measured sample interval. A period shorter than one interval
// clamps to 1, which leaves the channel unsmoothed.
func WindowSize(period, sampleInterval time.Duration) int {
	if sampleInterval <= 0 {
		return 1
	}
	w := int(period / sampleInterval)
	if w < 1 {
		return 1
	}
	return w
}

// MovingAverage applies a trailing simple moving average of the given
// window to one channel, returning a new slice. The input is never
// modified, so one canonical series can feed several smoothing
// configurations. The first window-1 positions carry no defined value and
// are NaN; statistics skip them. A window of 1 (or less) copies the input.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
