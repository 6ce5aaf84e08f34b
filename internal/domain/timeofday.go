package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

const day = 24 * time.Hour

// NormalizeDecimalHours converts an AIMMS decimal-hour timestamp to a time
// of day. Cumulative drift pushes raw values past 24, so the value is
// wrapped with a single mod-24: NormalizeDecimalHours(t) equals
// NormalizeDecimalHours(t+24) for every t. This is lossless within one
// calendar day only; records spanning a real UTC midnight come out
// non-monotonic and no multi-day correction is attempted.
func NormalizeDecimalHours(hours float64) time.Duration {
	hours = math.Mod(hours, 24)
	if hours < 0 {
		hours += 24
	}
	return time.Duration(hours * float64(time.Hour))
}

// FormatTimeOfDay renders a time of day as HH:MM:SS.ffff.
func FormatTimeOfDay(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := d.Seconds() - float64(3600*h) - float64(60*m)
	return fmt.Sprintf("%02d:%02d:%07.4f", h, m, s)
}

// ParseClockTime parses a wall-clock HH:MM:SS time of day, tolerating
// surrounding whitespace and an optional fractional-second suffix
// (the mission-time source emits HH:MM:SS.ffffff).
func ParseClockTime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var h, m int
	var sec float64
	if _, err := fmt.Sscanf(s, "%d:%d:%f", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("parse clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("parse clock time %q: out of range", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(sec*float64(time.Second)), nil
}

// ToUTC shifts a local time of day by the local-to-UTC offset in hours,
// wrapping at midnight. The offset is the configured laptop offset, e.g.
// -7.0 for a laptop seven hours behind UTC.
func ToUTC(local time.Duration, offsetHours float64) time.Duration {
	utc := local - time.Duration(offsetHours*float64(time.Hour))
	utc %= day
	if utc < 0 {
		utc += day
	}
	return utc
}

// MedianInterval estimates the sample interval of a series as the median of
// consecutive timestamp differences. The median keeps the estimate robust
// against dropped samples and the single negative diff a midnight rollover
// produces. Returns 0 for fewer than two samples.
func MedianInterval(times []time.Duration) time.Duration {
	if len(times) < 2 {
		return 0
	}
	diffs := make([]time.Duration, len(times)-1)
	for i := 1; i < len(times); i++ {
		diffs[i-1] = times[i] - times[i-1]
	}
	sort.Slice(diffs, func(i, j int) bool { return diffs[i] < diffs[j] })
	mid := len(diffs) / 2
	if len(diffs)%2 == 1 {
		return diffs[mid]
	}
	return (diffs[mid-1] + diffs[mid]) / 2
}
