package domain

import (
	"math"
	"time"
)

// FlagKind identifies an anomaly rule.
type FlagKind string

const (
	FlagZeroWind           FlagKind = "zero_wind"
	FlagHighWind           FlagKind = "high_wind"
	FlagZeroTemp           FlagKind = "zero_temp"
	FlagZeroPressure       FlagKind = "zero_pressure"
	FlagTimingDiscrepancy  FlagKind = "timing_discrepancy"
	FlagZeroIrradiance     FlagKind = "zero_irradiance"
	FlagLowIrradiance      FlagKind = "low_irradiance"
	FlagHighIrradiance     FlagKind = "high_irradiance"
	FlagStartCoverageGap   FlagKind = "start_coverage_gap"
	FlagEndCoverageGap     FlagKind = "end_coverage_gap"
	FlagLateStart          FlagKind = "late_start"
	FlagEarlyEnd           FlagKind = "early_end"
)

// Magnitude units.
const (
	UnitMinutes = "minutes"
	UnitRecords = "records"
)

// Flag is one advisory anomaly finding. Magnitude is the affected extent
// in the stated unit: minute-equivalents for duration rules, record counts
// for the solar value rules.
type Flag struct {
	Kind      FlagKind `json:"kind"`
	Magnitude float64  `json:"magnitude"`
	Unit      string   `json:"unit"`
}

// Thresholds carries every anomaly-rule constant. The defaults encode the
// operational QC policy; projects override individual values via config.
type Thresholds struct {
	SamplesPerMinute  float64       // nominal probe sample rate
	RunMinutes        float64       // duration rules fire strictly above this
	HighWindSpeed     float64       // m/s
	TimingDiscrepancy time.Duration // record-count vs wall-clock mismatch
	IrradianceRecords int           // solar value rules fire strictly above this
	LowIrradiance     float64       // micromoles
	HighIrradiance    float64       // micromoles
}

// DefaultThresholds returns the operational QC policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SamplesPerMinute:  60,
		RunMinutes:        1.0,
		HighWindSpeed:     27.0,
		TimingDiscrepancy: 10 * time.Minute,
		IrradianceRecords: 30,
		LowIrradiance:     300,
		HighIrradiance:    1500,
	}
}

// minuteFlag converts a qualifying-sample count to minute-equivalents and
// returns a flag when it exceeds the run threshold. Exactly the threshold
// (60 samples at the nominal rate) does not fire; one more does. The
// reported magnitude is rounded to one decimal for the report.
func (t Thresholds) minuteFlag(kind FlagKind, count int) (Flag, bool) {
	minutes := float64(count) / t.SamplesPerMinute
	if minutes <= t.RunMinutes {
		return Flag{}, false
	}
	return Flag{Kind: kind, Magnitude: Round(minutes, 1), Unit: UnitMinutes}, true
}

func countWhere(values []float64, pred func(float64) bool) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) && pred(v) {
			n++
		}
	}
	return n
}

// CheckWeather evaluates the meteorological anomaly rules over the smoothed
// channels. The pressure rule reads the pressure channel; temperature and
// pressure are independent findings.
func (t Thresholds) CheckWeather(windSpeed, temp, pressure []float64) []Flag {
	var flags []Flag

	if f, ok := t.minuteFlag(FlagZeroWind, countWhere(windSpeed, func(v float64) bool { return v == 0 })); ok {
		flags = append(flags, f)
	}
	if f, ok := t.minuteFlag(FlagHighWind, countWhere(windSpeed, func(v float64) bool { return v > t.HighWindSpeed })); ok {
		flags = append(flags, f)
	}
	if f, ok := t.minuteFlag(FlagZeroTemp, countWhere(temp, func(v float64) bool { return v == 0 })); ok {
		flags = append(flags, f)
	}
	if f, ok := t.minuteFlag(FlagZeroPressure, countWhere(pressure, func(v float64) bool { return v == 0 })); ok {
		flags = append(flags, f)
	}

	return flags
}

// CheckTiming compares the wall-clock duration against the duration implied
// by the record count and sample interval. A mismatch at or above the
// threshold means the logger dropped or duplicated a material stretch.
func (t Thresholds) CheckTiming(wallClock, implied time.Duration) (Flag, bool) {
	diff := wallClock - implied
	if diff < 0 {
		diff = -diff
	}
	if diff < t.TimingDiscrepancy {
		return Flag{}, false
	}
	return Flag{Kind: FlagTimingDiscrepancy, Magnitude: Round(diff.Minutes(), 1), Unit: UnitMinutes}, true
}

// CheckSolar evaluates the irradiance value rules over the smoothed,
// unit-converted series. Counts are record counts, not sample runs.
func (t Thresholds) CheckSolar(values []float64) []Flag {
	var flags []Flag

	recordFlag := func(kind FlagKind, count int) {
		if count > t.IrradianceRecords {
			flags = append(flags, Flag{Kind: kind, Magnitude: float64(count), Unit: UnitRecords})
		}
	}

	recordFlag(FlagZeroIrradiance, countWhere(values, func(v float64) bool { return v == 0 }))
	recordFlag(FlagLowIrradiance, countWhere(values, func(v float64) bool { return v <= t.LowIrradiance }))
	recordFlag(FlagHighIrradiance, countWhere(values, func(v float64) bool { return v >= t.HighIrradiance }))

	return flags
}

// CheckSurveyWindow compares a probe's UTC window against the survey's.
// Collection that starts after the survey or ends before it cannot cover
// the full mission.
func CheckSurveyWindow(start, end time.Duration, survey MissionWindow) []Flag {
	var flags []Flag
	if start > survey.Start {
		flags = append(flags, Flag{
			Kind:      FlagLateStart,
			Magnitude: Round((start - survey.Start).Minutes(), 1),
			Unit:      UnitMinutes,
		})
	}
	if end < survey.End {
		flags = append(flags, Flag{
			Kind:      FlagEarlyEnd,
			Magnitude: Round((survey.End - end).Minutes(), 1),
			Unit:      UnitMinutes,
		})
	}
	return flags
}
