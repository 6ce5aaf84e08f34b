package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func kinds(flags []Flag) []FlagKind {
	out := make([]FlagKind, len(flags))
	for i, f := range flags {
		out[i] = f.Kind
	}
	return out
}

func TestCheckWeather(t *testing.T) {
	th := DefaultThresholds()
	clean := repeat(5.0, 600)

	t.Run("clean series raises nothing", func(t *testing.T) {
		assert.Empty(t, th.CheckWeather(clean, repeat(21.3, 600), repeat(91000, 600)))
	})

	t.Run("zero wind over a minute", func(t *testing.T) {
		flags := th.CheckWeather(repeat(0, 61), repeat(21.3, 61), repeat(91000, 61))
		require.Len(t, flags, 1)
		assert.Equal(t, FlagZeroWind, flags[0].Kind)
		assert.Equal(t, UnitMinutes, flags[0].Unit)
		assert.Equal(t, 1.0, flags[0].Magnitude) // 61/60 rounds to 1.0 for display
	})

	t.Run("exactly one minute-equivalent does not fire", func(t *testing.T) {
		assert.Empty(t, th.CheckWeather(repeat(0, 60), repeat(21.3, 60), repeat(91000, 60)))
	})

	t.Run("high wind strictly above threshold", func(t *testing.T) {
		at := th.CheckWeather(repeat(27.0, 120), repeat(21.3, 120), repeat(91000, 120))
		assert.Empty(t, at, "27.0 is not above the 27.0 threshold")

		above := th.CheckWeather(repeat(27.1, 120), repeat(21.3, 120), repeat(91000, 120))
		require.Len(t, above, 1)
		assert.Equal(t, FlagHighWind, above[0].Kind)
		assert.Equal(t, 2.0, above[0].Magnitude)
	})

	t.Run("zero temperature", func(t *testing.T) {
		flags := th.CheckWeather(clean[:90], repeat(0, 90), repeat(91000, 90))
		assert.Equal(t, []FlagKind{FlagZeroTemp}, kinds(flags))
	})

	t.Run("zero pressure reads the pressure channel", func(t *testing.T) {
		// Temperature is healthy; only the pressure channel is flat zero.
		flags := th.CheckWeather(clean[:90], repeat(21.3, 90), repeat(0, 90))
		assert.Equal(t, []FlagKind{FlagZeroPressure}, kinds(flags))
	})

	t.Run("custom thresholds", func(t *testing.T) {
		strict := th
		strict.HighWindSpeed = 4.0
		flags := strict.CheckWeather(clean[:120], repeat(21.3, 120), repeat(91000, 120))
		assert.Equal(t, []FlagKind{FlagHighWind}, kinds(flags))
	})
}

func TestCheckTiming(t *testing.T) {
	th := DefaultThresholds()

	t.Run("below threshold", func(t *testing.T) {
		_, ok := th.CheckTiming(60*time.Minute, 51*time.Minute)
		assert.False(t, ok)
	})

	t.Run("at threshold fires", func(t *testing.T) {
		f, ok := th.CheckTiming(60*time.Minute, 50*time.Minute)
		require.True(t, ok)
		assert.Equal(t, FlagTimingDiscrepancy, f.Kind)
		assert.Equal(t, 10.0, f.Magnitude)
	})

	t.Run("sign does not matter", func(t *testing.T) {
		_, ok := th.CheckTiming(50*time.Minute, 65*time.Minute)
		assert.True(t, ok)
	})
}

func TestCheckSolar(t *testing.T) {
	th := DefaultThresholds()

	t.Run("healthy flux raises nothing", func(t *testing.T) {
		assert.Empty(t, th.CheckSolar(repeat(600, 1000)))
	})

	t.Run("exactly thirty records does not fire", func(t *testing.T) {
		vals := append(repeat(600, 100), repeat(0, 30)...)
		assert.Empty(t, th.CheckSolar(vals))
	})

	t.Run("zero irradiance", func(t *testing.T) {
		vals := append(repeat(600, 100), repeat(0, 31)...)
		flags := th.CheckSolar(vals)
		// Zero values are also <= the low threshold, so both rules fire.
		assert.Equal(t, []FlagKind{FlagZeroIrradiance, FlagLowIrradiance}, kinds(flags))
		assert.Equal(t, 31.0, flags[0].Magnitude)
		assert.Equal(t, UnitRecords, flags[0].Unit)
	})

	t.Run("low irradiance boundary is inclusive", func(t *testing.T) {
		flags := th.CheckSolar(repeat(300, 31))
		assert.Equal(t, []FlagKind{FlagLowIrradiance}, kinds(flags))
	})

	t.Run("high irradiance boundary is inclusive", func(t *testing.T) {
		flags := th.CheckSolar(repeat(1500, 31))
		assert.Equal(t, []FlagKind{FlagHighIrradiance}, kinds(flags))
		assert.Equal(t, 31.0, flags[0].Magnitude)
	})
}

func TestCheckSurveyWindow(t *testing.T) {
	survey := MissionWindow{
		Start: 14 * time.Hour,
		End:   20 * time.Hour,
	}

	t.Run("full coverage", func(t *testing.T) {
		assert.Empty(t, CheckSurveyWindow(13*time.Hour, 21*time.Hour, survey))
	})

	t.Run("late start", func(t *testing.T) {
		flags := CheckSurveyWindow(14*time.Hour+30*time.Minute, 21*time.Hour, survey)
		require.Len(t, flags, 1)
		assert.Equal(t, FlagLateStart, flags[0].Kind)
		assert.Equal(t, 30.0, flags[0].Magnitude)
	})

	t.Run("early end", func(t *testing.T) {
		flags := CheckSurveyWindow(13*time.Hour, 19*time.Hour, survey)
		require.Len(t, flags, 1)
		assert.Equal(t, FlagEarlyEnd, flags[0].Kind)
		assert.Equal(t, 60.0, flags[0].Magnitude)
	})

	t.Run("both", func(t *testing.T) {
		flags := CheckSurveyWindow(15*time.Hour, 19*time.Hour, survey)
		assert.Equal(t, []FlagKind{FlagLateStart, FlagEarlyEnd}, kinds(flags))
	})
}
