// Package report renders QC results as fixed-order text files. Crews diff
// these between flights, so line order is stable and every line carries one
// fact. Files are written only after the whole run has computed, so a
// mid-run failure leaves no partial report on disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aerosurvey/probe-qc/internal/domain"
)

// WeatherPath derives the report path for a probe file stem in outDir.
func WeatherPath(sourcePath, outDir string) string {
	return artifactPath(sourcePath, outDir, "_weather_statistics.txt")
}

// SolarPath derives the report path for a solar file stem in outDir.
func SolarPath(sourcePath, outDir string) string {
	return artifactPath(sourcePath, outDir, "_solar_stats.txt")
}

func artifactPath(sourcePath, outDir, suffix string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+suffix)
}

// RenderWeather builds the meteorological QC report text.
func RenderWeather(r *domain.WeatherReport) string {
	var b strings.Builder

	b.WriteString("####### AIMMS Data QC #########\n\n")
	fmt.Fprintf(&b, "Source file: %s\n", r.SourceFile)
	fmt.Fprintf(&b, "Probe format: %s\n\n", r.Format)

	fmt.Fprintf(&b, "Wind data smoothed with a %d-sample moving average.\n", r.Wind.Window)
	fmt.Fprintf(&b, "Temp data smoothed with a %d-sample moving average.\n", r.Temp.Window)
	fmt.Fprintf(&b, "Humidity data smoothed with a %d-sample moving average.\n", r.Humidity.Window)
	fmt.Fprintf(&b, "Pressure data smoothed with a %d-sample moving average.\n", r.Pressure.Window)
	fmt.Fprintf(&b, "Data collected for %s at %s sample rate.\n", r.Duration, r.SampleInterval)
	fmt.Fprintf(&b, "Collected %d records.\n\n", r.RecordCount)

	fmt.Fprintf(&b, "UTC Start Time: %s\n", domain.FormatTimeOfDay(r.UTCStart))
	fmt.Fprintf(&b, "UTC End Time: %s\n\n", domain.FormatTimeOfDay(r.UTCEnd))

	fmt.Fprintf(&b, "Average temperature: %s C\n", num(r.Temp.Mean))
	fmt.Fprintf(&b, "Temperature StDev: %s C\n", num(r.Temp.StdDev))
	fmt.Fprintf(&b, "Average pressure: %s pascals\n", num(r.Pressure.Mean))
	fmt.Fprintf(&b, "Pressure StDev: %s pascals\n", num(r.Pressure.StdDev))
	fmt.Fprintf(&b, "Average Rel Humidity: %s %%\n", num(r.Humidity.Mean))
	fmt.Fprintf(&b, "Rel Humidity StDev: %s %%\n", num(r.Humidity.StdDev))
	fmt.Fprintf(&b, "Average Wind Speed: %s m/sec\n", num(r.Wind.Mean))
	fmt.Fprintf(&b, "Wind Speed StDev: %s m/sec\n", num(r.Wind.StdDev))

	writeFlags(&b, r.Flags)
	return b.String()
}

// RenderSolar builds the solar QC report text.
func RenderSolar(r *domain.SolarReport) string {
	var b strings.Builder

	b.WriteString("### Solar Probe Statistics ###\n\n")
	fmt.Fprintf(&b, "Source file: %s\n", r.SourceFile)
	fmt.Fprintf(&b, "Irradiance unit: %s", r.Unit)
	if r.Converted {
		b.WriteString(" (converted to micromoles)")
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Data collected for %s.\n", r.Duration)
	fmt.Fprintf(&b, "Collected %d records.\n", r.RecordCount)
	fmt.Fprintf(&b, "Records cover an estimated %s at %s sample rate.\n", r.ImpliedDuration, r.SampleInterval)
	fmt.Fprintf(&b, "Solar flux smoothed with a %d-sample moving average.\n\n", r.Flux.Window)

	if r.Survey != nil {
		fmt.Fprintf(&b, "Survey UTC Start Time: %s\n", domain.FormatTimeOfDay(r.Survey.Start))
		fmt.Fprintf(&b, "Survey UTC End Time: %s\n", domain.FormatTimeOfDay(r.Survey.End))
	}
	fmt.Fprintf(&b, "Solar UTC Start Time: %s\n", domain.FormatTimeOfDay(r.UTCStart))
	fmt.Fprintf(&b, "Solar UTC End Time: %s\n", domain.FormatTimeOfDay(r.UTCEnd))
	fmt.Fprintf(&b, "Solar Local Start Time: %s\n", domain.FormatTimeOfDay(r.LocalStart))
	fmt.Fprintf(&b, "Solar Local End Time: %s\n\n", domain.FormatTimeOfDay(r.LocalEnd))

	fmt.Fprintf(&b, "Average photon flux: %s micromoles\n", num(r.Flux.Mean))
	fmt.Fprintf(&b, "Photon flux StDev: %s micromoles\n", num(r.Flux.StdDev))
	fmt.Fprintf(&b, "Median photon flux: %s micromoles\n", num(r.Flux.Median))
	fmt.Fprintf(&b, "Minimum photon flux: %s micromoles\n", num(r.Flux.Min))
	fmt.Fprintf(&b, "Maximum photon flux: %s micromoles\n", num(r.Flux.Max))

	writeFlags(&b, r.Flags)
	return b.String()
}

// WriteWeather renders and writes the weather report in one shot.
func WriteWeather(path string, r *domain.WeatherReport) error {
	if err := os.WriteFile(path, []byte(RenderWeather(r)), 0o644); err != nil {
		return fmt.Errorf("write weather report: %w", err)
	}
	return nil
}

// WriteSolar renders and writes the solar report in one shot.
func WriteSolar(path string, r *domain.SolarReport) error {
	if err := os.WriteFile(path, []byte(RenderSolar(r)), 0o644); err != nil {
		return fmt.Errorf("write solar report: %w", err)
	}
	return nil
}

func writeFlags(b *strings.Builder, flags []domain.Flag) {
	if len(flags) == 0 {
		return
	}
	b.WriteString("\n")
	for _, f := range flags {
		fmt.Fprintf(b, "%s\n", FlagLine(f))
	}
}

// FlagLine renders one anomaly flag as a report warning.
func FlagLine(f domain.Flag) string {
	extent := fmt.Sprintf("for %s %s", num(f.Magnitude), f.Unit)
	switch f.Kind {
	case domain.FlagZeroWind:
		return "WARNING! Potential windspeed recording error of 0 m/sec " + extent + "."
	case domain.FlagHighWind:
		return "WARNING! Potential windspeed recording error of excessive wind speed " + extent + "."
	case domain.FlagZeroTemp:
		return "WARNING! Potential data recording error of 0 temperature " + extent + "."
	case domain.FlagZeroPressure:
		return "WARNING! Potential data recording error of 0 pressure " + extent + "."
	case domain.FlagTimingDiscrepancy:
		return fmt.Sprintf("WARNING! Potential data recording error: discrepancy of %s minutes between record count and start/stop times.", num(f.Magnitude))
	case domain.FlagZeroIrradiance:
		return "WARNING! Potential data recording error of 0 irradiance " + extent + "."
	case domain.FlagLowIrradiance:
		return "WARNING! Low solar irradiance detected " + extent + "."
	case domain.FlagHighIrradiance:
		return "WARNING! High solar irradiance detected " + extent + "."
	case domain.FlagStartCoverageGap:
		return "WARNING! Might be missing AIMMS coverage at the start of the mission " + extent + "."
	case domain.FlagEndCoverageGap:
		return "WARNING! Might be missing AIMMS coverage at the end of the mission " + extent + "."
	case domain.FlagLateStart:
		return "WARNING! Solar data may start after lidar collection began " + extent + "."
	case domain.FlagEarlyEnd:
		return "WARNING! Solar data may end before lidar collection ends " + extent + "."
	default:
		return fmt.Sprintf("WARNING! %s %s.", f.Kind, extent)
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
