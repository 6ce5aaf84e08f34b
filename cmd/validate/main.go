// Command validate performs end-to-end integrity checks across a flight's QC
// inputs and artifacts: the weather probe file, the solar irradiance CSV, and
// the report, plot, and trajectory files a QC run produced from them. It
// verifies parseability, field sanity, artifact presence, and that the
// written reports agree with the source data.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -weather testdata/flight8_extract.out \
//	  -solar testdata/flight8_solar.csv \
//	  -artifact-dir out
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aerosurvey/probe-qc/internal/adapter/probefile"
	"github.com/aerosurvey/probe-qc/internal/adapter/solarfile"
	"github.com/aerosurvey/probe-qc/internal/domain"
	"github.com/aerosurvey/probe-qc/internal/report"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	weatherPath := flag.String("weather", "", "path to the weather probe file")
	solarPath := flag.String("solar", "", "path to the solar irradiance CSV")
	artifactDir := flag.String("artifact-dir", "", "directory holding QC run artifacts")
	flag.Parse()

	if *weatherPath == "" || *solarPath == "" || *artifactDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*weatherPath, *solarPath, *artifactDir); code != 0 {
		os.Exit(code)
	}
}

func run(weatherPath, solarPath, artifactDir string) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fmt.Println("=== Probe QC Artifact Validation ===")
	fmt.Println()

	weather, err := probefile.NewReader(logger).Read(weatherPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load weather file: %v\n", err)
		return 1
	}
	solar, _, err := solarfile.NewReader(logger).Read(solarPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load solar file: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateWeatherSeries(weather),
		validateSolarSeries(solar),
		validateArtifacts(weatherPath, solarPath, artifactDir),
		validateReportCounts(weatherPath, solarPath, artifactDir, len(weather.Records), len(solar.Records)),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d weather (%s), %d solar\n",
		len(weather.Records), weather.Format, len(solar.Records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: weather series sanity ──

func validateWeatherSeries(s domain.Series) *phase {
	p := &phase{name: "Weather series sanity"}

	if len(s.Records) == 0 {
		p.errorf("no records parsed")
		return p
	}

	// One backwards step is a legitimate midnight rollover; more means the
	// file is scrambled.
	backwards := 0
	for i := 1; i < len(s.Records); i++ {
		if s.Records[i].Time < s.Records[i-1].Time {
			backwards++
		}
	}
	if backwards > 1 {
		p.errorf("timestamps go backwards %d times", backwards)
	}

	for i, r := range s.Records {
		for name, v := range map[string]float64{
			"Temp": r.Temp, "RH": r.RH, "P_stat": r.Pres,
			"Uw": r.Uw, "Vw": r.Vw, "Lat": r.Lat, "Long": r.Long, "Z": r.Z,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				p.errorf("record %d: %s is not finite", i, name)
			}
		}
		if r.Lat < -90 || r.Lat > 90 {
			p.errorf("record %d: latitude %g out of range", i, r.Lat)
		}
		if r.Long < -180 || r.Long > 180 {
			p.errorf("record %d: longitude %g out of range", i, r.Long)
		}
		if len(p.errors) > 20 {
			p.errorf("too many errors, stopping")
			return p
		}
	}
	return p
}

// ── Phase 2: solar series sanity ──

func validateSolarSeries(s domain.SolarSeries) *phase {
	p := &phase{name: "Solar series sanity"}

	if len(s.Records) == 0 {
		p.errorf("no records parsed")
		return p
	}
	if s.Unit == domain.SolarUnitUnknown {
		p.errorf("unrecognized unit token in header")
	}
	for i, r := range s.Records {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			p.errorf("record %d: value is not finite", i)
		}
		if r.Value < 0 {
			p.errorf("record %d: negative photon flux %g", i, r.Value)
		}
		if r.LocalTime < 0 || r.LocalTime >= 24*time.Hour {
			p.errorf("record %d: time of day out of range", i)
		}
		if len(p.errors) > 20 {
			p.errorf("too many errors, stopping")
			return p
		}
	}
	return p
}

// ── Phase 3: artifact presence ──

func validateArtifacts(weatherPath, solarPath, dir string) *phase {
	p := &phase{name: "Artifact presence"}

	statsStem := strings.TrimSuffix(report.WeatherPath(weatherPath, dir), ".txt")
	kmlPath := filepath.Join(dir, fileStem(weatherPath)+".kml")

	expected := []string{
		statsStem + ".txt",
		statsStem + "_temp_timeseries.png",
		statsStem + "_windspeed_timeseries.png",
		statsStem + "_pressure_timeseries.png",
		statsStem + "_humidity_timeseries.png",
		statsStem + "_altitude_timeseries.png",
		kmlPath,
		report.SolarPath(solarPath, dir),
		filepath.Join(dir, fileStem(solarPath)+"_solar_timeseries_plot.png"),
	}
	for _, path := range expected {
		info, err := os.Stat(path)
		if err != nil {
			p.errorf("missing artifact %s", filepath.Base(path))
			continue
		}
		if info.Size() == 0 {
			p.errorf("artifact %s is empty", filepath.Base(path))
		}
	}

	if kml, err := os.ReadFile(kmlPath); err == nil {
		if !strings.Contains(string(kml), "<coordinates>") {
			p.errorf("trajectory KML has no coordinates element")
		}
	}
	return p
}

// ── Phase 4: report agrees with source ──

var collectedRe = regexp.MustCompile(`Collected (\d+) records\.`)

func validateReportCounts(weatherPath, solarPath, dir string, weatherCount, solarCount int) *phase {
	p := &phase{name: "Report record counts"}

	check := func(reportPath string, want int) {
		data, err := os.ReadFile(reportPath)
		if err != nil {
			p.errorf("read %s: %v", filepath.Base(reportPath), err)
			return
		}
		m := collectedRe.FindStringSubmatch(string(data))
		if m == nil {
			p.errorf("%s: no record count line", filepath.Base(reportPath))
			return
		}
		got, err := strconv.Atoi(m[1])
		if err != nil || got != want {
			p.errorf("%s: reports %s records, source has %d", filepath.Base(reportPath), m[1], want)
		}
	}

	check(report.WeatherPath(weatherPath, dir), weatherCount)
	check(report.SolarPath(solarPath, dir), solarCount)
	return p
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
