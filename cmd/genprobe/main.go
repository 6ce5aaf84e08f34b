// Command genprobe generates synthetic probe data fixtures for QC test
// flights: an AIMMS meteorological file in any of the three supported
// layouts, a matching solar irradiance CSV, and a mission timing CSV. It
// uses the actual domain package schemas so the fixtures always match real
// parser behavior.
//
// Usage:
//
//	go run ./cmd/genprobe \
//	  -out testdata/flight8 \
//	  -format geo1_new \
//	  -records 3600 \
//	  -inject high_wind
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aerosurvey/probe-qc/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path stem, e.g. testdata/flight8")
	formatName := flag.String("format", "geo1_new", "probe layout: nv5, geo1_old, or geo1_new")
	records := flag.Int("records", 3600, "number of weather records")
	startHours := flag.Float64("start", 15.0, "flight start time in decimal hours UTC")
	rate := flag.Float64("rate", 1.0, "sample rate in Hz")
	solarUnit := flag.String("solar-unit", "µmoles", "solar header unit token")
	inject := flag.String("inject", "", "anomaly to inject: zero_wind, high_wind, or dark_solar")
	seed := flag.Int64("seed", 1, "random seed for reproducible fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	format, err := parseFormat(*formatName)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	rng := rand.New(rand.NewSource(*seed))

	weatherPath := *out + "_extract.out"
	if err := writeWeather(weatherPath, format, *records, *startHours, *rate, *inject, rng); err != nil {
		return fmt.Errorf("writing %s: %w", weatherPath, err)
	}
	log.Printf("%s: %d records (%s)", weatherPath, *records, format)

	solarPath := *out + "_solar.csv"
	if err := writeSolar(solarPath, *records, *startHours, *rate, *solarUnit, *inject, rng); err != nil {
		return fmt.Errorf("writing %s: %w", solarPath, err)
	}
	log.Printf("%s: %d records", solarPath, *records)

	missionPath := *out + "_mission.csv"
	if err := writeMission(missionPath, *startHours, float64(*records)/(*rate)); err != nil {
		return fmt.Errorf("writing %s: %w", missionPath, err)
	}
	log.Printf("%s: mission window written", missionPath)

	return nil
}

func parseFormat(name string) (domain.Format, error) {
	switch name {
	case "nv5":
		return domain.FormatNV5, nil
	case "geo1_old":
		return domain.FormatGeo1Old, nil
	case "geo1_new":
		return domain.FormatGeo1New, nil
	default:
		return 0, fmt.Errorf("unknown format %q", name)
	}
}

// header renders the two-line banner plus a units row the geo1 probes write
// before their data. The nv5 probe is headerless.
func header(schema domain.Schema) string {
	if schema.HeaderRows == 0 {
		return ""
	}
	return "AIMMS-20 Meteorological Data\n" +
		strings.Join(schema.Fields, "  ") + "\n" +
		"(hrs) (C)  (%)  (Pa)  (m/s)  (m/s)  (deg)  (deg)  (m)\n"
}

func writeWeather(path string, format domain.Format, records int, startHours, rate float64, inject string, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	schema := format.Schema()
	if _, err := f.WriteString(header(schema)); err != nil {
		return err
	}

	for i := 0; i < records; i++ {
		t := startHours + float64(i)/(rate*3600)

		uw := 3.0 + rng.NormFloat64()*0.5
		vw := 4.0 + rng.NormFloat64()*0.5
		switch {
		case inject == "zero_wind" && i >= records/2 && i < records/2+90:
			uw, vw = 0, 0
		case inject == "high_wind" && i >= records/2 && i < records/2+90:
			uw, vw = 22.0, 22.0
		}

		fields := make([]string, len(schema.Fields))
		for j := range fields {
			fields[j] = "0.0"
		}
		fields[0] = fmt.Sprintf("%.7f", t)
		fields[1] = fmt.Sprintf("%.3f", 21.0+rng.NormFloat64()*0.3)
		fields[2] = fmt.Sprintf("%.3f", 45.0+rng.NormFloat64()*1.5)
		fields[3] = fmt.Sprintf("%.1f", 91325.0+rng.NormFloat64()*40)
		fields[4] = fmt.Sprintf("%.4f", uw)
		fields[5] = fmt.Sprintf("%.4f", vw)
		fields[6] = fmt.Sprintf("%.6f", 49.25+float64(i)*0.00001)
		fields[7] = fmt.Sprintf("%.6f", -123.10-float64(i)*0.00001)
		fields[8] = fmt.Sprintf("%.1f", 1200.0+30*math.Sin(float64(i)/300))

		if _, err := fmt.Fprintln(f, strings.Join(fields, "  ")); err != nil {
			return err
		}
	}
	return nil
}

func writeSolar(path string, records int, startHours, rate float64, unit, inject string, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "Date,Time,%s\n", unit); err != nil {
		return err
	}

	for i := 0; i < records; i++ {
		tod := domain.NormalizeDecimalHours(startHours) +
			time.Duration(float64(i)/rate*float64(time.Second))

		// Midday photon flux with slow cloud variation.
		v := 600.0 + 80*math.Sin(float64(i)/600) + rng.NormFloat64()*10
		if inject == "dark_solar" && i >= records/2 && i < records/2+120 {
			v = 0
		}

		if _, err := fmt.Fprintf(f, "2026-03-14,%s,%.2f\n", domain.FormatTimeOfDay(tod), v); err != nil {
			return err
		}
	}
	return nil
}

// writeMission emits a mission CSV whose first-column timestamps bracket the
// flight, the shape the survey planning export uses.
func writeMission(path string, startHours, durationSec float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	start := domain.NormalizeDecimalHours(startHours)
	end := start + time.Duration(durationSec*float64(time.Second))

	if _, err := fmt.Fprintln(f, "Line,Plan,Notes"); err != nil {
		return err
	}
	for _, tod := range []time.Duration{start, start + (end-start)/2, end} {
		if _, err := fmt.Fprintf(f, "%s,line,planned\n", domain.FormatTimeOfDay(tod)); err != nil {
			return err
		}
	}
	return nil
}
