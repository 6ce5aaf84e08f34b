package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aerosurvey/probe-qc/internal/adapter/extractor"
	"github.com/aerosurvey/probe-qc/internal/domain"
)

// RunWeather executes the full QC pipeline for one meteorological probe
// file. Raw binary captures are extracted first; missionPath may be empty
// to skip coverage reconciliation. The returned series backs the KML and
// plot artifacts.
func (r *Runner) RunWeather(ctx context.Context, path, missionPath string, tool extractor.Tool) (*domain.WeatherReport, domain.Series, error) {
	start := time.Now()
	report, series, err := r.runWeather(ctx, path, missionPath, tool)
	r.observeRun("weather", start, err)
	return report, series, err
}

func (r *Runner) runWeather(ctx context.Context, path, missionPath string, tool extractor.Tool) (*domain.WeatherReport, domain.Series, error) {
	if isRawCapture(path) {
		extractStart := time.Now()
		extracted, err := r.extract.Extract(ctx, path, tool, r.cfg.OutputDir)
		r.metrics.ExtractorDuration.Observe(time.Since(extractStart).Seconds())
		if err != nil {
			return nil, domain.Series{}, fmt.Errorf("extract %s: %w", path, err)
		}
		r.logger.Info("raw capture extracted", "raw", path, "extracted", extracted)
		path = extracted
	}

	series, err := r.weather.Read(path)
	if err != nil {
		if errors.Is(err, domain.ErrSchemaMismatch) {
			r.metrics.SchemaMismatches.Inc()
		}
		return nil, domain.Series{}, err
	}
	r.metrics.RecordsParsed.Add(float64(len(series.Records)))

	times := series.Times()
	interval := domain.MedianInterval(times)

	metWindow := domain.WindowSize(r.cfg.TempSmoothing, interval)
	presWindow := domain.WindowSize(r.cfg.PressureSmoothing, interval)
	rhWindow := domain.WindowSize(r.cfg.HumiditySmoothing, interval)
	windWindow := domain.WindowSize(r.cfg.WindSmoothing, interval)

	temp := domain.MovingAverage(series.Channel(domain.ChannelTemp), metWindow)
	pres := domain.MovingAverage(series.Channel(domain.ChannelPressure), presWindow)
	rh := domain.MovingAverage(series.Channel(domain.ChannelRH), rhWindow)
	uw := domain.MovingAverage(series.Channel(domain.ChannelUw), windWindow)
	vw := domain.MovingAverage(series.Channel(domain.ChannelVw), windWindow)
	windSpeed := domain.WindSpeed(uw, vw)

	utcStart := times[0]
	utcEnd := times[len(times)-1]

	flags := r.cfg.Thresholds().CheckWeather(windSpeed, temp, pres)
	if mission := r.missionWindow(missionPath); mission != nil {
		flags = append(flags, domain.ReconcileCoverage(utcStart, utcEnd, *mission)...)
	}

	report := &domain.WeatherReport{
		SourceFile:  filepath.Base(path),
		Format:      series.Format,
		RecordCount: len(series.Records),

		UTCStart: utcStart,
		UTCEnd:   utcEnd,
		// Each record covers one sample interval, so a 3600-record file at
		// 1 Hz reports a full hour of collection.
		Duration:       utcEnd - utcStart + interval,
		SampleInterval: interval,

		Temp:     statsFor(temp, domain.PrecisionMet, metWindow),
		Pressure: statsFor(pres, domain.PrecisionMet, presWindow),
		Humidity: statsFor(rh, domain.PrecisionMet, rhWindow),
		Wind:     statsFor(windSpeed, domain.PrecisionWind, windWindow),

		Flags:       flags,
		GeneratedAt: domain.Now(),
	}

	r.publish(ctx, report.SourceFile, "weather", flags)

	r.logger.Info("weather QC complete",
		"file", report.SourceFile,
		"format", report.Format.String(),
		"records", report.RecordCount,
		"flags", len(flags))

	return report, series, nil
}

// isRawCapture reports whether the file is an unextracted binary capture.
func isRawCapture(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".aim", ".raw":
		return true
	}
	return false
}

func statsFor(values []float64, decimals, window int) domain.ChannelStats {
	s := domain.Describe(values, decimals)
	s.Window = window
	return s
}
