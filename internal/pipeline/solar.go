package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/aerosurvey/probe-qc/internal/domain"
)

// RunSolar executes the full QC pipeline for one solar irradiance file.
// Local wall-clock times are shifted to UTC by the configured offset before
// comparison against the survey window; survey may be nil.
func (r *Runner) RunSolar(ctx context.Context, path string, survey *domain.MissionWindow) (*domain.SolarReport, domain.SolarSeries, error) {
	start := time.Now()
	report, series, err := r.runSolar(ctx, path, survey)
	r.observeRun("solar", start, err)
	return report, series, err
}

func (r *Runner) runSolar(ctx context.Context, path string, survey *domain.MissionWindow) (*domain.SolarReport, domain.SolarSeries, error) {
	series, converted, err := r.solar.Read(path)
	if err != nil {
		return nil, domain.SolarSeries{}, err
	}
	r.metrics.RecordsParsed.Add(float64(len(series.Records)))

	times := series.Times()
	interval := domain.MedianInterval(times)
	window := domain.WindowSize(r.cfg.SolarSmoothing, interval)

	flux := domain.MovingAverage(series.Values(), window)

	localStart := times[0]
	localEnd := times[len(times)-1]
	utcStart := domain.ToUTC(localStart, r.cfg.UTCOffsetHours)
	utcEnd := domain.ToUTC(localEnd, r.cfg.UTCOffsetHours)

	// Each record covers one sample interval; on a gap-free series the
	// covered duration and the record-count-implied duration agree exactly.
	duration := localEnd - localStart + interval
	implied := time.Duration(len(series.Records)) * interval

	thresholds := r.cfg.Thresholds()
	flags := thresholds.CheckSolar(flux)
	if f, ok := thresholds.CheckTiming(duration, implied); ok {
		flags = append(flags, f)
	}
	if survey != nil {
		flags = append(flags, domain.CheckSurveyWindow(utcStart, utcEnd, *survey)...)
	}

	report := &domain.SolarReport{
		SourceFile:  filepath.Base(path),
		Unit:        series.Unit,
		Converted:   converted,
		RecordCount: len(series.Records),

		LocalStart:      localStart,
		LocalEnd:        localEnd,
		UTCStart:        utcStart,
		UTCEnd:          utcEnd,
		Duration:        duration,
		ImpliedDuration: implied,
		SampleInterval:  interval,

		Flux: statsFor(flux, domain.PrecisionSolar, window),

		Survey:      survey,
		Flags:       flags,
		GeneratedAt: domain.Now(),
	}

	r.publish(ctx, report.SourceFile, "solar", flags)

	r.logger.Info("solar QC complete",
		"file", report.SourceFile,
		"unit", report.Unit.String(),
		"converted", converted,
		"records", report.RecordCount,
		"flags", len(flags))

	return report, series, nil
}
