// Package pipeline orchestrates a QC run: read a probe file, normalize and
// smooth its channels, compute statistics, evaluate the anomaly rules, and
// reconcile coverage against the survey mission window. Each run owns its
// data exclusively; independent runs may execute in parallel.
package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aerosurvey/probe-qc/internal/adapter/extractor"
	"github.com/aerosurvey/probe-qc/internal/config"
	"github.com/aerosurvey/probe-qc/internal/domain"
	"github.com/aerosurvey/probe-qc/internal/observability"
)

// WeatherSource reads a meteorological probe file into a record series.
type WeatherSource interface {
	Read(path string) (domain.Series, error)
}

// SolarSource reads a solar probe CSV into a canonical-unit series,
// reporting whether a unit conversion was applied.
type SolarSource interface {
	Read(path string) (domain.SolarSeries, bool, error)
}

// Extractor turns a raw binary probe capture into a readable text file.
type Extractor interface {
	Extract(ctx context.Context, rawPath string, tool extractor.Tool, outDir string) (string, error)
}

// MissionSource resolves the survey mission window from a mission descriptor.
type MissionSource interface {
	Window(path string) (domain.MissionWindow, error)
}

// FlagPublisher forwards raised anomaly flags to an external consumer.
type FlagPublisher interface {
	PublishFlags(ctx context.Context, events []domain.FlagEvent) error
}

// Runner executes QC runs with shared collaborators and configuration.
type Runner struct {
	weather   WeatherSource
	solar     SolarSource
	extract   Extractor
	missions  MissionSource
	publisher FlagPublisher // nil when publishing is disabled

	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics

	processed atomic.Int64
	total     atomic.Int64
}

// NewRunner creates a Runner. The publisher may be nil; flags are then only
// reported locally.
func NewRunner(weather WeatherSource, solar SolarSource, extract Extractor,
	missions MissionSource, publisher FlagPublisher,
	cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		weather:   weather,
		solar:     solar,
		extract:   extract,
		missions:  missions,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
	}
}

// SetTotal records how many files the current batch will process, for the
// progress endpoint.
func (r *Runner) SetTotal(n int) {
	r.total.Store(int64(n))
	r.processed.Store(0)
}

// Progress implements http.ProgressReporter.
func (r *Runner) Progress() (processed, total int) {
	return int(r.processed.Load()), int(r.total.Load())
}

// missionWindow resolves the survey window, or nil when no mission file was
// supplied or it cannot be read. A missing mission source skips
// reconciliation; it never fails the run.
func (r *Runner) missionWindow(missionPath string) *domain.MissionWindow {
	if missionPath == "" {
		return nil
	}
	w, err := r.missions.Window(missionPath)
	if err != nil {
		r.logger.Warn("mission window unavailable, skipping coverage check", "error", err)
		return nil
	}
	return &w
}

// publish forwards flags when a publisher is configured. Publish failures
// are logged, not fatal: the report on disk is the system of record.
func (r *Runner) publish(ctx context.Context, source, probe string, flags []domain.Flag) {
	for _, f := range flags {
		r.metrics.FlagsRaised.WithLabelValues(string(f.Kind)).Inc()
	}
	if r.publisher == nil || len(flags) == 0 {
		return
	}
	events := domain.FlagEvents(source, probe, flags, domain.Now())
	if err := r.publisher.PublishFlags(ctx, events); err != nil {
		r.logger.Error("flag publish failed", "source", source, "error", err)
	}
}

func (r *Runner) observeRun(kind string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	r.metrics.FilesProcessed.WithLabelValues(kind, outcome).Inc()
	r.metrics.RunDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	r.processed.Add(1)
}
