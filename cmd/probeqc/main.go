// Command probeqc runs quality control over airborne weather probe data:
// AIMMS meteorological captures and solar irradiance logs, optionally
// reconciled against the lidar survey mission window.
//
// Usage:
//
//	probeqc aimms [flags] FILE...
//	probeqc solar [flags] FILE...
//	probeqc version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aerosurvey/probe-qc/internal/adapter/extractor"
	httpadapter "github.com/aerosurvey/probe-qc/internal/adapter/http"
	kafkaadapter "github.com/aerosurvey/probe-qc/internal/adapter/kafka"
	"github.com/aerosurvey/probe-qc/internal/adapter/kml"
	"github.com/aerosurvey/probe-qc/internal/adapter/missioncsv"
	"github.com/aerosurvey/probe-qc/internal/adapter/probefile"
	"github.com/aerosurvey/probe-qc/internal/adapter/solarfile"
	"github.com/aerosurvey/probe-qc/internal/config"
	"github.com/aerosurvey/probe-qc/internal/domain"
	"github.com/aerosurvey/probe-qc/internal/observability"
	"github.com/aerosurvey/probe-qc/internal/pipeline"
	"github.com/aerosurvey/probe-qc/internal/plot"
	"github.com/aerosurvey/probe-qc/internal/report"
)

const version = "1.2.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "aimms":
		os.Exit(runAimms(os.Args[2:]))
	case "solar":
		os.Exit(runSolar(os.Args[2:]))
	case "version":
		fmt.Println("probeqc " + version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: probeqc <aimms|solar|version> [flags] FILE...")
}

// app bundles the wired collaborators shared by both subcommands.
type app struct {
	cfg     *config.Config
	runner  *pipeline.Runner
	srv     *httpadapter.Server
	writer  *kafkaadapter.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var (
		publisher pipeline.FlagPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("flag publishing enabled", "topic", cfg.KafkaFlagTopic)
	}

	runner := pipeline.NewRunner(
		probefile.NewReader(logger),
		solarfile.NewReader(logger),
		extractor.NewRunner(cfg.ExtractorDir, cfg.ExtractorTimeout, logger),
		missioncsv.NewReader(logger),
		publisher,
		cfg, logger, metrics,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, runner, logger)

	return &app{cfg: cfg, runner: runner, srv: srv, writer: writer, logger: logger, metrics: metrics}, nil
}

func (a *app) close() {
	if a.writer != nil {
		if err := a.writer.Close(); err != nil {
			a.logger.Error("kafka writer close error", "error", err)
		}
	}
}

// run executes fn for every file under a signal-aware context with the
// status server up, and returns the process exit code.
func (a *app) run(files []string, fn func(ctx context.Context, path string) error) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := a.srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown error", "error", err)
		}
	}()

	a.runner.SetTotal(len(files))
	a.metrics.PipelineRunning.Set(1)
	defer a.metrics.PipelineRunning.Set(0)

	failures := 0
	for _, path := range files {
		if ctx.Err() != nil {
			a.logger.Info("interrupted, stopping batch")
			return 1
		}
		if err := fn(ctx, path); err != nil {
			a.logger.Error("QC run failed", "file", path, "error", err)
			failures++
		}
	}
	if failures > 0 {
		a.logger.Error("batch finished with failures", "failed", failures, "total", len(files))
		return 1
	}
	a.logger.Info("batch finished", "total", len(files))
	return 0
}

func runAimms(args []string) int {
	fs := flag.NewFlagSet("aimms", flag.ExitOnError)
	mission := fs.String("mission", "", "lidar mission CSV for coverage reconciliation")
	toolName := fs.String("tool", string(extractor.ToolEKF560), "vendor extraction executable for raw captures")
	fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: probeqc aimms [flags] FILE...")
		return 2
	}

	tool, err := extractor.ParseTool(*toolName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 1
	}
	defer a.close()

	return a.run(fs.Args(), func(ctx context.Context, path string) error {
		rep, series, err := a.runner.RunWeather(ctx, path, *mission, tool)
		if err != nil {
			return err
		}
		return writeWeatherArtifacts(a, rep, series)
	})
}

func runSolar(args []string) int {
	fs := flag.NewFlagSet("solar", flag.ExitOnError)
	mission := fs.String("mission", "", "lidar mission CSV supplying the survey window")
	surveyStart := fs.String("survey-start", "", "survey UTC start time (HH:MM:SS.ffffff)")
	surveyEnd := fs.String("survey-end", "", "survey UTC end time (HH:MM:SS.ffffff)")
	fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: probeqc solar [flags] FILE...")
		return 2
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 1
	}
	defer a.close()

	survey, err := resolveSurvey(a, *mission, *surveyStart, *surveyEnd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return a.run(fs.Args(), func(ctx context.Context, path string) error {
		rep, series, err := a.runner.RunSolar(ctx, path, survey)
		if err != nil {
			return err
		}
		return writeSolarArtifacts(a, rep, series, path)
	})
}

// resolveSurvey builds the survey window from explicit times or a mission
// CSV. Explicit times win; neither given means no reconciliation.
func resolveSurvey(a *app, missionPath, start, end string) (*domain.MissionWindow, error) {
	if start != "" || end != "" {
		if start == "" || end == "" {
			return nil, errors.New("survey-start and survey-end must be given together")
		}
		s, err := domain.ParseClockTime(start)
		if err != nil {
			return nil, fmt.Errorf("survey-start: %w", err)
		}
		e, err := domain.ParseClockTime(end)
		if err != nil {
			return nil, fmt.Errorf("survey-end: %w", err)
		}
		return &domain.MissionWindow{Start: s, End: e}, nil
	}
	if missionPath == "" {
		return nil, nil
	}
	w, err := missioncsv.NewReader(a.logger).Window(missionPath)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Plot names stem from the statistics file; the KML and the solar plot stem
// from the source file name.
func writeWeatherArtifacts(a *app, rep *domain.WeatherReport, series domain.Series) error {
	path := report.WeatherPath(rep.SourceFile, a.cfg.OutputDir)
	if err := report.WriteWeather(path, rep); err != nil {
		return err
	}
	if err := plot.WriteWeatherPlots(strings.TrimSuffix(path, ".txt"), series); err != nil {
		return err
	}
	kmlPath := filepath.Join(a.cfg.OutputDir, fileStem(rep.SourceFile)+".kml")
	if err := kml.Write(kmlPath, series, a.cfg.KMLStride); err != nil {
		return err
	}
	a.logger.Info("weather artifacts written", "report", path)
	return nil
}

func writeSolarArtifacts(a *app, rep *domain.SolarReport, series domain.SolarSeries, sourcePath string) error {
	path := report.SolarPath(sourcePath, a.cfg.OutputDir)
	if err := report.WriteSolar(path, rep); err != nil {
		return err
	}
	plotStem := filepath.Join(a.cfg.OutputDir, fileStem(sourcePath))
	if err := plot.WriteSolarPlot(plotStem, series); err != nil {
		return err
	}
	a.logger.Info("solar artifacts written", "report", path)
	return nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
