package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the QC pipeline.
type Metrics struct {
	FilesProcessed   *prometheus.CounterVec // labels: kind={weather,solar}, outcome={success,error}
	RecordsParsed    prometheus.Counter
	SchemaMismatches prometheus.Counter
	FlagsRaised      *prometheus.CounterVec // label: kind=<anomaly rule>
	PipelineRunning  prometheus.Gauge

	RunDuration       *prometheus.HistogramVec // label: kind={weather,solar}
	ExtractorDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "probe_qc",
			Name:      "files_processed_total",
			Help:      "Total probe files processed by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "probe_qc",
			Name:      "records_parsed_total",
			Help:      "Total data rows parsed into canonical records.",
		}),
		SchemaMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "probe_qc",
			Name:      "schema_mismatches_total",
			Help:      "Total files rejected for a row schema mismatch.",
		}),
		FlagsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "probe_qc",
			Name:      "flags_raised_total",
			Help:      "Anomaly flags raised by rule kind.",
		}, []string{"kind"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "probe_qc",
			Name:      "pipeline_running",
			Help:      "1 when a QC run is active, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "probe_qc",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete file QC run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		ExtractorDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "probe_qc",
			Name:      "extractor_duration_seconds",
			Help:      "Duration of the external AIMMS extractor invocation.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
	}

	prometheus.MustRegister(
		m.FilesProcessed,
		m.RecordsParsed,
		m.SchemaMismatches,
		m.FlagsRaised,
		m.PipelineRunning,
		m.RunDuration,
		m.ExtractorDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesProcessed:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "probe_qc", Name: "files_processed_total"}, []string{"kind", "outcome"}),
		RecordsParsed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "probe_qc", Name: "records_parsed_total"}),
		SchemaMismatches:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "probe_qc", Name: "schema_mismatches_total"}),
		FlagsRaised:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "probe_qc", Name: "flags_raised_total"}, []string{"kind"}),
		PipelineRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "probe_qc", Name: "pipeline_running"}),
		RunDuration:       prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "probe_qc", Name: "run_duration_seconds"}, []string{"kind"}),
		ExtractorDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "probe_qc", Name: "extractor_duration_seconds"}),
	}
}
