package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aerosurvey/probe-qc/internal/domain"
)

// Config holds all tool settings, populated from environment variables.
// Input file paths arrive as CLI arguments; everything tunable lives here.
type Config struct {
	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// UTCOffsetHours converts probe local time to UTC. Negative values are
	// west of Greenwich; the default is Pacific Daylight Time.
	UTCOffsetHours float64

	// Smoothing periods per channel, converted to sample windows at runtime
	// from each file's measured sample interval.
	WindSmoothing     time.Duration
	TempSmoothing     time.Duration
	PressureSmoothing time.Duration
	HumiditySmoothing time.Duration
	SolarSmoothing    time.Duration

	// Anomaly rule overrides.
	SamplesPerMinute  float64
	RunMinutes        float64
	IrradianceRecords int
	HighWindSpeed     float64
	TimingDiscrepancy time.Duration
	LowIrradiance     float64
	HighIrradiance    float64

	// Extractor configuration for raw .aim captures.
	ExtractorDir     string
	ExtractorTimeout time.Duration

	OutputDir string
	KMLStride int

	// Kafka flag-event publishing configuration.
	KafkaBrokers   []string
	KafkaFlagTopic string
	KafkaEnabled   bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	offset, err := parseFloat("UTC_OFFSET_HOURS", "-7")
	if err != nil {
		return nil, err
	}

	windSmooth, err := parseDuration("WIND_SMOOTHING", "20s")
	if err != nil {
		return nil, err
	}
	tempSmooth, err := parseDuration("TEMP_SMOOTHING", "10s")
	if err != nil {
		return nil, err
	}
	presSmooth, err := parseDuration("PRESSURE_SMOOTHING", "10s")
	if err != nil {
		return nil, err
	}
	rhSmooth, err := parseDuration("HUMIDITY_SMOOTHING", "10s")
	if err != nil {
		return nil, err
	}
	solarSmooth, err := parseDuration("SOLAR_SMOOTHING", "20s")
	if err != nil {
		return nil, err
	}

	defaults := domain.DefaultThresholds()

	samplesPerMinute, err := parseFloat("SAMPLES_PER_MINUTE", formatFloat(defaults.SamplesPerMinute))
	if err != nil {
		return nil, err
	}
	runMinutes, err := parseFloat("RUN_MINUTES", formatFloat(defaults.RunMinutes))
	if err != nil {
		return nil, err
	}
	irradianceRecords, err := parsePositiveInt("IRRADIANCE_RECORDS", defaults.IrradianceRecords)
	if err != nil {
		return nil, err
	}
	highWind, err := parseFloat("HIGH_WIND_SPEED", formatFloat(defaults.HighWindSpeed))
	if err != nil {
		return nil, err
	}
	timing, err := parseDuration("TIMING_DISCREPANCY", defaults.TimingDiscrepancy.String())
	if err != nil {
		return nil, err
	}
	lowIrr, err := parseFloat("LOW_IRRADIANCE", formatFloat(defaults.LowIrradiance))
	if err != nil {
		return nil, err
	}
	highIrr, err := parseFloat("HIGH_IRRADIANCE", formatFloat(defaults.HighIrradiance))
	if err != nil {
		return nil, err
	}

	extractorTimeout, err := parseDuration("EXTRACTOR_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	kmlStride, err := parsePositiveInt("KML_STRIDE", 10)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,

		UTCOffsetHours: offset,

		WindSmoothing:     windSmooth,
		TempSmoothing:     tempSmooth,
		PressureSmoothing: presSmooth,
		HumiditySmoothing: rhSmooth,
		SolarSmoothing:    solarSmooth,

		SamplesPerMinute:  samplesPerMinute,
		RunMinutes:        runMinutes,
		IrradianceRecords: irradianceRecords,
		HighWindSpeed:     highWind,
		TimingDiscrepancy: timing,
		LowIrradiance:     lowIrr,
		HighIrradiance:    highIrr,

		ExtractorDir:     envOrDefault("EXTRACTOR_DIR", "."),
		ExtractorTimeout: extractorTimeout,

		OutputDir: envOrDefault("OUTPUT_DIR", "."),
		KMLStride: kmlStride,

		KafkaBrokers:   brokers,
		KafkaFlagTopic: envOrDefault("KAFKA_FLAG_TOPIC", "probe-qc-flags"),
		KafkaEnabled:   kafkaEnabled,
	}

	if cfg.UTCOffsetHours < -12 || cfg.UTCOffsetHours > 14 {
		return nil, errors.New("UTC_OFFSET_HOURS must be between -12 and 14")
	}
	if cfg.SamplesPerMinute <= 0 {
		return nil, errors.New("SAMPLES_PER_MINUTE must be positive")
	}
	if cfg.RunMinutes <= 0 {
		return nil, errors.New("RUN_MINUTES must be positive")
	}
	if cfg.HighWindSpeed <= 0 {
		return nil, errors.New("HIGH_WIND_SPEED must be positive")
	}
	if cfg.LowIrradiance >= cfg.HighIrradiance {
		return nil, errors.New("LOW_IRRADIANCE must be below HIGH_IRRADIANCE")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// Thresholds returns the anomaly policy with config overrides applied.
func (c *Config) Thresholds() domain.Thresholds {
	t := domain.DefaultThresholds()
	t.SamplesPerMinute = c.SamplesPerMinute
	t.RunMinutes = c.RunMinutes
	t.IrradianceRecords = c.IrradianceRecords
	t.HighWindSpeed = c.HighWindSpeed
	t.TimingDiscrepancy = c.TimingDiscrepancy
	t.LowIrradiance = c.LowIrradiance
	t.HighIrradiance = c.HighIrradiance
	return t
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, fallback string) (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault(key, fallback), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
