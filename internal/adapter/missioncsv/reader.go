// Package missioncsv derives the survey mission window from the lidar
// mission CSV that accompanies a flight. The first column carries per-line
// UTC timestamps; the mission window is their minimum and maximum.
package missioncsv

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aerosurvey/probe-qc/internal/domain"
)

// Reader loads mission CSV files.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a mission CSV reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// Window extracts the mission window from the CSV at path. Rows whose first
// field does not parse as an HH:MM:SS.ffffff timestamp are skipped, which
// covers the header row and any trailing summary lines.
func (r *Reader) Window(path string) (domain.MissionWindow, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.MissionWindow{}, fmt.Errorf("open mission csv: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return domain.MissionWindow{}, fmt.Errorf("read mission csv %s: %w", path, err)
	}

	var (
		start, end time.Duration
		found      bool
	)
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		t, err := domain.ParseClockTime(strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}
		if !found || t < start {
			start = t
		}
		if !found || t > end {
			end = t
		}
		found = true
	}

	if !found {
		return domain.MissionWindow{}, fmt.Errorf("mission csv %s: no parsable timestamps", path)
	}

	r.logger.Debug("mission window resolved", "path", path,
		"start", domain.FormatTimeOfDay(start), "end", domain.FormatTimeOfDay(end))

	return domain.MissionWindow{Start: start, End: end}, nil
}
