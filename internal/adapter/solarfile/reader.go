// Package solarfile reads solar irradiance probe CSV exports. The header's
// unit token decides whether the value channel needs conversion to
// micromoles, which is done here so downstream stages only ever see the
// canonical unit.
package solarfile

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aerosurvey/probe-qc/internal/domain"
)

// Reader loads solar probe CSV files.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a solar file reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read parses the solar CSV at path. Line 1 is a header whose third field
// names the irradiance unit; remaining lines carry Date, LocalTime, and the
// irradiance value. Watts are converted to micromoles in the returned
// series; an unrecognized unit token passes values through with a warning.
func (r *Reader) Read(path string) (domain.SolarSeries, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.SolarSeries{}, false, fmt.Errorf("open solar file: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return domain.SolarSeries{}, false, fmt.Errorf("read solar file %s: %w", path, err)
	}
	if len(rows) < 2 {
		return domain.SolarSeries{}, false, fmt.Errorf("solar file %s: no data rows", path)
	}

	unitToken := strings.TrimSpace(rows[0][2])
	unit := domain.ParseSolarUnit(unitToken)
	if unit == domain.SolarUnitUnknown {
		r.logger.Warn("unrecognized irradiance unit, assuming micromoles",
			"path", path, "token", unitToken)
	}

	series := domain.SolarSeries{Unit: unit}
	for i, row := range rows[1:] {
		tod, err := domain.ParseClockTime(strings.TrimSpace(row[1]))
		if err != nil {
			return domain.SolarSeries{}, false, fmt.Errorf("solar file %s line %d: %w", path, i+2, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return domain.SolarSeries{}, false, fmt.Errorf("solar file %s line %d: irradiance: %w", path, i+2, err)
		}
		series.Records = append(series.Records, domain.SolarRecord{
			Date:      strings.TrimSpace(row[0]),
			LocalTime: tod,
			Value:     v,
		})
	}

	converted := false
	if values, ok := domain.ConvertIrradiance(series.Values(), unit); ok {
		for i := range series.Records {
			series.Records[i].Value = values[i]
		}
		converted = true
		r.logger.Debug("irradiance converted to micromoles", "path", path, "unit", unit.String())
	}

	return series, converted, nil
}
