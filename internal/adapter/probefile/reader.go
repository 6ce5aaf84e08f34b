// Package probefile reads meteorological probe output files from disk and
// turns them into canonical record series. The probe format is detected from
// the file itself; callers never declare it.
package probefile

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aerosurvey/probe-qc/internal/domain"
)

// Reader loads probe files. It is stateless apart from its logger and is
// safe for concurrent use.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a probe file reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read parses the probe file at path into a record series. The format is
// detected from the second line, header rows are skipped per the detected
// schema, and every remaining non-empty line must parse as a data row.
// A row that does not match the schema fails the whole file.
func (r *Reader) Read(path string) (domain.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Series{}, fmt.Errorf("open probe file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return domain.Series{}, fmt.Errorf("read probe file: %w", err)
	}

	var secondLine string
	if len(lines) > 1 {
		secondLine = lines[1]
	}
	format := domain.DetectFormat(secondLine)
	schema := format.Schema()

	r.logger.Debug("probe format detected", "path", path, "format", format.String())

	if len(lines) < schema.HeaderRows {
		return domain.Series{}, fmt.Errorf("probe file %s: %d lines, want at least %d header rows",
			path, len(lines), schema.HeaderRows)
	}

	series := domain.Series{Format: format}
	for i, line := range lines[schema.HeaderRows:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := domain.ParseRow(strings.Fields(line), schema)
		if err != nil {
			return domain.Series{}, fmt.Errorf("probe file %s line %d: %w",
				path, schema.HeaderRows+i+1, err)
		}
		series.Records = append(series.Records, rec)
	}

	if len(series.Records) == 0 {
		return domain.Series{}, fmt.Errorf("probe file %s: no data rows", path)
	}

	return series, nil
}
