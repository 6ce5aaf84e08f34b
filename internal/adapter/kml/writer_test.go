package kml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerosurvey/probe-qc/internal/domain"
)

func trackSeries(n int) domain.Series {
	s := domain.Series{Format: domain.FormatNV5}
	for i := 0; i < n; i++ {
		s.Records = append(s.Records, domain.Record{
			Lat:  49 + float64(i),
			Long: -123.1,
			Z:    1200,
		})
	}
	return s
}

func TestRender_Subsamples(t *testing.T) {
	doc := Render(trackSeries(25), 10)

	// Records 0, 10, and 20 survive the stride.
	assert.Equal(t, 3, strings.Count(doc, "-123.1,"))
	assert.Contains(t, doc, "-123.1,49,1200")
	assert.Contains(t, doc, "-123.1,59,1200")
	assert.Contains(t, doc, "-123.1,69,1200")
}

func TestRender_WellFormedDocument(t *testing.T) {
	doc := Render(trackSeries(5), 1)

	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0"`))
	assert.True(t, strings.HasSuffix(doc, "</kml>"))
	assert.Contains(t, doc, "<altitudeMode>absolute</altitudeMode>")
	assert.Contains(t, doc, "AIMMS Trajectory")
}

func TestRender_StrideClamped(t *testing.T) {
	doc := Render(trackSeries(4), 0)
	assert.Equal(t, 4, strings.Count(doc, "-123.1,"))
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.kml")
	require.NoError(t, Write(path, trackSeries(12), 10))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<coordinates>")
}
