package probefile

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerosurvey/probe-qc/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// row renders a whitespace-separated data row with the given leading values,
// zero-padded to the schema's field count.
func row(format domain.Format, leading ...string) string {
	fields := make([]string, len(format.Schema().Fields))
	for i := range fields {
		fields[i] = "0.0"
	}
	copy(fields, leading)
	return strings.Join(fields, "  ")
}

const (
	geo1OldHeader = "AIMMS-20 Meteorological Data\n" +
		"Time  Temp  RH  P_stat  Uw  Vw  Lat  Long  Z  Ui  Vi  Wi  Roll  Pitch  Heading  TAS  Ww  AoS  P_beta  P_alpha  C_p  W_spd  W_dir\n" +
		"(hrs) (C)  (%)  (Pa)  (m/s)  (m/s)  (deg)  (deg)  (m)\n"

	geo1NewHeader = "AIMMS-20 Meteorological Data\n" +
		"Time  Temp  RH  P_stat  Uw  Vw  Lat  Long  Z  Ui  Vi  Wi  Roll  Pitch  Heading  TAS  Ww  AoS  P_beta  P_alpha  W_spd  W_dir  Turb  LoadF\n" +
		"(hrs) (C)  (%)  (Pa)  (m/s)  (m/s)  (deg)  (deg)  (m)\n"
)

func TestReader_NV5(t *testing.T) {
	content := row(domain.FormatNV5, "15.5", "21.3", "45.2", "91325.0", "3.0", "4.0") + "\n" +
		row(domain.FormatNV5, "15.5002778", "21.4") + "\n"
	path := writeFile(t, "flight1.out", content)

	series, err := NewReader(discardLogger()).Read(path)
	require.NoError(t, err)

	assert.Equal(t, domain.FormatNV5, series.Format)
	require.Len(t, series.Records, 2)
	assert.Equal(t, 15*time.Hour+30*time.Minute, series.Records[0].Time)
	assert.Equal(t, 21.3, series.Records[0].Temp)
	assert.Equal(t, 4.0, series.Records[0].Vw)
}

func TestReader_Geo1Old(t *testing.T) {
	content := geo1OldHeader +
		row(domain.FormatGeo1Old, "14.0", "22.1", "50.0", "90000") + "\n"
	path := writeFile(t, "flight2.out", content)

	series, err := NewReader(discardLogger()).Read(path)
	require.NoError(t, err)

	assert.Equal(t, domain.FormatGeo1Old, series.Format)
	require.Len(t, series.Records, 1)
	assert.Equal(t, 14*time.Hour, series.Records[0].Time)
	assert.Equal(t, 90000.0, series.Records[0].Pres)
}

func TestReader_Geo1New(t *testing.T) {
	content := geo1NewHeader +
		row(domain.FormatGeo1New, "9.25", "18.0") + "\n" +
		row(domain.FormatGeo1New, "9.2502778", "18.1") + "\n"
	path := writeFile(t, "flight3.out", content)

	series, err := NewReader(discardLogger()).Read(path)
	require.NoError(t, err)

	assert.Equal(t, domain.FormatGeo1New, series.Format)
	assert.Len(t, series.Records, 2)
}

func TestReader_BlankLinesSkipped(t *testing.T) {
	content := row(domain.FormatNV5, "15.5") + "\n\n" +
		row(domain.FormatNV5, "15.5002778") + "\n   \n"
	path := writeFile(t, "gaps.out", content)

	series, err := NewReader(discardLogger()).Read(path)
	require.NoError(t, err)
	assert.Len(t, series.Records, 2)
}

func TestReader_SchemaMismatchFailsFile(t *testing.T) {
	content := row(domain.FormatNV5, "15.5") + "\n" +
		"15.5002778  21.3\n"
	path := writeFile(t, "short.out", content)

	_, err := NewReader(discardLogger()).Read(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReader_HeaderOnlyFile(t *testing.T) {
	path := writeFile(t, "empty.out", geo1NewHeader)

	_, err := NewReader(discardLogger()).Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader(discardLogger()).Read(filepath.Join(t.TempDir(), "nope.out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open probe file")
}
