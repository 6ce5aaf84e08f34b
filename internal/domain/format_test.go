package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	geo1OldHeader = "Time  Temp.  RH  P_stat  Uw  Vw  Lat.  Long.  Z  Ui  Vi  Wi  Roll  Pitch  Heading  TAS  Ww  AoS  P_beta  P_alpha  C_p  W_spd  W_dir"
	geo1NewHeader = "Time Temp. RH P_stat Uw Vw Lat. Long. Z Ui Vi Wi Roll Pitch Heading TAS Ww AoS P_beta P_alpha W_spd W_dir Turb LoadF."
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Format
	}{
		{"old geo1 header", geo1OldHeader, FormatGeo1Old},
		{"new geo1 header", geo1NewHeader, FormatGeo1New},
		{"tab separated new header", "Time\tTemp.\tRH\tP_stat\tUw\tVw\tLat.\tLong.\tZ\tUi\tVi\tWi\tRoll\tPitch\tHeading\tTAS\tWw\tAoS\tP_beta\tP_alpha\tW_spd\tW_dir\tTurb\tLoadF.", FormatGeo1New},
		{"headerless data row", "13.50  21.3  45.0  91234.0  1.2  -0.4  45.1  -122.8  512.0  0 0 0 0 0 0 0 0 0 0 0 0", FormatNV5},
		{"empty line", "", FormatNV5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.line))
		})
	}
}

// The geo1_new signature shares its leading tokens with geo1_old, so the
// more specific signature must win. A detector checking geo1_old first
// would misclassify every new-style file.
func TestDetectFormat_OrderSensitivity(t *testing.T) {
	got := DetectFormat(geo1NewHeader)
	require.Equal(t, FormatGeo1New, got)
	require.NotEqual(t, FormatGeo1Old, got)
}

func TestSchema(t *testing.T) {
	tests := []struct {
		format     Format
		fields     int
		headerRows int
	}{
		{FormatGeo1Old, 23, 3},
		{FormatGeo1New, 24, 3},
		{FormatNV5, 21, 0},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			s := tt.format.Schema()
			assert.Equal(t, tt.format, s.Format)
			assert.Len(t, s.Fields, tt.fields)
			assert.Equal(t, tt.headerRows, s.HeaderRows)
			// Every schema shares the canonical leading fields.
			assert.Equal(t, []string{"Time", "Temp", "RH", "P_stat", "Uw", "Vw", "Lat", "Long", "Z"}, s.Fields[:9])
		})
	}
}
