package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nv5Row builds a 21-field nv5 data row with the given leading canonical
// values, padded with zeros for the tail fields.
func nv5Row(canonical ...string) []string {
	schema := FormatNV5.Schema()
	row := make([]string, len(schema.Fields))
	for i := range row {
		row[i] = "0"
	}
	copy(row, canonical)
	return row
}

func TestParseRow(t *testing.T) {
	t.Run("nv5 row", func(t *testing.T) {
		row := nv5Row("15.5", "21.3", "45.2", "91325.0", "3.0", "4.0", "49.25", "-123.1", "1200.5")
		rec, err := ParseRow(row, FormatNV5.Schema())
		require.NoError(t, err)

		assert.Equal(t, 15*time.Hour+30*time.Minute, rec.Time)
		assert.Equal(t, 21.3, rec.Temp)
		assert.Equal(t, 45.2, rec.RH)
		assert.Equal(t, 91325.0, rec.Pres)
		assert.Equal(t, 3.0, rec.Uw)
		assert.Equal(t, 4.0, rec.Vw)
		assert.Equal(t, 49.25, rec.Lat)
		assert.Equal(t, -123.1, rec.Long)
		assert.Equal(t, 1200.5, rec.Z)
	})

	t.Run("decimal hours past midnight wrap", func(t *testing.T) {
		rec, err := ParseRow(nv5Row("25.0"), FormatNV5.Schema())
		require.NoError(t, err)
		assert.Equal(t, 1*time.Hour, rec.Time)
	})

	t.Run("geo1 tail fields are validated then dropped", func(t *testing.T) {
		schema := FormatGeo1New.Schema()
		row := make([]string, len(schema.Fields))
		for i := range row {
			row[i] = "1.5"
		}
		rec, err := ParseRow(row, schema)
		require.NoError(t, err)
		assert.Equal(t, 1.5, rec.Temp)
	})

	t.Run("short row is a schema mismatch", func(t *testing.T) {
		_, err := ParseRow([]string{"15.5", "21.3"}, FormatNV5.Schema())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSchemaMismatch)
		assert.Contains(t, err.Error(), "want 21")
	})

	t.Run("long row is a schema mismatch", func(t *testing.T) {
		row := append(nv5Row("15.5"), "extra")
		_, err := ParseRow(row, FormatNV5.Schema())
		assert.ErrorIs(t, err, ErrSchemaMismatch)
	})

	t.Run("non-numeric canonical field", func(t *testing.T) {
		row := nv5Row("15.5", "21.3", "n/a")
		_, err := ParseRow(row, FormatNV5.Schema())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSchemaMismatch)
		assert.Contains(t, err.Error(), "RH")
	})

	t.Run("whitespace-split geo1_old row", func(t *testing.T) {
		schema := FormatGeo1Old.Schema()
		line := "14.25  22.1  50.0  90000  1  2  49  -123  900" +
			strings.Repeat("  0", len(schema.Fields)-canonicalFields)
		rec, err := ParseRow(strings.Fields(line), schema)
		require.NoError(t, err)
		assert.Equal(t, 14*time.Hour+15*time.Minute, rec.Time)
		assert.Equal(t, 90000.0, rec.Pres)
	})
}
