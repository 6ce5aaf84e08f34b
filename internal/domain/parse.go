package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrSchemaMismatch reports that a probe file's rows do not match the
// detected format. It is fatal for that file's pipeline run.
var ErrSchemaMismatch = errors.New("schema mismatch")

// ParseRow converts one whitespace-split data row into a canonical record.
// The row must carry exactly the schema's field count; tail fields beyond
// the canonical nine are validated for presence and then dropped. The raw
// timestamp is a decimal-hour value and is normalized to a time of day.
func ParseRow(fields []string, schema Schema) (Record, error) {
	if len(fields) != len(schema.Fields) {
		return Record{}, fmt.Errorf("%w: %s row has %d fields, want %d",
			ErrSchemaMismatch, schema.Format, len(fields), len(schema.Fields))
	}

	vals := make([]float64, canonicalFields)
	for i := 0; i < canonicalFields; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: field %s: %v",
				ErrSchemaMismatch, schema.Fields[i], err)
		}
		vals[i] = v
	}

	return Record{
		Time: NormalizeDecimalHours(vals[0]),
		Temp: vals[1],
		RH:   vals[2],
		Pres: vals[3],
		Uw:   vals[4],
		Vw:   vals[5],
		Lat:  vals[6],
		Long: vals[7],
		Z:    vals[8],
	}, nil
}
