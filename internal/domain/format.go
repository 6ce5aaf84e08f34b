package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Format identifies the record layout of a meteorological probe file.
// It is resolved once by DetectFormat; downstream stages dispatch on the
// resolved value, never on header strings.
type Format int

const (
	// FormatNV5 is the QSI CLASS 2.0 style probe. It writes no header.
	FormatNV5 Format = iota
	// FormatGeo1Old is the older geo1 probe with a C_p column.
	FormatGeo1Old
	// FormatGeo1New is the newer geo1 probe with Turb and LoadF columns.
	FormatGeo1New
)

func (f Format) String() string {
	switch f {
	case FormatGeo1Old:
		return "geo1_old"
	case FormatGeo1New:
		return "geo1_new"
	case FormatNV5:
		return "nv5"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Schema describes how to parse one probe format: the full ordered field
// list of a data row and the number of header rows preceding the data.
// The leading canonicalFields of every schema are identical; only the tail
// differs between probe generations.
type Schema struct {
	Format     Format
	Fields     []string
	HeaderRows int
}

// canonicalFields is the count of leading fields retained for QC:
// Time, Temp, RH, P_stat, Uw, Vw, Lat, Long, Z.
const canonicalFields = 9

var schemas = map[Format]Schema{
	FormatGeo1Old: {
		Format:     FormatGeo1Old,
		HeaderRows: 3,
		Fields: []string{
			"Time", "Temp", "RH", "P_stat", "Uw", "Vw", "Lat", "Long", "Z",
			"Ui", "Vi", "Wi", "Roll", "Pitch", "Heading", "TAS", "Ww",
			"AoS", "P_beta", "P_alpha", "C_p", "W_spd", "W_dir",
		},
	},
	FormatGeo1New: {
		Format:     FormatGeo1New,
		HeaderRows: 3,
		Fields: []string{
			"Time", "Temp", "RH", "P_stat", "Uw", "Vw", "Lat", "Long", "Z",
			"Ui", "Vi", "Wi", "Roll", "Pitch", "Heading", "TAS", "Ww",
			"AoS", "P_beta", "P_alpha", "W_spd", "W_dir", "Turb", "LoadF",
		},
	},
	FormatNV5: {
		Format:     FormatNV5,
		HeaderRows: 0,
		Fields: []string{
			"Time", "Temp", "RH", "P_stat", "Uw", "Vw", "Lat", "Long", "Z",
			"Ui", "Vi", "Wi", "Roll", "Pitch", "Heading", "TAS", "Ww",
			"DimAoS", "AoA", "AoS", "Wind_Status",
		},
	},
}

// Schema returns the parse schema for the format.
func (f Format) Schema() Schema {
	return schemas[f]
}

// Header field signatures, ordered most to least specific. The geo1_new
// signature is a near-superset of geo1_old's leading tokens, so the newer
// one must be tested first or it would match as geo1_old.
const (
	sigGeo1New = "AoS,P_beta,P_alpha,W_spd,W_dir,Turb,LoadF"
	sigGeo1Old = "AoS,P_beta,P_alpha,C_p,W_spd,W_dir"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// DetectFormat resolves the probe format from the second line of the file.
// Header whitespace is inconsistent between probes, so runs of whitespace
// are collapsed before matching. Detection never fails: anything that
// matches neither signature is the headerless nv5 layout, and downstream
// parsing is what reports a genuinely malformed file.
func DetectFormat(secondLine string) Format {
	line := whitespaceRe.ReplaceAllString(strings.TrimSpace(secondLine), ",")
	switch {
	case strings.Contains(line, sigGeo1New):
		return FormatGeo1New
	case strings.Contains(line, sigGeo1Old):
		return FormatGeo1Old
	default:
		return FormatNV5
	}
}
