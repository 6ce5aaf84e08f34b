package domain

import "strings"

// SolarUnit is the irradiance unit token discovered in a solar CSV header.
type SolarUnit int

const (
	SolarUnitUnknown SolarUnit = iota
	SolarUnitWattsPerM2
	SolarUnitMicromoles
)

func (u SolarUnit) String() string {
	switch u {
	case SolarUnitWattsPerM2:
		return "W/m2"
	case SolarUnitMicromoles:
		return "micromoles"
	default:
		return "unrecognized"
	}
}

// wattsToMicromoles converts solar irradiance in W/m2 to photon flux in
// micromoles per square meter per second (approximate for sunlight).
const wattsToMicromoles = 4.57

// ParseSolarUnit classifies the unit token from the third comma-separated
// field of a solar file's header line. Older loggers write the micromole
// token with a mangled mu, so both spellings are accepted.
func ParseSolarUnit(token string) SolarUnit {
	switch strings.TrimSpace(token) {
	case "watts/m2", "W/m2":
		return SolarUnitWattsPerM2
	case "µmoles", "Î¼moles", "micromoles":
		return SolarUnitMicromoles
	default:
		return SolarUnitUnknown
	}
}

// ConvertIrradiance reconciles an irradiance series to micromoles,
// returning a new slice and whether a conversion was applied. An
// unrecognized unit is passed through unchanged; the caller surfaces the
// warning. Micromole input is also passed through, so the result is always
// safe to treat as canonical.
func ConvertIrradiance(values []float64, unit SolarUnit) ([]float64, bool) {
	out := make([]float64, len(values))
	if unit == SolarUnitWattsPerM2 {
		for i, v := range values {
			out[i] = v * wattsToMicromoles
		}
		return out, true
	}
	copy(out, values)
	return out, false
}
