package domain

import (
	"time"
)

// Record is the format-independent representation of one meteorological
// probe sample. Time is the normalized time of day since UTC midnight.
type Record struct {
	Time time.Duration
	Temp float64 // deg C
	RH   float64 // percent
	Pres float64 // static pressure, Pa
	Uw   float64 // east wind component, m/s
	Vw   float64 // north wind component, m/s
	Lat  float64
	Long float64
	Z    float64 // MSL altitude
}

// Series is an ordered-by-arrival sequence of canonical records from a
// single probe file. All records share one Format. The series is immutable
// once built; smoothing and statistics produce derived slices instead of
// mutating it.
type Series struct {
	Format  Format
	Records []Record
}

// Times returns the time of day of every record, in arrival order.
func (s *Series) Times() []time.Duration {
	out := make([]time.Duration, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Time
	}
	return out
}

// Channel extracts one measurement channel as a fresh slice.
func (s *Series) Channel(c ChannelID) []float64 {
	out := make([]float64, len(s.Records))
	for i, r := range s.Records {
		switch c {
		case ChannelTemp:
			out[i] = r.Temp
		case ChannelRH:
			out[i] = r.RH
		case ChannelPressure:
			out[i] = r.Pres
		case ChannelUw:
			out[i] = r.Uw
		case ChannelVw:
			out[i] = r.Vw
		case ChannelAltitude:
			out[i] = r.Z
		}
	}
	return out
}

// ChannelID names a measurement channel of the meteorological series.
type ChannelID string

const (
	ChannelTemp     ChannelID = "Temp"
	ChannelRH       ChannelID = "RH"
	ChannelPressure ChannelID = "P_stat"
	ChannelUw       ChannelID = "Uw"
	ChannelVw       ChannelID = "Vw"
	ChannelAltitude ChannelID = "Z"
)

// SolarRecord is one sample from the solar irradiance probe. Value is in
// canonical micromoles per square meter per second after unit conversion.
type SolarRecord struct {
	Date      string
	LocalTime time.Duration
	Value     float64
}

// SolarSeries holds the samples of one solar probe file plus the unit token
// discovered in its header.
type SolarSeries struct {
	Unit    SolarUnit
	Records []SolarRecord
}

// Times returns the local wall-clock time of every solar record.
func (s *SolarSeries) Times() []time.Duration {
	out := make([]time.Duration, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.LocalTime
	}
	return out
}

// Values returns the irradiance channel as a fresh slice.
func (s *SolarSeries) Values() []float64 {
	out := make([]float64, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Value
	}
	return out
}

// MissionWindow is the companion survey's true collection interval,
// supplied by an external mission-time source. Times of day, UTC.
type MissionWindow struct {
	Start time.Duration
	End   time.Duration
}

// ChannelStats holds the descriptive statistics of one channel, rounded to
// the channel class's display precision.
type ChannelStats struct {
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	StdDev float64
	Window int // smoothing window applied before the stats, in samples
}

// WeatherReport is the QC result for one meteorological probe file.
type WeatherReport struct {
	SourceFile  string
	Format      Format
	RecordCount int

	UTCStart       time.Duration
	UTCEnd         time.Duration
	Duration       time.Duration
	SampleInterval time.Duration

	Temp     ChannelStats
	Pressure ChannelStats
	Humidity ChannelStats
	Wind     ChannelStats // derived wind speed magnitude

	Flags       []Flag
	GeneratedAt time.Time
}

// SolarReport is the QC result for one solar probe file.
type SolarReport struct {
	SourceFile  string
	Unit        SolarUnit
	Converted   bool
	RecordCount int

	LocalStart      time.Duration
	LocalEnd        time.Duration
	UTCStart        time.Duration
	UTCEnd          time.Duration
	Duration        time.Duration
	ImpliedDuration time.Duration
	SampleInterval  time.Duration

	Flux ChannelStats

	Survey      *MissionWindow // nil when no mission source was supplied
	Flags       []Flag
	GeneratedAt time.Time
}
