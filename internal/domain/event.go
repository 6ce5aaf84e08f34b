package domain

import "time"

// FlagEvent is one raised anomaly flag in its publishable form, tied back
// to the file and probe kind that produced it.
type FlagEvent struct {
	SourceFile string    `json:"source_file"`
	Probe      string    `json:"probe"` // "weather" or "solar"
	Kind       FlagKind  `json:"kind"`
	Magnitude  float64   `json:"magnitude"`
	Unit       string    `json:"unit"`
	RaisedAt   time.Time `json:"raised_at"`
}

// FlagEvents expands a flag list into events for one source file.
func FlagEvents(source, probe string, flags []Flag, at time.Time) []FlagEvent {
	events := make([]FlagEvent, len(flags))
	for i, f := range flags {
		events[i] = FlagEvent{
			SourceFile: source,
			Probe:      probe,
			Kind:       f.Kind,
			Magnitude:  f.Magnitude,
			Unit:       f.Unit,
			RaisedAt:   at,
		}
	}
	return events
}
