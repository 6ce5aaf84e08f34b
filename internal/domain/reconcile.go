package domain

import "time"

// ReconcileCoverage compares the meteorological probe's normalized UTC
// window against the survey mission window and flags stretches of the
// mission the probe cannot have covered. Comparison is on time of day
// only, matching the rest of the day-agnostic model; a mission spanning
// UTC midnight is outside this simplification.
func ReconcileCoverage(probeStart, probeEnd time.Duration, mission MissionWindow) []Flag {
	var flags []Flag
	if mission.Start < probeStart {
		flags = append(flags, Flag{
			Kind:      FlagStartCoverageGap,
			Magnitude: Round((probeStart - mission.Start).Minutes(), 1),
			Unit:      UnitMinutes,
		})
	}
	if mission.End > probeEnd {
		flags = append(flags, Flag{
			Kind:      FlagEndCoverageGap,
			Magnitude: Round((mission.End - probeEnd).Minutes(), 1),
			Unit:      UnitMinutes,
		})
	}
	return flags
}
