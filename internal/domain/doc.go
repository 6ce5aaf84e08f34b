// Package domain models airborne weather probe data and the pure QC
// pipeline stages that operate on it.
//
// # Data Sources
//
// Meteorological records come from a helicopter-mounted Aventech AIMMS
// probe (https://aventech.com/products/aimms30.html). The vendor extractor
// produces a whitespace-delimited text file whose column layout varies by
// probe generation:
//
//	geo1_old (3 header rows, row 2 lists the fields):
//	  Time Temp RH P_stat Uw Vw Lat Long Z Ui Vi Wi Roll Pitch Heading TAS Ww
//	  AoS P_beta P_alpha C_p W_spd W_dir
//	geo1_new (3 header rows):
//	  same leading fields, tail AoS P_beta P_alpha W_spd W_dir Turb LoadF
//	nv5 (no header at all):
//	  same leading fields, tail DimAoS AoA AoS Wind_Status
//
// Only the leading nine fields (Time through Z) are retained; the tail
// fields differ between generations and are not needed for QC.
//
// Solar irradiance records come from a cabin-mounted probe logging a CSV of
// Date, LocalTime, and an irradiance value. The third field of the CSV
// header names the unit: some sensors log watts per square meter, others
// photon flux in micromoles per square meter per second. All values are
// reconciled to micromoles (1 W/m2 = 4.57 umol/m2/s for sunlight).
//
// # Time Conventions
//
// AIMMS timestamps are decimal hours since UTC midnight and accumulate
// measurement drift, so values above 24 occur. Normalization forces a
// rollover with a single mod-24; files whose records genuinely span a UTC
// midnight therefore produce non-monotonic times of day. Multi-day
// continuity is unsupported. Solar timestamps are wall-clock HH:MM:SS in
// laptop local time with inconsistent leading whitespace; a configured
// offset converts them to UTC for comparison against survey timestamps.
//
// # Anomaly Rules
//
// All rules are advisory. Duration rules convert a qualifying-sample count
// to minute-equivalents at the nominal 1 Hz sample rate and fire strictly
// above one minute; solar value rules fire above 30 records. Thresholds are
// supplied by the caller, not hardcoded, so per-project QC policies can
// adjust them.
package domain
