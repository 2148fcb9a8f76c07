// Package domain implements the analysis core for daily weather series:
// validation, feature derivation, rolling statistics, monthly climatology and
// anomalies, monthly aggregation, extreme-event detection, and pairwise
// correlation. Every function is pure: same series and configuration in,
// same table out, with no clock or I/O dependency.
//
// # Input Conventions
//
// Raw observations arrive from the Open-Meteo ERA5 archive as one row per
// calendar day (UTC) with four numeric fields: temperature_2m_max,
// temperature_2m_min, precipitation_sum, and windspeed_10m_max. A missing
// observation is an explicit nil, never zero; the archive reports null for
// days it has no data for, and zero would silently read as "no rain" or
// "0 °C".
//
// Dates must be strictly increasing with no duplicates. Gaps are legal and
// are preserved: no stage invents rows for absent days.
//
// # Missing-Value Policy
//
// Propagation is deliberately stage-specific:
//
//   - Feature derivation propagates: temp_mean and temp_range are exact
//     quantities, so a missing input makes the output missing.
//   - Rolling statistics ignore: a smoothing window drops missing inputs
//     from both numerator and denominator, going missing only when the
//     whole window is.
//   - Reducers (monthly aggregation, climatology, summary) ignore per
//     variable: a day missing one field still contributes its other fields.
//   - Correlation is pairwise-complete: each pair uses exactly the rows
//     where both of its variables are present.
//
// Unifying these policies would change results; keep them per stage.
//
// # Plausibility Bounds
//
// Validation converts physically impossible values to missing instead of
// failing: temperatures outside [-90, 60] °C (the observed global surface
// records are roughly -89 °C and 57 °C), negative precipitation, negative
// wind speed. Each conversion is reported as a Warning so the caller can
// surface data quality without halting analysis.
//
// # Baselines And Thresholds
//
// The climatological baseline and the extreme-event percentiles are both
// computed over the requested range, not a fixed reference period such as
// 1991-2020. "Extreme" therefore means extreme relative to the selection. A
// fixed reference would be injected as an explicit baseline input, not as
// hidden configuration.
package domain
