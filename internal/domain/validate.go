package domain

import (
	"fmt"
	"time"
)

// Physical plausibility bounds. Values outside these are treated as sensor
// or archive defects: converted to missing and reported as warnings.
const (
	minPlausibleTempC = -90.0
	maxPlausibleTempC = 60.0
)

const dateLayout = "2006-01-02"

// ValidateSeries checks the raw input shape and converts it into a Series.
// Dates must parse and be strictly increasing; numeric fields outside
// physically plausible bounds are converted to missing and recorded as
// warnings rather than failing the whole request. An empty input is fatal.
func ValidateSeries(raw []RawDay) (Series, []Warning, error) {
	if len(raw) == 0 {
		return nil, nil, ErrEmptySeries
	}

	series := make(Series, 0, len(raw))
	var warnings []Warning
	var prev time.Time

	for i, r := range raw {
		date, err := time.ParseInLocation(dateLayout, r.Date, time.UTC)
		if err != nil {
			return nil, nil, &ValidationError{Row: i, Field: "date", Msg: fmt.Sprintf("cannot parse %q", r.Date)}
		}
		if i > 0 && !date.After(prev) {
			return nil, nil, &ValidationError{Row: i, Field: "date", Msg: fmt.Sprintf("%s does not increase over %s", r.Date, prev.Format(dateLayout))}
		}
		prev = date

		rec := DailyRecord{Date: date}
		rec.TempMax = boundedValue(r.TempMax, minPlausibleTempC, maxPlausibleTempC, r.Date, "temp_max", &warnings)
		rec.TempMin = boundedValue(r.TempMin, minPlausibleTempC, maxPlausibleTempC, r.Date, "temp_min", &warnings)
		rec.Precipitation = nonNegativeValue(r.Precipitation, r.Date, "precipitation_sum", &warnings)
		rec.WindSpeedMax = nonNegativeValue(r.WindSpeedMax, r.Date, "wind_speed_max", &warnings)
		series = append(series, rec)
	}

	return series, warnings, nil
}

// boundedValue passes v through when it is missing or within [lo, hi];
// otherwise it returns missing and appends a warning.
func boundedValue(v *float64, lo, hi float64, date, field string, warnings *[]Warning) *float64 {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		*warnings = append(*warnings, Warning{
			Date:  date,
			Field: field,
			Msg:   fmt.Sprintf("implausible value %g outside [%g, %g], treated as missing", *v, lo, hi),
		})
		return nil
	}
	return v
}

// nonNegativeValue converts negative values of physically non-negative
// quantities to missing with a warning.
func nonNegativeValue(v *float64, date, field string, warnings *[]Warning) *float64 {
	if v == nil {
		return nil
	}
	if *v < 0 {
		*warnings = append(*warnings, Warning{
			Date:  date,
			Field: field,
			Msg:   fmt.Sprintf("negative value %g, treated as missing", *v),
		})
		return nil
	}
	return v
}
