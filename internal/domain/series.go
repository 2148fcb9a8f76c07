package domain

import (
	"fmt"
	"time"
)

// RawDay is one day of raw input as handed over by the fetch collaborator.
// The date is an unparsed string and every numeric field is optional: a nil
// pointer is the explicit missing-value sentinel, never zero.
type RawDay struct {
	Date          string   `json:"date"`
	TempMax       *float64 `json:"temp_max"`
	TempMin       *float64 `json:"temp_min"`
	Precipitation *float64 `json:"precipitation_sum"`
	WindSpeedMax  *float64 `json:"wind_speed_max"`
}

// DailyRecord is one validated calendar day plus the columns the pipeline
// stages append to it. Raw fields are set by the validator; derived fields
// stay nil (or zero for flags) until the owning stage runs.
type DailyRecord struct {
	Date          time.Time `json:"date"`
	TempMax       *float64  `json:"temp_max"`
	TempMin       *float64  `json:"temp_min"`
	Precipitation *float64  `json:"precipitation_sum"`
	WindSpeedMax  *float64  `json:"wind_speed_max"`

	// Feature engine.
	TempMean  *float64 `json:"temp_mean,omitempty"`
	TempRange *float64 `json:"temp_range,omitempty"`
	Year      int      `json:"year,omitempty"`
	Month     int      `json:"month,omitempty"`
	DayOfYear int      `json:"day_of_year,omitempty"`
	Season    string   `json:"season,omitempty"`

	// Rolling statistics.
	TempMeanRoll *float64 `json:"temp_mean_roll,omitempty"`
	PrecipRoll   *float64 `json:"precip_roll,omitempty"`

	// Climatology and anomaly.
	ClimatologyMean *float64 `json:"climatology_mean,omitempty"`
	TempAnomaly     *float64 `json:"temp_anomaly,omitempty"`
	AnomalyCategory string   `json:"anomaly_category,omitempty"`

	// Extreme event flags.
	IsExtremeHeat   bool `json:"is_extreme_heat,omitempty"`
	IsExtremeCold   bool `json:"is_extreme_cold,omitempty"`
	IsExtremePrecip bool `json:"is_extreme_precip,omitempty"`
}

// MonthKey returns the year-month key for the record, e.g. "2023-05".
func (d DailyRecord) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Date.Year(), int(d.Date.Month()))
}

// Series is an ordered run of daily records for a single location, strictly
// increasing by date. Gaps are allowed and are never interpolated; stages
// augment columns but never add or remove rows.
type Series []DailyRecord

// Clone returns a copy of the series so a stage can augment columns without
// mutating its input.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Column extracts the named variable as an optional-value vector, one entry
// per row. Recognized names are the stable column names used on the export
// boundary. The second return is false for an unknown name.
func (s Series) Column(name string) ([]*float64, bool) {
	get, ok := columnAccessors[name]
	if !ok {
		return nil, false
	}
	values := make([]*float64, len(s))
	for i := range s {
		values[i] = get(s[i])
	}
	return values, true
}

// columnAccessors maps stable column names to field accessors. The set covers
// every numeric column a caller may select for correlation or thresholds.
var columnAccessors = map[string]func(DailyRecord) *float64{
	"temp_max":          func(d DailyRecord) *float64 { return d.TempMax },
	"temp_min":          func(d DailyRecord) *float64 { return d.TempMin },
	"precipitation_sum": func(d DailyRecord) *float64 { return d.Precipitation },
	"wind_speed_max":    func(d DailyRecord) *float64 { return d.WindSpeedMax },
	"temp_mean":         func(d DailyRecord) *float64 { return d.TempMean },
	"temp_range":        func(d DailyRecord) *float64 { return d.TempRange },
	"temp_mean_roll":    func(d DailyRecord) *float64 { return d.TempMeanRoll },
	"precip_roll":       func(d DailyRecord) *float64 { return d.PrecipRoll },
	"climatology_mean":  func(d DailyRecord) *float64 { return d.ClimatologyMean },
	"temp_anomaly":      func(d DailyRecord) *float64 { return d.TempAnomaly },
}

// KnownColumn reports whether name is a recognized numeric column.
func KnownColumn(name string) bool {
	_, ok := columnAccessors[name]
	return ok
}

// Float returns a pointer to v, for building optional values.
func Float(v float64) *float64 { return &v }
