package domain

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MonthlyAggregate is one (year, month) row produced by resampling a daily
// series. Reducers are fixed per variable: temperatures average,
// precipitation sums, wind takes the maximum. Days counts the days that
// contributed to at least one variable; it is always >= 1 because months
// with no contributing days are omitted entirely.
type MonthlyAggregate struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	TempMeanAvg  *float64 `json:"temp_mean_avg"`
	TempMaxAvg   *float64 `json:"temp_max_avg"`
	TempMinAvg   *float64 `json:"temp_min_avg"`
	TempRangeAvg *float64 `json:"temp_range_avg"`
	PrecipTotal  *float64 `json:"precipitation_total"`
	WindMax      *float64 `json:"wind_speed_max"`
	Days         int      `json:"days"`
}

// MonthKey returns the aggregate's year-month key, e.g. "2023-05".
func (m MonthlyAggregate) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// AggregateMonthly resamples a daily series to monthly granularity, ordered
// by (year, month) ascending. A day with a missing value for one variable is
// excluded from that variable's reducer but still counts toward the others.
func AggregateMonthly(s Series) []MonthlyAggregate {
	var out []MonthlyAggregate
	for start := 0; start < len(s); {
		year, month := s[start].Date.Year(), int(s[start].Date.Month())
		end := start
		for end < len(s) && s[end].Date.Year() == year && int(s[end].Date.Month()) == month {
			end++
		}
		if agg, ok := reduceMonth(s[start:end], year, month); ok {
			out = append(out, agg)
		}
		start = end
	}
	return out
}

// reduceMonth applies the per-variable reducers over one month's rows.
// Returns false when no day contributes to any variable.
func reduceMonth(days Series, year, month int) (MonthlyAggregate, bool) {
	agg := MonthlyAggregate{Year: year, Month: month}

	agg.TempMeanAvg = reduceColumn(days, func(d DailyRecord) *float64 { return d.TempMean }, meanReduce)
	agg.TempMaxAvg = reduceColumn(days, func(d DailyRecord) *float64 { return d.TempMax }, meanReduce)
	agg.TempMinAvg = reduceColumn(days, func(d DailyRecord) *float64 { return d.TempMin }, meanReduce)
	agg.TempRangeAvg = reduceColumn(days, func(d DailyRecord) *float64 { return d.TempRange }, meanReduce)
	agg.PrecipTotal = reduceColumn(days, func(d DailyRecord) *float64 { return d.Precipitation }, sumReduce)
	agg.WindMax = reduceColumn(days, func(d DailyRecord) *float64 { return d.WindSpeedMax }, maxReduce)

	for _, d := range days {
		if d.TempMean != nil || d.TempMax != nil || d.TempMin != nil || d.Precipitation != nil || d.WindSpeedMax != nil {
			agg.Days++
		}
	}
	if agg.Days == 0 {
		return MonthlyAggregate{}, false
	}
	return agg, true
}

func reduceColumn(days Series, get func(DailyRecord) *float64, reduce func([]float64) float64) *float64 {
	values := make([]float64, 0, len(days))
	for _, d := range days {
		if v := get(d); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return Float(reduce(values))
}

func meanReduce(v []float64) float64 { return stat.Mean(v, nil) }
func sumReduce(v []float64) float64  { return floats.Sum(v) }
func maxReduce(v []float64) float64  { return floats.Max(v) }

// MonthlyColumn extracts a named variable from monthly aggregates as an
// optional-value vector, mirroring Series.Column for the monthly table.
func MonthlyColumn(aggs []MonthlyAggregate, name string) ([]*float64, bool) {
	get, ok := monthlyAccessors[name]
	if !ok {
		return nil, false
	}
	values := make([]*float64, len(aggs))
	for i := range aggs {
		values[i] = get(aggs[i])
	}
	return values, true
}

// monthlyAccessors keys include the daily column names as aliases so the
// same variable list works against either granularity.
var monthlyAccessors = map[string]func(MonthlyAggregate) *float64{
	"temp_mean_avg":       func(m MonthlyAggregate) *float64 { return m.TempMeanAvg },
	"temp_max_avg":        func(m MonthlyAggregate) *float64 { return m.TempMaxAvg },
	"temp_min_avg":        func(m MonthlyAggregate) *float64 { return m.TempMinAvg },
	"temp_range_avg":      func(m MonthlyAggregate) *float64 { return m.TempRangeAvg },
	"precipitation_total": func(m MonthlyAggregate) *float64 { return m.PrecipTotal },
	"temp_mean":           func(m MonthlyAggregate) *float64 { return m.TempMeanAvg },
	"temp_max":            func(m MonthlyAggregate) *float64 { return m.TempMaxAvg },
	"temp_min":            func(m MonthlyAggregate) *float64 { return m.TempMinAvg },
	"temp_range":          func(m MonthlyAggregate) *float64 { return m.TempRangeAvg },
	"precipitation_sum":   func(m MonthlyAggregate) *float64 { return m.PrecipTotal },
	"wind_speed_max":      func(m MonthlyAggregate) *float64 { return m.WindMax },
}

// KnownMonthlyColumn reports whether name resolves against the monthly
// table, either by its monthly name or its daily alias.
func KnownMonthlyColumn(name string) bool {
	_, ok := monthlyAccessors[name]
	return ok
}
