package domain

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the headline statistics for a series, computed over present
// values only. A field is missing when its variable has no present values.
type Summary struct {
	Days  int       `json:"days"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Temperature   TemperatureSummary   `json:"temperature"`
	Precipitation PrecipitationSummary `json:"precipitation"`
	Wind          WindSummary          `json:"wind"`
}

type TemperatureSummary struct {
	MeanAvg     *float64 `json:"mean_avg"`
	MeanMax     *float64 `json:"mean_max"`
	MeanMin     *float64 `json:"mean_min"`
	AbsoluteMax *float64 `json:"absolute_max"`
	AbsoluteMin *float64 `json:"absolute_min"`
}

type PrecipitationSummary struct {
	Total     *float64 `json:"total"`
	MeanDaily *float64 `json:"mean_daily"`
	MaxDaily  *float64 `json:"max_daily"`
	RainDays  int      `json:"rain_days"`
}

type WindSummary struct {
	MeanMax     *float64 `json:"mean_max"`
	AbsoluteMax *float64 `json:"absolute_max"`
}

// Summarize computes the summary statistics for a series that has been
// through the feature engine.
func Summarize(s Series) Summary {
	sum := Summary{Days: len(s)}
	if len(s) > 0 {
		sum.Start = s[0].Date
		sum.End = s[len(s)-1].Date
	}

	tmean := presentValues(s, func(d DailyRecord) *float64 { return d.TempMean })
	tmax := presentValues(s, func(d DailyRecord) *float64 { return d.TempMax })
	tmin := presentValues(s, func(d DailyRecord) *float64 { return d.TempMin })
	precip := presentValues(s, func(d DailyRecord) *float64 { return d.Precipitation })
	wind := presentValues(s, func(d DailyRecord) *float64 { return d.WindSpeedMax })

	if len(tmean) > 0 {
		sum.Temperature.MeanAvg = Float(stat.Mean(tmean, nil))
	}
	if len(tmax) > 0 {
		sum.Temperature.MeanMax = Float(stat.Mean(tmax, nil))
		sum.Temperature.AbsoluteMax = Float(floats.Max(tmax))
	}
	if len(tmin) > 0 {
		sum.Temperature.MeanMin = Float(stat.Mean(tmin, nil))
		sum.Temperature.AbsoluteMin = Float(floats.Min(tmin))
	}
	if len(precip) > 0 {
		sum.Precipitation.Total = Float(floats.Sum(precip))
		sum.Precipitation.MeanDaily = Float(stat.Mean(precip, nil))
		sum.Precipitation.MaxDaily = Float(floats.Max(precip))
		for _, v := range precip {
			if v > 0 {
				sum.Precipitation.RainDays++
			}
		}
	}
	if len(wind) > 0 {
		sum.Wind.MeanMax = Float(stat.Mean(wind, nil))
		sum.Wind.AbsoluteMax = Float(floats.Max(wind))
	}
	return sum
}
