package domain

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RollingStat selects the reducer used for the precipitation rolling column.
type RollingStat string

const (
	RollingMean RollingStat = "mean"
	RollingSum  RollingStat = "sum"
)

// DefaultWindow is the rolling window size used when the caller does not
// choose one.
const DefaultWindow = 7

// AddRolling appends trailing rolling statistics over a window of size
// window, inclusive of the current day: a rolling mean of temp_mean, and a
// rolling mean or sum (per precipStat) of precipitation_sum.
//
// The first window-1 rows are computed over the available prefix rather than
// marked missing. Missing source values inside a window are excluded from
// both numerator and denominator; a window with no present values yields a
// missing rolling value.
func AddRolling(s Series, window int, precipStat RollingStat) (Series, error) {
	if window < 1 {
		return nil, &ConfigurationError{Field: "window", Msg: fmt.Sprintf("must be >= 1, got %d", window)}
	}
	if precipStat != RollingMean && precipStat != RollingSum {
		return nil, &ConfigurationError{Field: "precip_stat", Msg: fmt.Sprintf("must be %q or %q, got %q", RollingMean, RollingSum, precipStat)}
	}

	out := s.Clone()
	for i := range out {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		out[i].TempMeanRoll = windowReduce(out[lo:i+1], func(d DailyRecord) *float64 { return d.TempMean }, RollingMean)
		out[i].PrecipRoll = windowReduce(out[lo:i+1], func(d DailyRecord) *float64 { return d.Precipitation }, precipStat)
	}
	return out, nil
}

// windowReduce reduces the present values of one variable across a window.
// Returns missing when every value in the window is missing.
func windowReduce(window []DailyRecord, get func(DailyRecord) *float64, reducer RollingStat) *float64 {
	values := make([]float64, 0, len(window))
	for _, d := range window {
		if v := get(d); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	if reducer == RollingSum {
		return Float(floats.Sum(values))
	}
	return Float(stat.Mean(values, nil))
}
