package domain

import (
	"fmt"
	"sort"
)

// ExtremeConfig holds the thresholds for the extreme event detector.
// Percentiles are in [0, 100] and are computed over the series itself.
// When PrecipAbsolute is set it takes precedence over PrecipPercentile.
type ExtremeConfig struct {
	HeatPercentile   float64  `json:"heat_percentile"`
	ColdPercentile   float64  `json:"cold_percentile"`
	PrecipPercentile float64  `json:"precip_percentile"`
	PrecipAbsolute   *float64 `json:"precip_absolute,omitempty"`
}

// DefaultExtremeConfig returns the standard thresholds: 95th percentile
// heat, 5th percentile cold, 95th percentile precipitation.
func DefaultExtremeConfig() ExtremeConfig {
	return ExtremeConfig{
		HeatPercentile:   95,
		ColdPercentile:   5,
		PrecipPercentile: 95,
	}
}

// Validate checks the percentile bounds.
func (c ExtremeConfig) Validate() error {
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"heat_percentile", c.HeatPercentile},
		{"cold_percentile", c.ColdPercentile},
		{"precip_percentile", c.PrecipPercentile},
	} {
		if p.value < 0 || p.value > 100 {
			return &ConfigurationError{Field: p.name, Msg: fmt.Sprintf("must be in [0, 100], got %g", p.value)}
		}
	}
	return nil
}

// FlagExtremes appends the is_extreme_heat, is_extreme_cold, and
// is_extreme_precip flag columns. Heat and cold compare temp_mean against
// its own in-series percentiles; precipitation compares against either an
// absolute threshold or its in-series percentile. A variable with fewer than
// two present values yields all-false flags rather than an error.
func FlagExtremes(s Series, cfg ExtremeConfig) (Series, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := s.Clone()

	temps := presentValues(out, func(d DailyRecord) *float64 { return d.TempMean })
	if len(temps) >= 2 {
		heat := Percentile(temps, cfg.HeatPercentile)
		cold := Percentile(temps, cfg.ColdPercentile)
		for i := range out {
			if v := out[i].TempMean; v != nil {
				out[i].IsExtremeHeat = *v > heat
				out[i].IsExtremeCold = *v < cold
			}
		}
	}

	precip := presentValues(out, func(d DailyRecord) *float64 { return d.Precipitation })
	var precipThreshold float64
	var havePrecipThreshold bool
	switch {
	case cfg.PrecipAbsolute != nil:
		precipThreshold = *cfg.PrecipAbsolute
		havePrecipThreshold = true
	case len(precip) >= 2:
		precipThreshold = Percentile(precip, cfg.PrecipPercentile)
		havePrecipThreshold = true
	}
	if havePrecipThreshold {
		for i := range out {
			if v := out[i].Precipitation; v != nil {
				out[i].IsExtremePrecip = *v > precipThreshold
			}
		}
	}

	return out, nil
}

func presentValues(s Series, get func(DailyRecord) *float64) []float64 {
	values := make([]float64, 0, len(s))
	for _, d := range s {
		if v := get(d); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

// Percentile computes the p-th percentile (p in [0, 100]) of values using
// linear interpolation between ranks: rank h = (n-1)*p/100, result
// v[floor(h)] + frac(h)*(v[floor(h)+1]-v[floor(h)]) over the sorted values.
// gonum's quantile kinds interpolate the empirical CDF differently, so the
// rank interpolation is done here. Panics on an empty slice; callers filter
// missing values first.
func Percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	h := float64(len(sorted)-1) * p / 100
	lo := int(h)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
