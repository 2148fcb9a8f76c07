// Package export serializes analysis tables as delimited text. Column order
// and naming are stable for identical configuration, which is the whole
// contract with downstream spreadsheet and charting consumers. Missing
// values render as empty fields.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/weatherinsights/insights-service/internal/domain"
	"github.com/weatherinsights/insights-service/internal/pipeline"
)

// DailyColumns returns the daily table header for a configuration. Optional
// stage columns appear only when their stage ran; rolling column names carry
// the window and reducer so a 14-day sum is never mistaken for a 7-day mean.
func DailyColumns(opts pipeline.Options) []string {
	cols := []string{
		"date", "temp_max", "temp_min", "precipitation_sum", "wind_speed_max",
		"temp_mean", "temp_range", "year", "month", "month_key", "day_of_year", "season",
	}
	if opts.Rolling {
		cols = append(cols,
			fmt.Sprintf("temp_mean_roll_%d", opts.Window),
			fmt.Sprintf("precip_roll_%s_%d", opts.PrecipStat, opts.Window),
		)
	}
	if opts.Anomalies {
		cols = append(cols, "climatology_mean", "temp_anomaly", "anomaly_category")
	}
	return append(cols, "is_extreme_heat", "is_extreme_cold", "is_extreme_precip")
}

// WriteDaily writes the daily table as CSV, one row per day.
func WriteDaily(w io.Writer, s domain.Series, opts pipeline.Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DailyColumns(opts)); err != nil {
		return fmt.Errorf("write daily header: %w", err)
	}

	for _, d := range s {
		row := []string{
			d.Date.Format("2006-01-02"),
			optional(d.TempMax),
			optional(d.TempMin),
			optional(d.Precipitation),
			optional(d.WindSpeedMax),
			optional(d.TempMean),
			optional(d.TempRange),
			strconv.Itoa(d.Year),
			strconv.Itoa(d.Month),
			d.MonthKey(),
			strconv.Itoa(d.DayOfYear),
			d.Season,
		}
		if opts.Rolling {
			row = append(row, optional(d.TempMeanRoll), optional(d.PrecipRoll))
		}
		if opts.Anomalies {
			row = append(row, optional(d.ClimatologyMean), optional(d.TempAnomaly), d.AnomalyCategory)
		}
		row = append(row,
			strconv.FormatBool(d.IsExtremeHeat),
			strconv.FormatBool(d.IsExtremeCold),
			strconv.FormatBool(d.IsExtremePrecip),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write daily row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// MonthlyColumns is the fixed monthly table header.
func MonthlyColumns() []string {
	return []string{
		"month_key", "year", "month",
		"temp_mean_avg", "temp_max_avg", "temp_min_avg", "temp_range_avg",
		"precipitation_total", "wind_speed_max", "days",
	}
}

// WriteMonthly writes the monthly aggregate table as CSV.
func WriteMonthly(w io.Writer, aggs []domain.MonthlyAggregate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MonthlyColumns()); err != nil {
		return fmt.Errorf("write monthly header: %w", err)
	}

	for _, m := range aggs {
		row := []string{
			m.MonthKey(),
			strconv.Itoa(m.Year),
			strconv.Itoa(m.Month),
			optional(m.TempMeanAvg),
			optional(m.TempMaxAvg),
			optional(m.TempMinAvg),
			optional(m.TempRangeAvg),
			optional(m.PrecipTotal),
			optional(m.WindMax),
			strconv.Itoa(m.Days),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write monthly row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// optional renders a missing value as an empty field and a present one in
// the shortest exact decimal form, so repeated exports are byte-identical.
func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
