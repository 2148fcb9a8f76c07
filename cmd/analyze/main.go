// Command analyze fetches a historical daily weather series for a location,
// runs the full analysis pass, and prints the results. Output defaults to
// readable tables; -format json emits the full response, and -o writes the
// daily (or monthly, with -table monthly) table as CSV instead.
//
// Usage:
//
//	go run ./cmd/analyze -location Berlin -start 2023-01-01 -end 2023-12-31
//	go run ./cmd/analyze -location Oslo -start 2020-01-01 -end 2023-12-31 \
//	  -monthly -anomalies -window 14 -o oslo_daily.csv
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/weatherinsights/insights-service/internal/adapter/openmeteo"
	"github.com/weatherinsights/insights-service/internal/config"
	"github.com/weatherinsights/insights-service/internal/domain"
	"github.com/weatherinsights/insights-service/internal/export"
	"github.com/weatherinsights/insights-service/internal/observability"
	"github.com/weatherinsights/insights-service/internal/pipeline"
	"github.com/weatherinsights/insights-service/internal/service"
)

func main() {
	location := flag.String("location", "", "place name to analyze (required)")
	start := flag.String("start", "", "range start, YYYY-MM-DD (required)")
	end := flag.String("end", "", "range end, YYYY-MM-DD (required)")
	window := flag.Int("window", domain.DefaultWindow, "rolling window size in days")
	noRolling := flag.Bool("no-rolling", false, "skip rolling statistics")
	precipStat := flag.String("precip-stat", string(domain.RollingMean), "rolling precipitation reducer: mean or sum")
	anomalies := flag.Bool("anomalies", false, "compute climatology baseline and anomalies")
	monthly := flag.Bool("monthly", false, "aggregate to monthly and correlate over months")
	heatPct := flag.Float64("heat-pct", 95, "extreme heat percentile")
	coldPct := flag.Float64("cold-pct", 5, "extreme cold percentile")
	precipPct := flag.Float64("precip-pct", 95, "extreme precipitation percentile")
	precipAbs := flag.Float64("precip-abs", 0, "absolute precipitation threshold in mm, overrides -precip-pct when > 0")
	correlate := flag.String("correlate", "", "comma-separated variables for the correlation matrix, or none")
	format := flag.String("format", "table", "output format: table or json")
	output := flag.String("o", "", "write CSV to this file instead of printing tables")
	csvTable := flag.String("table", "daily", "table to export with -o: daily or monthly")
	flag.Parse()

	if *location == "" || *start == "" || *end == "" {
		fmt.Fprintln(os.Stderr, "error: -location, -start, and -end are required")
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}

	startDate, err := parseDate(*start, "-start")
	if err != nil {
		fatal("%v", err)
	}
	endDate, err := parseDate(*end, "-end")
	if err != nil {
		fatal("%v", err)
	}

	opts := pipeline.DefaultOptions()
	opts.Rolling = !*noRolling
	opts.Window = *window
	opts.PrecipStat = domain.RollingStat(*precipStat)
	opts.Anomalies = *anomalies
	opts.Monthly = *monthly
	opts.Extremes.HeatPercentile = *heatPct
	opts.Extremes.ColdPercentile = *coldPct
	opts.Extremes.PrecipPercentile = *precipPct
	if *precipAbs > 0 {
		opts.Extremes.PrecipAbsolute = domain.Float(*precipAbs)
	}
	switch *correlate {
	case "":
	case "none":
		opts.CorrelationVars = nil
	default:
		opts.CorrelationVars = strings.Split(*correlate, ",")
	}

	req := service.Request{Location: *location, Start: startDate, End: endDate, Options: opts}
	if *csvTable == "monthly" {
		req.Options.Monthly = true
	}

	logger := observability.NewLogger("error", "text")
	metrics := observability.NewMetrics()
	client := openmeteo.NewClient(cfg.GeocodingURL, cfg.ArchiveURL, cfg.FetchTimeout, logger)
	runner := pipeline.New(logger, metrics)
	analysis := service.New(client, runner, 1, clockwork.NewRealClock(), logger, metrics)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	resp, err := analysis.Analyze(ctx, req)
	if err != nil {
		fatal("analyze: %v", err)
	}

	switch {
	case *output != "":
		if err := writeCSV(*output, *csvTable, resp, req.Options); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("wrote %s table to %s\n", *csvTable, *output)
	case *format == "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			fatal("encode response: %v", err)
		}
	default:
		printReport(resp)
	}
}

func parseDate(s, flagName string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s %q: want YYYY-MM-DD", flagName, s)
	}
	return d, nil
}

func writeCSV(path, which string, resp *service.Response, opts pipeline.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if which == "monthly" {
		return export.WriteMonthly(f, resp.Result.Monthly)
	}
	return export.WriteDaily(f, resp.Result.Daily, opts)
}

func printReport(resp *service.Response) {
	p := resp.Place
	fmt.Printf("%s, %s (%.4f, %.4f)\n\n", p.Name, p.Country, p.Latitude, p.Longitude)

	printSummary(resp.Result.Summary)

	if len(resp.Result.Monthly) > 0 {
		printMonthly(resp.Result.Monthly)
	}
	if resp.Result.Correlation != nil {
		printCorrelation(resp.Result.Correlation)
	}
	printExtremes(resp.Result.Daily)

	if len(resp.Result.Warnings) > 0 {
		fmt.Printf("%d data quality warnings:\n", len(resp.Result.Warnings))
		for _, w := range resp.Result.Warnings {
			fmt.Printf("  %s %s: %s\n", w.Date, w.Field, w.Msg)
		}
		fmt.Println()
	}
}

func printSummary(s domain.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Summary, %s to %s (%d days)",
		s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"), s.Days))
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Mean temperature", cell(s.Temperature.MeanAvg, "°C")},
		{"Warmest day (mean)", cell(s.Temperature.MeanMax, "°C")},
		{"Coldest day (mean)", cell(s.Temperature.MeanMin, "°C")},
		{"Absolute max", cell(s.Temperature.AbsoluteMax, "°C")},
		{"Absolute min", cell(s.Temperature.AbsoluteMin, "°C")},
		{"Total precipitation", cell(s.Precipitation.Total, " mm")},
		{"Wettest day", cell(s.Precipitation.MaxDaily, " mm")},
		{"Rain days", fmt.Sprintf("%d", s.Precipitation.RainDays)},
		{"Mean daily max wind", cell(s.Wind.MeanMax, " km/h")},
		{"Strongest gust day", cell(s.Wind.AbsoluteMax, " km/h")},
	})
	t.Render()
	fmt.Println()
}

func printMonthly(aggs []domain.MonthlyAggregate) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Monthly aggregates")
	t.AppendHeader(table.Row{"Month", "Temp mean", "Temp max", "Temp min", "Temp range", "Precip total", "Wind max", "Days"})
	for _, m := range aggs {
		t.AppendRow(table.Row{
			m.MonthKey(),
			cell(m.TempMeanAvg, ""),
			cell(m.TempMaxAvg, ""),
			cell(m.TempMinAvg, ""),
			cell(m.TempRangeAvg, ""),
			cell(m.PrecipTotal, ""),
			cell(m.WindMax, ""),
			m.Days,
		})
	}
	t.Render()
	fmt.Println()
}

func printCorrelation(m *domain.CorrelationMatrix) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Correlation (Pearson)")

	header := table.Row{""}
	for _, v := range m.Variables {
		header = append(header, v)
	}
	t.AppendHeader(header)

	for i, v := range m.Variables {
		row := table.Row{v}
		for j := range m.Variables {
			if c := m.Coeffs[i][j]; c != nil {
				row = append(row, fmt.Sprintf("%.3f", *c))
			} else {
				row = append(row, "n/a")
			}
		}
		t.AppendRow(row)
	}
	t.Render()
	fmt.Println()
}

func printExtremes(s domain.Series) {
	var heat, cold, wet int
	for _, d := range s {
		if d.IsExtremeHeat {
			heat++
		}
		if d.IsExtremeCold {
			cold++
		}
		if d.IsExtremePrecip {
			wet++
		}
	}
	fmt.Printf("Extreme days: %d heat, %d cold, %d precipitation\n\n", heat, cold, wet)
}

func cell(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
