// Package pipeline orchestrates the analysis stages over one raw series:
// validate, derive features, smooth, compute anomalies, aggregate, flag
// extremes, and correlate. Each stage fully consumes its input before the
// next runs; the whole pass is synchronous, deterministic, and free of I/O.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/weatherinsights/insights-service/internal/domain"
	"github.com/weatherinsights/insights-service/internal/observability"
)

// Result carries every output table of one analysis pass. Fatal errors never
// produce a partial Result: Run returns either a fully populated Result or
// an error, with warnings riding along on success.
type Result struct {
	Daily       domain.Series             `json:"daily"`
	Monthly     []domain.MonthlyAggregate `json:"monthly,omitempty"`
	Correlation *domain.CorrelationMatrix `json:"correlation,omitempty"`
	Summary     domain.Summary            `json:"summary"`
	Warnings    []domain.Warning          `json:"warnings,omitempty"`
}

// Runner executes the stage sequence with logging and metrics attached.
type Runner struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Runner.
func New(logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{logger: logger, metrics: metrics}
}

// Run validates the raw input and applies the configured stages in order.
// Stage order is fixed: validation, features, rolling, anomalies, monthly
// aggregation, extremes, correlation. Later stages see every column the
// earlier ones appended.
func (r *Runner) Run(raw []domain.RawDay, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	series, warnings, err := domain.ValidateSeries(raw)
	if err != nil {
		return nil, err
	}
	r.metrics.WarningsTotal.Add(float64(len(warnings)))
	if len(warnings) > 0 {
		r.logger.Warn("data quality issues in raw series", "count", len(warnings))
	}

	series = domain.AddFeatures(series)

	if opts.Rolling {
		series, err = domain.AddRolling(series, opts.Window, opts.PrecipStat)
		if err != nil {
			return nil, err
		}
	}

	if opts.Anomalies {
		series = domain.AddAnomalies(series)
	}

	var monthly []domain.MonthlyAggregate
	if opts.Monthly {
		monthly = domain.AggregateMonthly(series)
	}

	series, err = domain.FlagExtremes(series, opts.Extremes)
	if err != nil {
		return nil, err
	}

	var correlation *domain.CorrelationMatrix
	if len(opts.CorrelationVars) > 0 {
		var matrix domain.CorrelationMatrix
		if opts.Monthly {
			matrix, err = domain.CorrelateMonthly(monthly, opts.CorrelationVars)
		} else {
			matrix, err = domain.CorrelateSeries(series, opts.CorrelationVars)
		}
		if err != nil {
			return nil, err
		}
		correlation = &matrix
	}

	r.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	r.metrics.SeriesLength.Observe(float64(len(series)))
	r.logger.Debug("pipeline pass complete",
		"days", len(series),
		"months", len(monthly),
		"warnings", len(warnings),
		"duration", time.Since(start),
	)

	return &Result{
		Daily:       series,
		Monthly:     monthly,
		Correlation: correlation,
		Summary:     domain.Summarize(series),
		Warnings:    warnings,
	}, nil
}
