// Package service ties the fetch boundary to the analysis pipeline: it
// resolves a place name, validates the requested date range against the
// present day, fetches the raw daily series, runs the pipeline, and
// memoizes results per (location, date range, configuration).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/weatherinsights/insights-service/internal/adapter/openmeteo"
	"github.com/weatherinsights/insights-service/internal/domain"
	"github.com/weatherinsights/insights-service/internal/observability"
	"github.com/weatherinsights/insights-service/internal/pipeline"
)

// The ERA5 archive starts in 1940; earlier requests are caller mistakes.
var archiveEpoch = time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC)

// Fetcher is the upstream data boundary the analysis depends on.
type Fetcher interface {
	SearchCities(ctx context.Context, query string, count int) ([]openmeteo.Place, error)
	DailyHistory(ctx context.Context, lat, lon float64, start, end time.Time) ([]domain.RawDay, error)
}

// Request identifies one analysis: a place name, an inclusive date range,
// and the pipeline configuration.
type Request struct {
	Location string
	Start    time.Time
	End      time.Time
	Options  pipeline.Options
}

// Response is the full analysis output plus request metadata. GeneratedAt
// is the only field that varies between identical requests; the tables are
// byte-identical for identical input and configuration.
type Response struct {
	Place       openmeteo.Place  `json:"place"`
	Result      *pipeline.Result `json:"result"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// cached is what the memoization layer stores: everything but GeneratedAt.
type cached struct {
	place  openmeteo.Place
	result *pipeline.Result
}

// Analysis coordinates fetch, pipeline, and memoization for requests.
type Analysis struct {
	fetcher Fetcher
	runner  *pipeline.Runner
	cache   *resultCache
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates an Analysis service. The clock supplies the present day for
// date-range validation so tests can freeze it.
func New(fetcher Fetcher, runner *pipeline.Runner, cacheSize int, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Analysis {
	return &Analysis{
		fetcher: fetcher,
		runner:  runner,
		cache:   newResultCache(cacheSize),
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Analyze resolves the location, fetches the daily series, and runs the
// pipeline. Identical requests hit the memoized result and skip both the
// fetch and the computation.
func (a *Analysis) Analyze(ctx context.Context, req Request) (*Response, error) {
	resp, err := a.analyze(ctx, req)
	a.metrics.AnalysisRequests.WithLabelValues(outcomeLabel(err)).Inc()
	return resp, err
}

func (a *Analysis) analyze(ctx context.Context, req Request) (*Response, error) {
	if err := a.validateDateRange(req.Start, req.End); err != nil {
		return nil, err
	}
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(req)
	if hit, ok := a.cache.get(key); ok {
		a.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return a.respond(hit), nil
	}
	a.metrics.CacheLookups.WithLabelValues("miss").Inc()

	place, err := a.resolvePlace(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	raw, err := a.fetchHistory(ctx, place, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	result, err := a.runner.Run(raw, req.Options)
	if err != nil {
		return nil, err
	}

	a.logger.Info("analysis complete",
		"location", req.Location,
		"place", place.Name,
		"start", req.Start.Format("2006-01-02"),
		"end", req.End.Format("2006-01-02"),
		"days", len(result.Daily),
		"warnings", len(result.Warnings),
	)

	entry := cached{place: place, result: result}
	a.cache.put(key, entry)
	return a.respond(entry), nil
}

// SearchCities exposes geocoding to the CLI and the HTTP surface.
func (a *Analysis) SearchCities(ctx context.Context, query string, count int) ([]openmeteo.Place, error) {
	start := a.clock.Now()
	places, err := a.fetcher.SearchCities(ctx, query, count)
	a.metrics.FetchDuration.WithLabelValues("geocoding").Observe(a.clock.Since(start).Seconds())
	if err != nil {
		a.metrics.FetchRequests.WithLabelValues("geocoding", "error").Inc()
		return nil, err
	}
	a.metrics.FetchRequests.WithLabelValues("geocoding", "success").Inc()
	return places, nil
}

// CheckReadiness reports whether the service can serve analysis traffic.
func (a *Analysis) CheckReadiness(_ context.Context) error {
	if a.fetcher == nil {
		return fmt.Errorf("no upstream fetcher configured")
	}
	return nil
}

func (a *Analysis) respond(c cached) *Response {
	return &Response{
		Place:       c.place,
		Result:      c.result,
		GeneratedAt: a.clock.Now().UTC(),
	}
}

func (a *Analysis) resolvePlace(ctx context.Context, location string) (openmeteo.Place, error) {
	places, err := a.SearchCities(ctx, location, 1)
	if err != nil {
		return openmeteo.Place{}, fmt.Errorf("resolve location %q: %w", location, err)
	}
	if len(places) == 0 {
		return openmeteo.Place{}, &domain.ConfigurationError{Field: "location", Msg: fmt.Sprintf("no match for %q", location)}
	}
	return places[0], nil
}

func (a *Analysis) fetchHistory(ctx context.Context, place openmeteo.Place, start, end time.Time) ([]domain.RawDay, error) {
	began := a.clock.Now()
	raw, err := a.fetcher.DailyHistory(ctx, place.Latitude, place.Longitude, start, end)
	a.metrics.FetchDuration.WithLabelValues("archive").Observe(a.clock.Since(began).Seconds())
	if err != nil {
		a.metrics.FetchRequests.WithLabelValues("archive", "error").Inc()
		return nil, fmt.Errorf("fetch history for %q: %w", place.Name, err)
	}
	a.metrics.FetchRequests.WithLabelValues("archive", "success").Inc()
	return raw, nil
}

// validateDateRange enforces the archive's usable window. The present day
// comes from the injected clock, never the wall clock directly.
func (a *Analysis) validateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return &domain.ConfigurationError{Field: "date_range", Msg: "start and end are required"}
	}
	if !start.Before(end) {
		return &domain.ConfigurationError{Field: "date_range", Msg: "start must be before end"}
	}
	if start.Before(archiveEpoch) {
		return &domain.ConfigurationError{Field: "date_range", Msg: fmt.Sprintf("historical data begins %s", archiveEpoch.Format("2006-01-02"))}
	}
	today := a.clock.Now().UTC().Truncate(24 * time.Hour)
	if end.After(today) {
		return &domain.ConfigurationError{Field: "date_range", Msg: "end cannot be in the future"}
	}
	return nil
}

// outcomeLabel maps an Analyze error onto the request counter's label set.
func outcomeLabel(err error) string {
	var cfgErr *domain.ConfigurationError
	var valErr *domain.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &cfgErr):
		return "config_error"
	case errors.As(err, &valErr), errors.Is(err, domain.ErrEmptySeries):
		return "validation_error"
	default:
		return "fetch_error"
	}
}

func cacheKey(req Request) string {
	return fmt.Sprintf("%s|%s|%s|%s",
		req.Location,
		req.Start.Format("2006-01-02"),
		req.End.Format("2006-01-02"),
		req.Options.Key(),
	)
}
