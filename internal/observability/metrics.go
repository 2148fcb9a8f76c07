package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analysis service.
type Metrics struct {
	AnalysisRequests *prometheus.CounterVec // labels: outcome={ok,validation_error,config_error,fetch_error}
	WarningsTotal    prometheus.Counter
	PipelineDuration prometheus.Histogram
	SeriesLength     prometheus.Histogram

	// Upstream fetch metrics.
	FetchRequests *prometheus.CounterVec   // labels: endpoint={geocoding,archive}, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: endpoint={geocoding,archive}

	// Result memoization metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AnalysisRequests,
		m.WarningsTotal,
		m.PipelineDuration,
		m.SeriesLength,
		m.FetchRequests,
		m.FetchDuration,
		m.CacheLookups,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysisRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_insights",
			Name:      "analysis_requests_total",
			Help:      "Analysis requests by outcome.",
		}, []string{"outcome"}),
		WarningsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_insights",
			Name:      "data_quality_warnings_total",
			Help:      "Total non-fatal data-quality warnings produced by validation.",
		}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_insights",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a complete validate-transform-aggregate pass.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		SeriesLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_insights",
			Name:      "series_length_days",
			Help:      "Number of daily rows per analyzed series.",
			Buckets:   []float64{31, 92, 183, 366, 1096, 3653, 10958},
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_insights",
			Name:      "fetch_requests_total",
			Help:      "Open-Meteo API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_insights",
			Name:      "fetch_duration_seconds",
			Help:      "Open-Meteo API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_insights",
			Name:      "result_cache_total",
			Help:      "Memoized analysis result lookups by result.",
		}, []string{"result"}),
	}
}
