package pipeline

import (
	"fmt"
	"strings"

	"github.com/weatherinsights/insights-service/internal/domain"
)

// Options selects which stages run and how. The zero value is not valid;
// start from DefaultOptions.
type Options struct {
	// Rolling statistics.
	Rolling    bool               `json:"rolling"`
	Window     int                `json:"window"`
	PrecipStat domain.RollingStat `json:"precip_stat"`

	// Climatology and anomalies.
	Anomalies bool `json:"anomalies"`

	// Monthly aggregation. When set, the correlation matrix is computed
	// over the monthly table instead of the daily one.
	Monthly bool `json:"monthly"`

	// Extreme event thresholds.
	Extremes domain.ExtremeConfig `json:"extremes"`

	// Variables for the correlation matrix. Empty disables correlation.
	CorrelationVars []string `json:"correlation_vars,omitempty"`
}

// DefaultOptions mirrors the dashboard defaults: 7-day rolling mean on,
// anomalies and monthly aggregation off, standard extreme thresholds, and a
// correlation matrix over the four primary variables.
func DefaultOptions() Options {
	return Options{
		Rolling:    true,
		Window:     domain.DefaultWindow,
		PrecipStat: domain.RollingMean,
		Extremes:   domain.DefaultExtremeConfig(),
		CorrelationVars: []string{
			"temp_mean", "temp_range", "precipitation_sum", "wind_speed_max",
		},
	}
}

// Validate rejects configurations the stages would refuse, so a bad request
// fails before any work happens.
func (o Options) Validate() error {
	if o.Window < 1 {
		return &domain.ConfigurationError{Field: "window", Msg: fmt.Sprintf("must be >= 1, got %d", o.Window)}
	}
	if o.PrecipStat != domain.RollingMean && o.PrecipStat != domain.RollingSum {
		return &domain.ConfigurationError{Field: "precip_stat", Msg: fmt.Sprintf("unknown reducer %q", o.PrecipStat)}
	}
	if err := o.Extremes.Validate(); err != nil {
		return err
	}
	// The correlation matrix runs over the monthly table when aggregation
	// is on, so the variable list must resolve against that granularity.
	known := domain.KnownColumn
	if o.Monthly {
		known = domain.KnownMonthlyColumn
	}
	for _, name := range o.CorrelationVars {
		if !known(name) {
			return &domain.ConfigurationError{Field: "correlation_vars", Msg: fmt.Sprintf("unknown column %q", name)}
		}
	}
	return nil
}

// Key returns a deterministic string identifying the configuration, used by
// the memoization layer. Identical options always produce identical keys.
func (o Options) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rolling=%t,window=%d,stat=%s,anomalies=%t,monthly=%t", o.Rolling, o.Window, o.PrecipStat, o.Anomalies, o.Monthly)
	fmt.Fprintf(&b, ",heat=%g,cold=%g,precip=%g", o.Extremes.HeatPercentile, o.Extremes.ColdPercentile, o.Extremes.PrecipPercentile)
	if o.Extremes.PrecipAbsolute != nil {
		fmt.Fprintf(&b, ",precip_abs=%g", *o.Extremes.PrecipAbsolute)
	}
	fmt.Fprintf(&b, ",corr=%s", strings.Join(o.CorrelationVars, "+"))
	return b.String()
}
