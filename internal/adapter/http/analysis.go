package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/weatherinsights/insights-service/internal/adapter/openmeteo"
	"github.com/weatherinsights/insights-service/internal/domain"
	"github.com/weatherinsights/insights-service/internal/export"
	"github.com/weatherinsights/insights-service/internal/pipeline"
	"github.com/weatherinsights/insights-service/internal/service"
)

// Analyzer is the service boundary the HTTP surface depends on.
type Analyzer interface {
	Analyze(ctx context.Context, req service.Request) (*service.Response, error)
	SearchCities(ctx context.Context, query string, count int) ([]openmeteo.Place, error)
}

type analysisHandler struct {
	analyzer Analyzer
	logger   *slog.Logger
}

func (h *analysisHandler) handleSearchCities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusUnprocessableEntity, "missing required parameter q")
		return
	}
	count := 10
	if s := r.URL.Query().Get("count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusUnprocessableEntity, "count must be a positive integer")
			return
		}
		count = n
	}

	places, err := h.analyzer.SearchCities(r.Context(), query, count)
	if err != nil {
		h.logger.Error("city search failed", "query", query, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": places})
}

func (h *analysisHandler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := parseAnalyzeRequest(r)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	resp, err := h.analyzer.Analyze(r.Context(), req)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *analysisHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	req, err := parseAnalyzeRequest(r)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	table := r.URL.Query().Get("table")
	if table == "" {
		table = "daily"
	}
	if table == "monthly" {
		// The monthly table only exists when the aggregation stage runs.
		req.Options.Monthly = true
	} else if table != "daily" {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown table %q", table))
		return
	}

	resp, err := h.analyzer.Analyze(r.Context(), req)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(req, table)))

	if table == "monthly" {
		err = export.WriteMonthly(w, resp.Result.Monthly)
	} else {
		err = export.WriteDaily(w, resp.Result.Daily, req.Options)
	}
	if err != nil {
		h.logger.Error("csv export failed", "table", table, "error", err)
	}
}

// writeAnalysisError maps the error taxonomy onto status codes: client
// configuration mistakes are 422, malformed upstream data is 400, an empty
// archive response is 404, anything else is an upstream failure.
func (h *analysisHandler) writeAnalysisError(w http.ResponseWriter, err error) {
	var cfgErr *domain.ConfigurationError
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &cfgErr):
		writeError(w, http.StatusUnprocessableEntity, cfgErr.Error())
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, valErr.Error())
	case errors.Is(err, domain.ErrEmptySeries):
		writeError(w, http.StatusNotFound, "no data for the requested range")
	default:
		h.logger.Error("analysis failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func parseAnalyzeRequest(r *http.Request) (service.Request, error) {
	q := r.URL.Query()

	location := q.Get("location")
	if location == "" {
		return service.Request{}, &domain.ConfigurationError{Field: "location", Msg: "required"}
	}

	start, err := parseDate(q.Get("start"), "start")
	if err != nil {
		return service.Request{}, err
	}
	end, err := parseDate(q.Get("end"), "end")
	if err != nil {
		return service.Request{}, err
	}

	opts := pipeline.DefaultOptions()
	if err := applyOptionParams(q.Get, &opts); err != nil {
		return service.Request{}, err
	}

	return service.Request{Location: location, Start: start, End: end, Options: opts}, nil
}

func parseDate(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, &domain.ConfigurationError{Field: field, Msg: "required, format YYYY-MM-DD"}
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, &domain.ConfigurationError{Field: field, Msg: fmt.Sprintf("cannot parse %q, format YYYY-MM-DD", s)}
	}
	return d, nil
}

func applyOptionParams(get func(string) string, opts *pipeline.Options) error {
	if s := get("rolling"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return &domain.ConfigurationError{Field: "rolling", Msg: "must be a boolean"}
		}
		opts.Rolling = v
	}
	if s := get("anomalies"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return &domain.ConfigurationError{Field: "anomalies", Msg: "must be a boolean"}
		}
		opts.Anomalies = v
	}
	if s := get("monthly"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return &domain.ConfigurationError{Field: "monthly", Msg: "must be a boolean"}
		}
		opts.Monthly = v
	}
	if s := get("window"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return &domain.ConfigurationError{Field: "window", Msg: "must be an integer"}
		}
		opts.Window = v
	}
	if s := get("precip_stat"); s != "" {
		opts.PrecipStat = domain.RollingStat(s)
	}
	for _, p := range []struct {
		param  string
		target *float64
	}{
		{"heat_pct", &opts.Extremes.HeatPercentile},
		{"cold_pct", &opts.Extremes.ColdPercentile},
		{"precip_pct", &opts.Extremes.PrecipPercentile},
	} {
		if s := get(p.param); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return &domain.ConfigurationError{Field: p.param, Msg: "must be a number"}
			}
			*p.target = v
		}
	}
	if s := get("precip_abs"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return &domain.ConfigurationError{Field: "precip_abs", Msg: "must be a number"}
		}
		opts.Extremes.PrecipAbsolute = domain.Float(v)
	}
	if s := get("correlate"); s != "" {
		if s == "none" {
			opts.CorrelationVars = nil
		} else {
			opts.CorrelationVars = strings.Split(s, ",")
		}
	}
	return nil
}

func exportFilename(req service.Request, table string) string {
	location := strings.ReplaceAll(req.Location, " ", "_")
	return fmt.Sprintf("weather_%s_%s_%s_%s.csv",
		table, location, req.Start.Format("2006-01-02"), req.End.Format("2006-01-02"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
