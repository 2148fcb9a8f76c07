// Package openmeteo implements the fetch boundary against the Open-Meteo
// geocoding and ERA5 archive APIs. The archive reports missing observations
// as JSON nulls; the client preserves them as missing values rather than
// coercing to zero.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/weatherinsights/insights-service/internal/domain"
)

// Place is one geocoding result.
type Place struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation,omitempty"`
}

// Client calls the Open-Meteo geocoding and historical archive APIs.
type Client struct {
	httpClient   *http.Client
	geocodingURL string
	archiveURL   string
	logger       *slog.Logger
}

// NewClient creates an Open-Meteo client against the given endpoints.
func NewClient(geocodingURL, archiveURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		geocodingURL: geocodingURL,
		archiveURL:   archiveURL,
		logger:       logger,
	}
}

// SearchCities resolves a place-name query to candidate locations, best
// match first. An unknown name returns an empty slice, not an error.
func (c *Client) SearchCities(ctx context.Context, query string, count int) ([]Place, error) {
	if count < 1 {
		count = 10
	}
	params := url.Values{
		"name":     {query},
		"count":    {fmt.Sprintf("%d", count)},
		"language": {"en"},
		"format":   {"json"},
	}

	var resp geocodingResponse
	if err := c.getJSON(ctx, c.geocodingURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("search cities %q: %w", query, err)
	}
	return resp.Results, nil
}

// DailyHistory fetches the raw daily series for one location and date range
// (inclusive). Rows come back in archive order, one per day, with nulls
// preserved as missing.
func (c *Client) DailyHistory(ctx context.Context, lat, lon float64, start, end time.Time) ([]domain.RawDay, error) {
	params := url.Values{
		"latitude":   {fmt.Sprintf("%.4f", lat)},
		"longitude":  {fmt.Sprintf("%.4f", lon)},
		"start_date": {start.Format("2006-01-02")},
		"end_date":   {end.Format("2006-01-02")},
		"daily":      {"temperature_2m_max,temperature_2m_min,precipitation_sum,windspeed_10m_max"},
		"timezone":   {"UTC"},
	}

	var resp archiveResponse
	if err := c.getJSON(ctx, c.archiveURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("daily history: %w", err)
	}

	d := resp.Daily
	n := len(d.Time)
	if len(d.TempMax) != n || len(d.TempMin) != n || len(d.Precipitation) != n || len(d.WindSpeedMax) != n {
		return nil, fmt.Errorf("daily history: mismatched column lengths in archive response")
	}

	days := make([]domain.RawDay, n)
	for i := 0; i < n; i++ {
		days[i] = domain.RawDay{
			Date:          d.Time[i],
			TempMax:       d.TempMax[i],
			TempMin:       d.TempMin[i],
			Precipitation: d.Precipitation[i],
			WindSpeedMax:  d.WindSpeedMax[i],
		}
	}
	return days, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Open-Meteo API response types. Numeric columns decode into pointer slices
// so JSON null survives as nil.

type geocodingResponse struct {
	Results []Place `json:"results"`
}

type archiveResponse struct {
	Daily struct {
		Time          []string   `json:"time"`
		TempMax       []*float64 `json:"temperature_2m_max"`
		TempMin       []*float64 `json:"temperature_2m_min"`
		Precipitation []*float64 `json:"precipitation_sum"`
		WindSpeedMax  []*float64 `json:"windspeed_10m_max"`
	} `json:"daily"`
}
