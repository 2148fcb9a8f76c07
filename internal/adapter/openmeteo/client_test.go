package openmeteo

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/v1/search", srv.URL+"/v1/era5", 5*time.Second, slog.Default())
}

func TestSearchCities(t *testing.T) {
	t.Run("decodes results", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Lisbon", r.URL.Query().Get("name"))
			assert.Equal(t, "5", r.URL.Query().Get("count"))
			w.Write([]byte(`{"results":[{"name":"Lisbon","country":"Portugal","latitude":38.72,"longitude":-9.13,"elevation":45}]}`))
		})

		places, err := client.SearchCities(context.Background(), "Lisbon", 5)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "Lisbon", places[0].Name)
		assert.Equal(t, "Portugal", places[0].Country)
		assert.Equal(t, 38.72, places[0].Latitude)
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"generationtime_ms":0.5}`))
		})

		places, err := client.SearchCities(context.Background(), "Xyzzy", 10)
		require.NoError(t, err)
		assert.Empty(t, places)
	})

	t.Run("http error surfaces", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		})

		_, err := client.SearchCities(context.Background(), "Lisbon", 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 429")
	})
}

func TestDailyHistory(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)

	t.Run("nulls decode to missing", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2023-01-01", r.URL.Query().Get("start_date"))
			assert.Equal(t, "2023-01-03", r.URL.Query().Get("end_date"))
			assert.Equal(t, "UTC", r.URL.Query().Get("timezone"))
			w.Write([]byte(`{"daily":{
				"time":["2023-01-01","2023-01-02","2023-01-03"],
				"temperature_2m_max":[8.1,null,9.4],
				"temperature_2m_min":[1.0,0.2,null],
				"precipitation_sum":[0.0,2.4,null],
				"windspeed_10m_max":[22.3,18.0,31.5]}}`))
		})

		days, err := client.DailyHistory(context.Background(), 38.72, -9.13, start, end)
		require.NoError(t, err)
		require.Len(t, days, 3)

		assert.Equal(t, "2023-01-01", days[0].Date)
		assert.Equal(t, 8.1, *days[0].TempMax)
		assert.Nil(t, days[1].TempMax)
		assert.Nil(t, days[2].TempMin)
		assert.Nil(t, days[2].Precipitation)
		assert.Equal(t, 31.5, *days[2].WindSpeedMax)
	})

	t.Run("zero stays zero", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"daily":{
				"time":["2023-01-01"],
				"temperature_2m_max":[0],
				"temperature_2m_min":[0],
				"precipitation_sum":[0],
				"windspeed_10m_max":[0]}}`))
		})

		days, err := client.DailyHistory(context.Background(), 0, 0, start, start)
		require.NoError(t, err)
		require.Len(t, days, 1)
		require.NotNil(t, days[0].Precipitation)
		assert.Equal(t, 0.0, *days[0].Precipitation)
	})

	t.Run("mismatched column lengths", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"daily":{
				"time":["2023-01-01","2023-01-02"],
				"temperature_2m_max":[8.1],
				"temperature_2m_min":[1.0,0.2],
				"precipitation_sum":[0,0],
				"windspeed_10m_max":[1,2]}}`))
		})

		_, err := client.DailyHistory(context.Background(), 0, 0, start, end)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mismatched column lengths")
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"daily":`))
		})

		_, err := client.DailyHistory(context.Background(), 0, 0, start, end)
		require.Error(t, err)
	})
}
