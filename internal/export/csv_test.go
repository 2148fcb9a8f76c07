package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weatherinsights/insights-service/internal/domain"
	"github.com/weatherinsights/insights-service/internal/pipeline"
)

func sampleSeries() domain.Series {
	s := domain.Series{
		{
			Date:          time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			TempMax:       domain.Float(8.5),
			TempMin:       domain.Float(1.5),
			Precipitation: domain.Float(0),
			WindSpeedMax:  domain.Float(22),
		},
		{
			Date:         time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			TempMin:      domain.Float(2),
			WindSpeedMax: domain.Float(18),
		},
	}
	return domain.AddFeatures(s)
}

func TestWriteDaily(t *testing.T) {
	t.Run("header tracks configuration", func(t *testing.T) {
		opts := pipeline.DefaultOptions()
		opts.Anomalies = true

		cols := DailyColumns(opts)
		assert.Contains(t, cols, "temp_mean_roll_7")
		assert.Contains(t, cols, "precip_roll_mean_7")
		assert.Contains(t, cols, "temp_anomaly")

		opts.Window = 14
		opts.PrecipStat = domain.RollingSum
		cols = DailyColumns(opts)
		assert.Contains(t, cols, "temp_mean_roll_14")
		assert.Contains(t, cols, "precip_roll_sum_14")

		opts.Rolling = false
		opts.Anomalies = false
		cols = DailyColumns(opts)
		assert.NotContains(t, cols, "temp_mean_roll_14")
		assert.NotContains(t, cols, "climatology_mean")
	})

	t.Run("rows match header width", func(t *testing.T) {
		opts := pipeline.DefaultOptions()
		opts.Anomalies = true

		var buf bytes.Buffer
		require.NoError(t, WriteDaily(&buf, sampleSeries(), opts))

		records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		for _, rec := range records[1:] {
			assert.Len(t, rec, len(records[0]))
		}
	})

	t.Run("missing renders empty, zero renders zero", func(t *testing.T) {
		var buf bytes.Buffer
		opts := pipeline.DefaultOptions()
		opts.Rolling = false
		require.NoError(t, WriteDaily(&buf, sampleSeries(), opts))

		records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
		require.NoError(t, err)

		header := records[0]
		idx := func(name string) int {
			for i, h := range header {
				if h == name {
					return i
				}
			}
			t.Fatalf("column %s not found", name)
			return -1
		}

		assert.Equal(t, "0", records[1][idx("precipitation_sum")])
		assert.Equal(t, "5", records[1][idx("temp_mean")])
		assert.Equal(t, "", records[2][idx("temp_max")])
		assert.Equal(t, "", records[2][idx("temp_mean")])
		assert.Equal(t, "2023-01", records[1][idx("month_key")])
		assert.Equal(t, "Winter", records[1][idx("season")])
	})

	t.Run("byte-identical across calls", func(t *testing.T) {
		opts := pipeline.DefaultOptions()
		var a, b bytes.Buffer
		require.NoError(t, WriteDaily(&a, sampleSeries(), opts))
		require.NoError(t, WriteDaily(&b, sampleSeries(), opts))
		assert.Equal(t, a.Bytes(), b.Bytes())
	})
}

func TestWriteMonthly(t *testing.T) {
	aggs := []domain.MonthlyAggregate{
		{
			Year: 2023, Month: 1,
			TempMeanAvg:  domain.Float(4.25),
			TempMaxAvg:   domain.Float(8.5),
			TempMinAvg:   domain.Float(1.75),
			TempRangeAvg: domain.Float(6.75),
			PrecipTotal:  domain.Float(42),
			WindMax:      domain.Float(80),
			Days:         31,
		},
		{Year: 2023, Month: 2, Days: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMonthly(&buf, aggs))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, MonthlyColumns(), records[0])
	assert.Equal(t, []string{"2023-01", "2023", "1", "4.25", "8.5", "1.75", "6.75", "42", "80", "31"}, records[1])
	assert.Equal(t, []string{"2023-02", "2023", "2", "", "", "", "", "", "", "3"}, records[2])
}
