package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullDay(date string, tmax, tmin, precip, wind float64) DailyRecord {
	d, _ := time.ParseInLocation("2006-01-02", date, time.UTC)
	return DailyRecord{
		Date:          d,
		TempMax:       Float(tmax),
		TempMin:       Float(tmin),
		TempMean:      Float((tmax + tmin) / 2),
		TempRange:     Float(tmax - tmin),
		Precipitation: Float(precip),
		WindSpeedMax:  Float(wind),
	}
}

func TestAggregateMonthly(t *testing.T) {
	t.Run("reducers per variable", func(t *testing.T) {
		s := Series{
			fullDay("2023-01-01", 4, 0, 1, 10),
			fullDay("2023-01-02", 8, 2, 3, 30),
			fullDay("2023-02-01", 10, 4, 0, 20),
		}

		aggs := AggregateMonthly(s)
		require.Len(t, aggs, 2)

		jan := aggs[0]
		assert.Equal(t, 2023, jan.Year)
		assert.Equal(t, 1, jan.Month)
		assert.Equal(t, "2023-01", jan.MonthKey())
		assert.Equal(t, 6.0, *jan.TempMaxAvg)
		assert.Equal(t, 1.0, *jan.TempMinAvg)
		assert.Equal(t, 3.5, *jan.TempMeanAvg)
		assert.Equal(t, 5.0, *jan.TempRangeAvg)
		assert.Equal(t, 4.0, *jan.PrecipTotal)
		assert.Equal(t, 30.0, *jan.WindMax)
		assert.Equal(t, 2, jan.Days)

		feb := aggs[1]
		assert.Equal(t, 2, feb.Month)
		assert.Equal(t, 1, feb.Days)
	})

	t.Run("ordered ascending across years", func(t *testing.T) {
		s := Series{
			fullDay("2022-12-31", 4, 0, 0, 5),
			fullDay("2023-01-01", 4, 0, 0, 5),
			fullDay("2023-02-01", 4, 0, 0, 5),
		}

		aggs := AggregateMonthly(s)
		require.Len(t, aggs, 3)
		assert.Equal(t, "2022-12", aggs[0].MonthKey())
		assert.Equal(t, "2023-01", aggs[1].MonthKey())
		assert.Equal(t, "2023-02", aggs[2].MonthKey())
	})

	t.Run("missing value excluded from its reducer only", func(t *testing.T) {
		d1 := fullDay("2023-01-01", 4, 0, 1, 10)
		d1.Precipitation = nil
		d2 := fullDay("2023-01-02", 8, 2, 3, 30)

		aggs := AggregateMonthly(Series{d1, d2})
		require.Len(t, aggs, 1)
		// Precipitation reducer saw one day; temperature reducers saw two.
		assert.Equal(t, 3.0, *aggs[0].PrecipTotal)
		assert.Equal(t, 6.0, *aggs[0].TempMaxAvg)
		assert.Equal(t, 2, aggs[0].Days)
	})

	t.Run("all-missing month omitted", func(t *testing.T) {
		empty := DailyRecord{Date: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)}
		s := Series{
			fullDay("2023-02-01", 4, 0, 1, 10),
			empty,
			fullDay("2023-04-01", 4, 0, 1, 10),
		}

		aggs := AggregateMonthly(s)
		require.Len(t, aggs, 2)
		assert.Equal(t, 2, aggs[0].Month)
		assert.Equal(t, 4, aggs[1].Month)
		for _, a := range aggs {
			assert.GreaterOrEqual(t, a.Days, 1)
		}
	})

	t.Run("variable missing all month is missing in aggregate", func(t *testing.T) {
		d := fullDay("2023-01-01", 4, 0, 1, 10)
		d.WindSpeedMax = nil

		aggs := AggregateMonthly(Series{d})
		require.Len(t, aggs, 1)
		assert.Nil(t, aggs[0].WindMax)
		assert.Equal(t, 1, aggs[0].Days)
	})

	t.Run("monthly precipitation sums match daily totals", func(t *testing.T) {
		s := Series{
			fullDay("2023-01-01", 4, 0, 1.5, 10),
			fullDay("2023-01-15", 4, 0, 2.5, 10),
			fullDay("2023-02-01", 4, 0, 4, 10),
			fullDay("2023-03-01", 4, 0, 0, 10),
		}

		aggs := AggregateMonthly(s)
		var monthly, daily float64
		for _, a := range aggs {
			if a.PrecipTotal != nil {
				monthly += *a.PrecipTotal
			}
		}
		for _, d := range s {
			daily += *d.Precipitation
		}
		assert.InDelta(t, daily, monthly, 1e-9)
	})

	t.Run("empty series", func(t *testing.T) {
		assert.Empty(t, AggregateMonthly(nil))
	})
}

func TestMonthlyColumn(t *testing.T) {
	aggs := []MonthlyAggregate{
		{Year: 2023, Month: 1, PrecipTotal: Float(4)},
		{Year: 2023, Month: 2},
	}

	col, ok := MonthlyColumn(aggs, "precipitation_sum")
	require.True(t, ok)
	require.Len(t, col, 2)
	assert.Equal(t, 4.0, *col[0])
	assert.Nil(t, col[1])

	_, ok = MonthlyColumn(aggs, "nope")
	assert.False(t, ok)
}

func TestMonthlyColumnDailyAliases(t *testing.T) {
	aggs := []MonthlyAggregate{
		{Year: 2023, Month: 1, TempMeanAvg: Float(3), TempRangeAvg: Float(6), WindMax: Float(30)},
	}

	for alias, want := range map[string]float64{
		"temp_mean":      3,
		"temp_range":     6,
		"wind_speed_max": 30,
	} {
		col, ok := MonthlyColumn(aggs, alias)
		require.True(t, ok, alias)
		assert.Equal(t, want, *col[0], alias)
	}
}

func TestKnownMonthlyColumn(t *testing.T) {
	assert.True(t, KnownMonthlyColumn("temp_range"))
	assert.True(t, KnownMonthlyColumn("temp_range_avg"))
	assert.True(t, KnownMonthlyColumn("precipitation_sum"))
	assert.False(t, KnownMonthlyColumn("temp_anomaly"))
	assert.False(t, KnownMonthlyColumn("nope"))
}
