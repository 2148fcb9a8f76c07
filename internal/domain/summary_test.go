package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("headline numbers", func(t *testing.T) {
		s := Series{
			fullDay("2023-01-01", 10, 0, 0, 20),
			fullDay("2023-01-02", 20, 10, 3, 40),
			fullDay("2023-01-03", 30, 20, 1, 30),
		}

		sum := Summarize(s)
		assert.Equal(t, 3, sum.Days)
		assert.Equal(t, "2023-01-01", sum.Start.Format("2006-01-02"))
		assert.Equal(t, "2023-01-03", sum.End.Format("2006-01-02"))

		assert.Equal(t, 15.0, *sum.Temperature.MeanAvg)
		assert.Equal(t, 20.0, *sum.Temperature.MeanMax)
		assert.Equal(t, 30.0, *sum.Temperature.AbsoluteMax)
		assert.Equal(t, 0.0, *sum.Temperature.AbsoluteMin)

		assert.Equal(t, 4.0, *sum.Precipitation.Total)
		assert.Equal(t, 3.0, *sum.Precipitation.MaxDaily)
		assert.Equal(t, 2, sum.Precipitation.RainDays)

		assert.Equal(t, 30.0, *sum.Wind.MeanMax)
		assert.Equal(t, 40.0, *sum.Wind.AbsoluteMax)
	})

	t.Run("missing variables stay missing", func(t *testing.T) {
		s := seriesOf(t, "2023-01-01", nil, nil)

		sum := Summarize(s)
		assert.Equal(t, 2, sum.Days)
		assert.Nil(t, sum.Temperature.MeanAvg)
		assert.Nil(t, sum.Precipitation.Total)
		assert.Equal(t, 0, sum.Precipitation.RainDays)
		assert.Nil(t, sum.Wind.AbsoluteMax)
	})

	t.Run("missing days excluded from reducers", func(t *testing.T) {
		d1 := fullDay("2023-01-01", 10, 0, 2, 20)
		d2 := DailyRecord{Date: d1.Date.AddDate(0, 0, 1)}

		sum := Summarize(Series{d1, d2})
		require.NotNil(t, sum.Precipitation.MeanDaily)
		assert.Equal(t, 2.0, *sum.Precipitation.MeanDaily)
	})
}
