package weather_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgweather/sgweather/internal/weather"
)

func readingWithAverages(ts time.Time, tempAvg, humAvg, rainTotal float64) weather.Reading {
	return weather.Reading{
		Timestamp: ts,
		Source:    "nea",
		Data: weather.ReadingData{
			Temperature: weather.NewAverageBlock([]weather.StationReading{
				{Station: "S109", Value: tempAvg},
			}, "°C"),
			Humidity: weather.NewAverageBlock([]weather.StationReading{
				{Station: "S109", Value: humAvg},
			}, "%"),
			Rainfall: weather.NewTotalBlock([]weather.StationReading{
				{Station: "S111", Value: rainTotal},
			}, "mm"),
		},
		Reliability: weather.ReliabilityHigh,
		DataQuality: weather.QualityMeasured,
	}
}

func TestDailySummary_AppendRecomputesStatistics(t *testing.T) {
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	summary := weather.NewDailySummary("2026-08-31")

	summary.Append(readingWithAverages(day.Add(10*time.Hour), 28.0, 85.0, 1.5))
	summary.Append(readingWithAverages(day.Add(11*time.Hour), 30.0, 75.0, 0.5))

	require.Len(t, summary.Readings, 2)

	temp := summary.Statistics.Temperature
	require.NotNil(t, temp)
	assert.Equal(t, 29.0, temp.Average, "daily average is the mean of the readings' averages")
	assert.Equal(t, 28.0, temp.Min)
	assert.Equal(t, 30.0, temp.Max)
	assert.Equal(t, 2, temp.Count)

	hum := summary.Statistics.Humidity
	require.NotNil(t, hum)
	assert.Equal(t, 80.0, hum.Average)

	rain := summary.Statistics.Rainfall
	require.NotNil(t, rain)
	assert.InDelta(t, 2.0, rain.Total, 1e-9)
	assert.InDelta(t, 1.5, rain.Max, 1e-9)
}

func TestDailySummary_SkipsMetricsWithoutData(t *testing.T) {
	summary := weather.NewDailySummary("2026-08-31")

	// A reading where only temperature succeeded.
	summary.Append(weather.Reading{
		Timestamp: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
		Data: weather.ReadingData{
			Temperature: weather.NewAverageBlock([]weather.StationReading{
				{Station: "S109", Value: 29.5},
			}, "°C"),
		},
	})

	assert.NotNil(t, summary.Statistics.Temperature)
	assert.Nil(t, summary.Statistics.Humidity)
	assert.Nil(t, summary.Statistics.Rainfall)
}

func TestDailySummary_UpdatedAtAdvances(t *testing.T) {
	summary := weather.NewDailySummary("2026-08-31")
	require.True(t, summary.UpdatedAt.IsZero())

	summary.Append(readingWithAverages(time.Now().UTC(), 29, 80, 0))
	assert.False(t, summary.UpdatedAt.IsZero())
}
