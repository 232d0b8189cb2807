package weather_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgweather/sgweather/internal/weather"
)

func TestNewAverageBlock(t *testing.T) {
	block := weather.NewAverageBlock([]weather.StationReading{
		{Station: "S109", Value: 29.5},
		{Station: "S24", Value: 30.5},
	}, "°C")

	require.NotNil(t, block.Average)
	assert.Equal(t, 30.0, *block.Average)
	assert.Nil(t, block.Total)
	assert.Len(t, block.Readings, 2)
}

func TestNewAverageBlock_Empty(t *testing.T) {
	block := weather.NewAverageBlock(nil, "°C")

	assert.Nil(t, block.Average)
	assert.Empty(t, block.Readings)
}

func TestNewTotalBlock(t *testing.T) {
	block := weather.NewTotalBlock([]weather.StationReading{
		{Station: "S111", Value: 0.2},
		{Station: "S50", Value: 1.8},
	}, "mm")

	require.NotNil(t, block.Total)
	assert.InDelta(t, 2.0, *block.Total, 1e-9)
	assert.Nil(t, block.Average)
}

func TestReading_Date(t *testing.T) {
	r := weather.Reading{
		Timestamp: time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC),
	}
	assert.Equal(t, "2026-08-31", r.Date())
}

func TestReading_JSONRoundTrip(t *testing.T) {
	reading := weather.Reading{
		CycleID:          "abc-123",
		Timestamp:        time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC),
		Source:           "nea",
		CollectionTimeMS: 4210,
		Data: weather.ReadingData{
			Temperature: weather.NewAverageBlock([]weather.StationReading{
				{Station: "S109", Value: 29.5},
			}, "°C"),
			Forecast: &weather.ForecastBlock{
				Summary:   "Thundery showers",
				LowTempC:  25,
				HighTempC: 33,
			},
		},
		SuccessfulCalls: 2,
		FailedCalls:     2,
		Reliability:     weather.ReliabilityPartial,
		DataQuality:     weather.QualityMeasured,
	}

	payload, err := json.Marshal(reading)
	require.NoError(t, err)

	var decoded weather.Reading
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, reading, decoded)
}
