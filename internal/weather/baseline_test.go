package weather_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgweather/sgweather/internal/weather"
)

// sgt builds a timestamp at the given Singapore local hour.
func sgt(hour int) time.Time {
	loc := time.FixedZone("SGT", 8*60*60)
	return time.Date(2026, 8, 31, hour, 0, 0, 0, loc)
}

func TestNewEmergencyBaseline_Tags(t *testing.T) {
	errs := weather.ReadingErrors{Primary: "all endpoints failed", Secondary: "not configured"}
	reading := weather.NewEmergencyBaseline(sgt(14), errs)

	assert.Equal(t, weather.ReliabilityEmergency, reading.Reliability)
	assert.Equal(t, weather.QualityEstimated, reading.DataQuality)
	assert.Equal(t, "emergency_baseline", reading.Source)
	require.NotNil(t, reading.Errors)
	assert.Equal(t, "all endpoints failed", reading.Errors.Primary)
}

func TestNewEmergencyBaseline_DiurnalCurve(t *testing.T) {
	errs := weather.ReadingErrors{Primary: "down"}

	afternoon := weather.NewEmergencyBaseline(sgt(14), errs)
	predawn := weather.NewEmergencyBaseline(sgt(4), errs)

	require.NotNil(t, afternoon.Data.Temperature)
	require.NotNil(t, predawn.Data.Temperature)
	require.NotNil(t, afternoon.Data.Temperature.Average)
	require.NotNil(t, predawn.Data.Temperature.Average)

	assert.Greater(t, *afternoon.Data.Temperature.Average, *predawn.Data.Temperature.Average,
		"afternoon estimate must exceed the pre-dawn one")
	assert.Less(t, *afternoon.Data.Humidity.Average, *predawn.Data.Humidity.Average,
		"humidity runs inverse to temperature")
}

func TestNewEmergencyBaseline_HumidityWithinBounds(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		reading := weather.NewEmergencyBaseline(sgt(hour), weather.ReadingErrors{Primary: "down"})
		h := *reading.Data.Humidity.Average
		assert.GreaterOrEqual(t, h, 0.0)
		assert.LessOrEqual(t, h, 100.0)
	}
}
