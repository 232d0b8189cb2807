package weather

import "time"

// Singapore sits one degree north of the equator; the diurnal cycle is narrow
// and predictable enough that a time-of-day estimate is a usable last resort.
const (
	baselineTempC    = 27.5
	baselineHumidity = 80.0
	baselineStation  = "ESTIMATED"
	baselineSource   = "emergency_baseline"
)

// NewEmergencyBaseline synthesizes a degraded Reading from time-of-day
// heuristics. It is used only when both the primary and secondary sources
// fail, and always carries reliability "emergency_mode", quality "estimated",
// and a non-nil Errors field so consumers cannot mistake it for real data.
func NewEmergencyBaseline(now time.Time, errs ReadingErrors) *Reading {
	hour := now.In(singaporeTZ()).Hour()

	temp := baselineTempC + tempOffset(hour)
	humidity := clamp(baselineHumidity+humidityOffset(hour), 0, 100)

	tempBlock := NewAverageBlock([]StationReading{{Station: baselineStation, Value: temp}}, "°C")
	humBlock := NewAverageBlock([]StationReading{{Station: baselineStation, Value: humidity}}, "%")
	rainBlock := NewTotalBlock([]StationReading{{Station: baselineStation, Value: 0}}, "mm")

	return &Reading{
		Timestamp:   now.UTC(),
		Source:      baselineSource,
		Data:        ReadingData{Temperature: tempBlock, Humidity: humBlock, Rainfall: rainBlock},
		Reliability: ReliabilityEmergency,
		DataQuality: QualityEstimated,
		Errors:      &errs,
	}
}

// tempOffset approximates the diurnal temperature curve: coolest before dawn,
// peaking mid-afternoon.
func tempOffset(hour int) float64 {
	switch {
	case hour < 7:
		return -1.5
	case hour < 12:
		return 1.0
	case hour < 17:
		return 4.0
	case hour < 21:
		return 1.5
	default:
		return 0
	}
}

// humidityOffset is roughly inverse to temperature: saturated mornings,
// drier afternoons.
func humidityOffset(hour int) float64 {
	switch {
	case hour < 7:
		return 10.0
	case hour < 12:
		return 5.0
	case hour < 17:
		return -15.0
	case hour < 21:
		return -5.0
	default:
		return 5.0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func singaporeTZ() *time.Location {
	loc, err := time.LoadLocation("Asia/Singapore")
	if err != nil {
		return time.FixedZone("SGT", 8*60*60)
	}
	return loc
}
