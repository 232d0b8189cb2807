// Package weather defines the domain model for collected Singapore weather
// data: per-cycle readings, daily summaries, and the emergency baseline used
// when every real source is down.
package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrShapeMismatch = errors.New("upstream payload does not match expected shape")
	ErrNoReadings    = errors.New("no station readings in payload")
)

// Metric identifies one of the collected weather metrics.
type Metric string

const (
	MetricTemperature Metric = "temperature"
	MetricHumidity    Metric = "humidity"
	MetricRainfall    Metric = "rainfall"
	MetricForecast    Metric = "forecast"
)

// Reliability tags how trustworthy a Reading is. The dashboard surfaces
// degradation through this field rather than by absence of data.
type Reliability string

const (
	// ReliabilityHigh means all primary endpoints answered.
	ReliabilityHigh Reliability = "high"

	// ReliabilityPartial means at least one primary endpoint failed.
	ReliabilityPartial Reliability = "partial"

	// ReliabilitySecondary means the reading came from the fallback provider.
	ReliabilitySecondary Reliability = "secondary"

	// ReliabilityEmergency means the reading was synthesized from time-of-day
	// heuristics because no real source was available.
	ReliabilityEmergency Reliability = "emergency_mode"
)

// DataQuality distinguishes measured station data from synthesized estimates.
type DataQuality string

const (
	QualityMeasured  DataQuality = "measured"
	QualityEstimated DataQuality = "estimated"
)

// StationReading is one station's value for a metric.
type StationReading struct {
	Station string  `json:"station"`
	Value   float64 `json:"value"`
}

// MetricBlock holds one metric's station readings plus its derived aggregate.
// Temperature and humidity carry an average; rainfall carries a total.
// Aggregates are computed only from the stations that actually reported.
type MetricBlock struct {
	Readings []StationReading `json:"readings"`
	Average  *float64         `json:"average,omitempty"`
	Total    *float64         `json:"total,omitempty"`
	Unit     string           `json:"unit,omitempty"`
}

// NewAverageBlock builds a metric block with an average aggregate.
func NewAverageBlock(readings []StationReading, unit string) *MetricBlock {
	block := &MetricBlock{Readings: readings, Unit: unit}
	if len(readings) > 0 {
		sum := 0.0
		for _, r := range readings {
			sum += r.Value
		}
		avg := sum / float64(len(readings))
		block.Average = &avg
	}
	return block
}

// NewTotalBlock builds a metric block with a total aggregate.
func NewTotalBlock(readings []StationReading, unit string) *MetricBlock {
	block := &MetricBlock{Readings: readings, Unit: unit}
	if len(readings) > 0 {
		total := 0.0
		for _, r := range readings {
			total += r.Value
		}
		block.Total = &total
	}
	return block
}

// ForecastBlock holds the islandwide 24-hour outlook. The forecast endpoint
// returns a general outlook rather than station readings, so it gets its own
// typed shape instead of being forced into the station metric structure.
type ForecastBlock struct {
	Summary     string    `json:"summary"`
	LowTempC    float64   `json:"low_temp_c"`
	HighTempC   float64   `json:"high_temp_c"`
	LowHumidity float64   `json:"low_humidity,omitempty"`
	MaxHumidity float64   `json:"max_humidity,omitempty"`
	ValidFrom   time.Time `json:"valid_from,omitempty"`
	ValidTo     time.Time `json:"valid_to,omitempty"`
}

// ReadingData holds the per-metric blocks of one Reading. A nil block means
// that metric's endpoint failed this cycle.
type ReadingData struct {
	Temperature *MetricBlock   `json:"temperature,omitempty"`
	Humidity    *MetricBlock   `json:"humidity,omitempty"`
	Rainfall    *MetricBlock   `json:"rainfall,omitempty"`
	Forecast    *ForecastBlock `json:"forecast,omitempty"`
}

// ReadingErrors describes why a degraded Reading was produced.
type ReadingErrors struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
}

// Reading is one collection cycle's assembled result. It is created once per
// cycle, immutable after assembly, and written to disk as-is.
type Reading struct {
	CycleID          string         `json:"cycle_id"`
	Timestamp        time.Time      `json:"timestamp"`
	Source           string         `json:"source"`
	CollectionTimeMS int64          `json:"collection_time_ms"`
	Data             ReadingData    `json:"data"`
	SuccessfulCalls  int            `json:"successful_calls"`
	FailedCalls      int            `json:"failed_calls"`
	Reliability      Reliability    `json:"reliability"`
	DataQuality      DataQuality    `json:"data_quality"`
	Errors           *ReadingErrors `json:"errors,omitempty"`
}

// Date returns the reading's UTC calendar date key (YYYY-MM-DD), used to
// select the daily summary it belongs to.
func (r *Reading) Date() string {
	return r.Timestamp.UTC().Format("2006-01-02")
}
