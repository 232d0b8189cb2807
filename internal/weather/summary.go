package weather

import (
	"math"
	"time"
)

// MetricStatistics holds min/max/average over one day's reading aggregates.
type MetricStatistics struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// RainfallStatistics accumulates rainfall over one day.
type RainfallStatistics struct {
	Total float64 `json:"total"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Statistics are the derived rolling aggregates of a DailySummary. A nil
// metric means no reading that day carried data for it.
type Statistics struct {
	Temperature *MetricStatistics   `json:"temperature,omitempty"`
	Humidity    *MetricStatistics   `json:"humidity,omitempty"`
	Rainfall    *RainfallStatistics `json:"rainfall,omitempty"`
}

// DailySummary accumulates one UTC day's Readings plus derived statistics.
// It is created on the first write of the day, appended to on each cycle, and
// superseded at day rollover.
type DailySummary struct {
	Date       string     `json:"date"`
	Readings   []Reading  `json:"readings"`
	Statistics Statistics `json:"statistics"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewDailySummary creates an empty summary for the given date key.
func NewDailySummary(date string) *DailySummary {
	return &DailySummary{Date: date}
}

// Append folds a Reading into the summary and recomputes statistics across
// all of the day's readings.
func (s *DailySummary) Append(r Reading) {
	s.Readings = append(s.Readings, r)
	s.Statistics = computeStatistics(s.Readings)
	s.UpdatedAt = time.Now().UTC()
}

// computeStatistics derives min/max/average over the per-reading aggregates:
// the daily temperature average is the mean of each reading's temperature
// average, and the daily rainfall total is the sum of each reading's total.
func computeStatistics(readings []Reading) Statistics {
	var stats Statistics

	temp := newAccumulator()
	hum := newAccumulator()
	var rain *RainfallStatistics

	for i := range readings {
		data := readings[i].Data
		if data.Temperature != nil && data.Temperature.Average != nil {
			temp.add(*data.Temperature.Average)
		}
		if data.Humidity != nil && data.Humidity.Average != nil {
			hum.add(*data.Humidity.Average)
		}
		if data.Rainfall != nil && data.Rainfall.Total != nil {
			if rain == nil {
				rain = &RainfallStatistics{}
			}
			rain.Total += *data.Rainfall.Total
			rain.Max = math.Max(rain.Max, *data.Rainfall.Total)
			rain.Count++
		}
	}

	stats.Temperature = temp.result()
	stats.Humidity = hum.result()
	stats.Rainfall = rain
	return stats
}

type accumulator struct {
	min, max, sum float64
	count         int
}

func newAccumulator() *accumulator {
	return &accumulator{min: math.Inf(1), max: math.Inf(-1)}
}

func (a *accumulator) add(v float64) {
	a.min = math.Min(a.min, v)
	a.max = math.Max(a.max, v)
	a.sum += v
	a.count++
}

func (a *accumulator) result() *MetricStatistics {
	if a.count == 0 {
		return nil
	}
	return &MetricStatistics{
		Min:     a.min,
		Max:     a.max,
		Average: a.sum / float64(a.count),
		Count:   a.count,
	}
}
