package types

import "time"

// A single cumulative meter reading.
type EnergyReading struct {
	Timestamp time.Time `json:"timestamp"`
	KWh       float64   `json:"kwh"`
}

// Ordered by timestamp, oldest first. Callers are responsible for the ordering.
type EnergySeries []EnergyReading

// Feed is one named source of cumulative energy readings.
type Feed struct {
	Name   string
	Energy EnergySeries
}

// PowerPoint is a power value aligned to a position of the source energy series.
// Defined is false for holes, in which case KW carries no meaning.
type PowerPoint struct {
	Timestamp time.Time `json:"timestamp"`
	KW        float64   `json:"kw"`
	Defined   bool      `json:"defined"`
}

type PowerSeries struct {
	Name   string
	Points []PowerPoint
}

// Defined returns the points that carry a value, in order.
func (s PowerSeries) Defined() []PowerPoint {
	defined := make([]PowerPoint, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Defined {
			defined = append(defined, p)
		}
	}
	return defined
}

// Len counts the defined points.
func (s PowerSeries) Len() int {
	n := 0
	for _, p := range s.Points {
		if p.Defined {
			n++
		}
	}
	return n
}
