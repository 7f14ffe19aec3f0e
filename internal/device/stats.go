package device

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes recent tick activity. Purely descriptive; nothing here
// feeds back into aging behavior.
type Stats struct {
	Ticks       uint64  `json:"ticks"`
	Age         float64 `json:"age"`
	UptimeSec   float64 `json:"uptime_seconds"`
	AgePerSec   float64 `json:"age_per_second"`
	WindowSize  int     `json:"window_size"`
	MeanDelta   float64 `json:"mean_delta"`
	StdDevDelta float64 `json:"stddev_delta"`
	MinDelta    float64 `json:"min_delta"`
	MaxDelta    float64 `json:"max_delta"`
}

// Stats computes summary statistics over the retained delta window.
func (d *Device) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := Stats{
		Ticks:      d.ticks,
		Age:        d.age,
		UptimeSec:  time.Since(d.bornAt).Seconds(),
		WindowSize: len(d.history),
	}
	if s.UptimeSec > 0 {
		s.AgePerSec = d.age / s.UptimeSec
	}
	if len(d.history) == 0 {
		return s
	}

	s.MeanDelta = stat.Mean(d.history, nil)
	if len(d.history) > 1 {
		s.StdDevDelta = stat.StdDev(d.history, nil)
	}
	s.MinDelta = floats.Min(d.history)
	s.MaxDelta = floats.Max(d.history)
	return s
}
