package control

import (
	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/perception"
	"github.com/viamrobotics/autodrive/utils"
)

// An AngleFilter is a moving average over the last few lane angles. Losing the lane
// clears its history so stale angles never leak into the next detection.
type AngleFilter struct {
	avg *utils.RollingAverage
}

// NewAngleFilter returns a filter of the configured depth.
func NewAngleFilter(cfg config.FilterConfig) *AngleFilter {
	return &AngleFilter{avg: utils.NewRollingAverage(cfg.Depth)}
}

// Next smooths raw. An unknown sample clears the history and is returned as is. The
// history starts cleared, so the first samples after a reset ramp up from zero.
func (f *AngleFilter) Next(raw perception.Angle) perception.Angle {
	rad, ok := raw.Radians()
	if !ok {
		f.avg.Reset()
		return perception.Unknown()
	}
	f.avg.Add(rad)
	return perception.Known(f.avg.Average())
}

// Reset clears the history.
func (f *AngleFilter) Reset() {
	f.avg.Reset()
}

// Depth returns how many samples are averaged.
func (f *AngleFilter) Depth() int {
	return f.avg.NumSamples()
}
