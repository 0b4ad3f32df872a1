package control

import (
	"github.com/samber/lo"

	"github.com/viamrobotics/autodrive/config"
)

// Limits bounds steering position, steering rate and speed.
type Limits struct {
	cfg config.LimitsConfig
}

// NewLimits returns limits from configuration.
func NewLimits(cfg config.LimitsConfig) *Limits {
	return &Limits{cfg: cfg}
}

// Steering moves from current toward requested by at most one step, then clamps to the
// steering range.
func (l *Limits) Steering(current, requested float64) float64 {
	step := lo.Clamp(requested-current, -l.cfg.MaxSteeringStep, l.cfg.MaxSteeringStep)
	return lo.Clamp(current+step, -l.cfg.MaxSteering, l.cfg.MaxSteering)
}

// Speed clamps a target speed in km/h to the allowed range.
func (l *Limits) Speed(kph float64) float64 {
	return lo.Clamp(kph, -l.cfg.MaxSpeed, l.cfg.MaxSpeed)
}

// Brake clamps a brake intensity to [0, 1].
func (l *Limits) Brake(intensity float64) float64 {
	return lo.Clamp(intensity, 0, 1)
}

// Crawl returns the speed to drop to when the lane is lost.
func (l *Limits) Crawl() float64 {
	return l.cfg.CrawlSpeed
}
