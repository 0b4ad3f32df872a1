package control

import "github.com/viamrobotics/autodrive/config"

// A SpeedPlanner slows down for curves and recovers cruise speed gradually on straights.
type SpeedPlanner struct {
	cfg config.PlannerConfig
}

// NewSpeedPlanner returns a planner using the given thresholds.
func NewSpeedPlanner(cfg config.PlannerConfig) *SpeedPlanner {
	return &SpeedPlanner{cfg: cfg}
}

// Plan returns the next target speed for a known lane angle.
func (p *SpeedPlanner) Plan(angle, cruise, current float64) float64 {
	curvature := angle
	if curvature < 0 {
		curvature = -curvature
	}
	switch {
	case curvature > p.cfg.SharpTurn:
		return max(p.cfg.SharpFloor, current-p.cfg.SharpDecelStep)
	case curvature > p.cfg.ModerateTurn:
		return max(p.cfg.ModerateFloor, current-p.cfg.ModerateDecelStep)
	case current < cruise:
		return min(cruise, current+p.cfg.AccelStep)
	default:
		return current
	}
}

// Cruise returns the configured cruise speed.
func (p *SpeedPlanner) Cruise() float64 {
	return p.cfg.CruiseSpeed
}
