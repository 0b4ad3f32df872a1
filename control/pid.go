package control

import (
	"github.com/samber/lo"

	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/utils"
)

// PIDState is the memory a SteeringController carries between ticks.
type PIDState struct {
	PreviousError float64
	Integral      float64
	ResetPending  bool
}

// A SteeringController is a PID on the lane angle. The integral is zeroed whenever the
// error changes sign and only accumulates while it stays inside the configured limit.
// Output gain falls off with speed.
type SteeringController struct {
	cfg   config.PIDConfig
	state PIDState
}

// NewSteeringController returns a controller with zeroed state.
func NewSteeringController(cfg config.PIDConfig) *SteeringController {
	return &SteeringController{cfg: cfg}
}

// RequestReset makes the next Update restart from its own angle with an empty integral,
// so regaining the lane causes no derivative or integral kick.
func (c *SteeringController) RequestReset() {
	c.state.ResetPending = true
}

// State returns a copy of the controller memory.
func (c *SteeringController) State() PIDState {
	return c.state
}

// SetConfig swaps the gains. The controller memory is kept.
func (c *SteeringController) SetConfig(cfg config.PIDConfig) {
	c.cfg = cfg
}

// Update returns the steering demand in radians for a known lane angle at the given
// speed in km/h.
func (c *SteeringController) Update(angle, speedKPH float64) float64 {
	if c.state.ResetPending {
		c.state.PreviousError = angle
		c.state.Integral = 0
		c.state.ResetPending = false
	}

	if !utils.SameSign(angle, c.state.PreviousError) {
		c.state.Integral = 0
	}

	diff := angle - c.state.PreviousError
	if next := c.state.Integral + angle; next > -c.cfg.IntegralLimit && next < c.cfg.IntegralLimit {
		c.state.Integral = next
	}
	c.state.PreviousError = angle

	base := c.cfg.Kp*angle + c.cfg.Ki*c.state.Integral + c.cfg.Kd*diff
	return base * c.GainScale(speedKPH)
}

// GainScale is 1 at standstill and falls linearly to MinGainScale at FullScaleSpeed.
// Reversing uses full gain.
func (c *SteeringController) GainScale(speedKPH float64) float64 {
	normalized := lo.Clamp(speedKPH/c.cfg.FullScaleSpeed, 0, 1)
	return 1 - (1-c.cfg.MinGainScale)*normalized
}
