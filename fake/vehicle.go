package fake

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/viamrobotics/autodrive/drive"
)

// VehicleConfig describes the simulated vehicle.
type VehicleConfig struct {
	// SpeedLag is the time constant of the speed response. Zero reaches the target at once.
	SpeedLag time.Duration
	// BrakeDecel is the deceleration at full brake in km/h per second.
	BrakeDecel float64
	Wheelbase  float64
	Track      Track
}

// DefaultVehicleConfig is a small car on a 300 m oval.
func DefaultVehicleConfig() VehicleConfig {
	return VehicleConfig{
		SpeedLag:   800 * time.Millisecond,
		BrakeDecel: 40,
		Wheelbase:  2.6,
		Track:      OvalTrack(80, 25),
	}
}

// VehicleState is a snapshot of the simulation.
type VehicleState struct {
	Command drive.Command
	// Speed is in km/h.
	Speed float64
	// Heading is the angle between the vehicle and the lane, positive when turned right of it.
	Heading  float64
	Distance float64
}

// A Vehicle integrates the commands it is given over time. It is both the actuator and the
// GPS of the simulation. Time only advances when the vehicle is observed or commanded.
type Vehicle struct {
	cfg   VehicleConfig
	clock clock.Clock

	mu    sync.Mutex
	last  time.Time
	state VehicleState
}

// NewVehicle returns a vehicle at rest at the start of the track.
func NewVehicle(cfg VehicleConfig, clk clock.Clock) *Vehicle {
	if clk == nil {
		clk = clock.New()
	}
	return &Vehicle{cfg: cfg, clock: clk, last: clk.Now()}
}

// Apply advances the simulation and then takes cmd as the new command.
func (v *Vehicle) Apply(ctx context.Context, cmd drive.Command) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.advance()
	v.state.Command = cmd
	return nil
}

// SpeedMPS returns the ground speed in meters per second.
func (v *Vehicle) SpeedMPS(ctx context.Context) (float64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.advance()
	return v.state.Speed / 3.6, nil
}

// State advances the simulation and returns it.
func (v *Vehicle) State() VehicleState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.advance()
	return v.state
}

func (v *Vehicle) advance() {
	now := v.clock.Now()
	dt := now.Sub(v.last).Seconds()
	if dt <= 0 {
		return
	}
	v.last = now

	s := &v.state
	alpha := 1.0
	if v.cfg.SpeedLag > 0 {
		alpha = min(1, dt/v.cfg.SpeedLag.Seconds())
	}
	s.Speed += (s.Command.TargetSpeed - s.Speed) * alpha
	decel := s.Command.Brake * v.cfg.BrakeDecel * dt
	if s.Speed > 0 {
		s.Speed = max(0, s.Speed-decel)
	} else {
		s.Speed = min(0, s.Speed+decel)
	}

	mps := s.Speed / 3.6
	yawRate := 0.0
	if v.cfg.Wheelbase > 0 {
		yawRate = mps * math.Tan(s.Command.Steering) / v.cfg.Wheelbase
	}
	s.Heading += (yawRate - v.cfg.Track.Curvature(s.Distance)*mps) * dt
	s.Distance += math.Abs(mps) * dt
}
