// Package fusion reconciles the line following and obstacle avoidance steering demands.
//
// When both demands agree in direction the more aggressive one wins. When they disagree
// obstacle avoidance wins. Without any evidence the vehicle holds its steering and brakes.
package fusion

import (
	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/perception"
)

// A LineFollower turns a known lane angle into a steering demand.
type LineFollower interface {
	Update(angle, speedKPH float64) float64
}

// Source names which demand a Decision came from.
type Source int

// The sources of a steering decision.
const (
	// SourceHold keeps the current steering.
	SourceHold Source = iota
	SourceLane
	SourceObstacle
)

func (s Source) String() string {
	switch s {
	case SourceLane:
		return "lane"
	case SourceObstacle:
		return "obstacle"
	default:
		return "hold"
	}
}

// Inputs are the readings of one perception tick.
type Inputs struct {
	// Lane is the filtered lane angle.
	Lane     perception.Angle
	Obstacle perception.Obstacle
	// Steering is the current steering angle in radians.
	Steering float64
	// Speed is the actual speed in km/h.
	Speed float64
}

// A Decision is the outcome of Combine.
type Decision struct {
	Steering float64
	Brake    float64
	// ResetPID asks the line follower to forget its history before its next update.
	ResetPID bool
	Source   Source
}

// A Policy combines perception readings into a steering decision.
type Policy struct {
	cfg config.FusionConfig
}

// NewPolicy returns a policy with the given avoidance cone and braking.
func NewPolicy(cfg config.FusionConfig) *Policy {
	return &Policy{cfg: cfg}
}

// Combine decides the steering and brake for one tick. follower is only consulted when the
// lane angle is known.
func (p *Policy) Combine(in Inputs, follower LineFollower) Decision {
	lane, laneKnown := in.Lane.Radians()

	if in.Obstacle.Present {
		bias := p.Avoidance(in.Obstacle, in.Steering)
		if !laneKnown {
			return Decision{Steering: bias, ResetPID: true, Source: SourceObstacle}
		}
		follow := follower.Update(lane, in.Speed)
		switch {
		case bias > 0 && follow > 0:
			if follow > bias {
				return Decision{Steering: follow, Source: SourceLane}
			}
		case bias < 0 && follow < 0:
			if follow < bias {
				return Decision{Steering: follow, Source: SourceLane}
			}
		}
		return Decision{Steering: bias, Source: SourceObstacle}
	}

	if laneKnown {
		return Decision{Steering: follower.Update(lane, in.Speed), Source: SourceLane}
	}
	return Decision{Steering: in.Steering, Brake: p.cfg.LostBrake, ResetPID: true, Source: SourceHold}
}

// Avoidance returns the steering that turns away from obstacle. Obstacles dead ahead or
// outside the actionable cone leave steering unchanged. The correction shrinks with distance.
func (p *Policy) Avoidance(obstacle perception.Obstacle, steering float64) float64 {
	a := obstacle.Angle
	switch {
	case a > 0 && a < p.cfg.ActionableCone:
		return steering + (a-p.cfg.AvoidanceOffset)/obstacle.Distance
	case a < 0 && a > -p.cfg.ActionableCone:
		return steering + (a+p.cfg.AvoidanceOffset)/obstacle.Distance
	default:
		return steering
	}
}
