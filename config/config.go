// Package config defines the tuning of the autodrive pipeline. Every constant the pipeline
// depends on has a default here; a JSON file only needs to name the values it changes.
package config

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/viamrobotics/autodrive/logging"
)

// Config is the root configuration.
type Config struct {
	Lane     LaneConfig                    `json:"lane"`
	Obstacle ObstacleConfig                `json:"obstacle"`
	Filter   FilterConfig                  `json:"filter"`
	PID      PIDConfig                     `json:"pid"`
	Planner  PlannerConfig                 `json:"planner"`
	Fusion   FusionConfig                  `json:"fusion"`
	Limits   LimitsConfig                  `json:"limits"`
	Manual   ManualConfig                  `json:"manual"`
	Gamepad  GamepadConfig                 `json:"gamepad"`
	Schedule ScheduleConfig                `json:"schedule"`
	Recorder RecorderConfig                `json:"recorder"`
	Log      []logging.LoggerPatternConfig `json:"log"`
}

// LaneConfig tunes the lane marking heuristic. The thresholds are empirical.
type LaneConfig struct {
	// ScanRows is how many rows, counted up from the bottom of the frame, are inspected.
	ScanRows int `json:"scan_rows"`
	// A pixel is marking evidence when mean(R,G,B) > MinIntensity and
	// max(R,G,B)-min(R,G,B) < MaxSaturation.
	MinIntensity  float64 `json:"min_intensity"`
	MaxSaturation float64 `json:"max_saturation"`
	// ExtrapolationDivisor places the lane center width/ExtrapolationDivisor pixels away
	// from a single visible marking.
	ExtrapolationDivisor float64 `json:"extrapolation_divisor"`
}

// ObstacleConfig tunes the frontal range check.
type ObstacleConfig struct {
	// HalfWindow samples either side of the scan center are inspected.
	HalfWindow int `json:"half_window"`
	// Readings closer than MaxRange count as hits.
	MaxRange float64 `json:"max_range"`
}

// FilterConfig tunes the lane angle moving average.
type FilterConfig struct {
	Depth int `json:"depth"`
}

// PIDConfig tunes the line following controller.
type PIDConfig struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`
	// The integral only accumulates while it stays strictly inside (-IntegralLimit, IntegralLimit).
	IntegralLimit float64 `json:"integral_limit"`
	// Gain falls linearly from 1 at standstill to MinGainScale at FullScaleSpeed km/h.
	MinGainScale   float64 `json:"min_gain_scale"`
	FullScaleSpeed float64 `json:"full_scale_speed_kph"`
}

// PlannerConfig tunes curvature aware speed planning. Speeds are km/h.
type PlannerConfig struct {
	CruiseSpeed       float64 `json:"cruise_speed_kph"`
	SharpTurn         float64 `json:"sharp_turn_rad"`
	ModerateTurn      float64 `json:"moderate_turn_rad"`
	SharpFloor        float64 `json:"sharp_floor_kph"`
	ModerateFloor     float64 `json:"moderate_floor_kph"`
	SharpDecelStep    float64 `json:"sharp_decel_step_kph"`
	ModerateDecelStep float64 `json:"moderate_decel_step_kph"`
	AccelStep         float64 `json:"accel_step_kph"`
}

// FusionConfig tunes how obstacle avoidance and line following are reconciled.
type FusionConfig struct {
	// Obstacles with |angle| >= ActionableCone do not bias steering.
	ActionableCone  float64 `json:"actionable_cone_rad"`
	AvoidanceOffset float64 `json:"avoidance_offset_rad"`
	// LostBrake is applied while neither lane nor obstacle evidence exists.
	LostBrake float64 `json:"lost_brake"`
}

// LimitsConfig bounds every emitted command.
type LimitsConfig struct {
	MaxSteering     float64 `json:"max_steering_rad"`
	MaxSteeringStep float64 `json:"max_steering_step_rad"`
	MaxSpeed        float64 `json:"max_speed_kph"`
	// CrawlSpeed is commanded when the line is lost and autodrive disengages.
	CrawlSpeed float64 `json:"crawl_speed_kph"`
}

// ManualConfig tunes keyboard driving.
type ManualConfig struct {
	SpeedStep     float64 `json:"speed_step_kph"`
	SteerStep     float64 `json:"steer_step_rad"`
	MaxSteerSteps int     `json:"max_steer_steps"`
	// With CoastWhenIdle, a manual tick without input recenters steering and lets speed
	// decay toward zero by CoastStep.
	CoastWhenIdle bool    `json:"coast_when_idle"`
	CoastStep     float64 `json:"coast_step_kph"`
}

// GamepadConfig tunes gamepad driving. Axis values are normalized to [-1, 1].
type GamepadConfig struct {
	SteerScale       float64 `json:"steer_scale_rad"`
	TriggerStep      float64 `json:"trigger_step_kph"`
	TriggerMaxSpeed  float64 `json:"trigger_max_speed_kph"`
	TriggerThreshold float64 `json:"trigger_threshold"`
}

// ScheduleConfig sets the two loop rates.
type ScheduleConfig struct {
	ActuationPeriod  time.Duration `json:"actuation_period"`
	PerceptionPeriod time.Duration `json:"perception_period"`
	// ParallelPerception runs the lane and obstacle detectors concurrently.
	ParallelPerception bool `json:"parallel_perception"`
}

// RecorderConfig configures the trip recorder. An empty Path disables recording.
type RecorderConfig struct {
	Path             string  `json:"path"`
	MaxDistanceMeter float64 `json:"max_distance_m"`
}

// Default returns the configuration the vehicle was tuned with.
func Default() *Config {
	return &Config{
		Lane: LaneConfig{
			ScanRows:             10,
			MinIntensity:         120,
			MaxSaturation:        60,
			ExtrapolationDivisor: 1.2,
		},
		Obstacle: ObstacleConfig{
			HalfWindow: 20,
			MaxRange:   10,
		},
		Filter: FilterConfig{Depth: 3},
		PID: PIDConfig{
			Kp:             0.25,
			Ki:             0.006,
			Kd:             2,
			IntegralLimit:  30,
			MinGainScale:   0.5,
			FullScaleSpeed: 100,
		},
		Planner: PlannerConfig{
			CruiseSpeed:       50,
			SharpTurn:         0.25,
			ModerateTurn:      0.1,
			SharpFloor:        20,
			ModerateFloor:     35,
			SharpDecelStep:    1.0,
			ModerateDecelStep: 0.5,
			AccelStep:         0.5,
		},
		Fusion: FusionConfig{
			ActionableCone:  0.4,
			AvoidanceOffset: 0.25,
			LostBrake:       0.4,
		},
		Limits: LimitsConfig{
			MaxSteering:     0.5,
			MaxSteeringStep: 0.1,
			MaxSpeed:        150,
			CrawlSpeed:      10,
		},
		Manual: ManualConfig{
			SpeedStep:     5,
			SteerStep:     0.02,
			MaxSteerSteps: 25,
			CoastWhenIdle: true,
			CoastStep:     5,
		},
		Gamepad: GamepadConfig{
			SteerScale:       0.5,
			TriggerStep:      2,
			TriggerMaxSpeed:  100,
			TriggerThreshold: 1000.0 / 32767.0,
		},
		Schedule: ScheduleConfig{
			ActuationPeriod:  10 * time.Millisecond,
			PerceptionPeriod: 50 * time.Millisecond,
		},
		Recorder: RecorderConfig{
			MaxDistanceMeter: 500,
		},
	}
}

// PerceptionEvery returns how many actuation ticks make up one perception tick.
func (s ScheduleConfig) PerceptionEvery() int {
	if s.ActuationPeriod <= 0 {
		return 1
	}
	n := int(s.PerceptionPeriod / s.ActuationPeriod)
	if n < 1 {
		return 1
	}
	return n
}

func positive(field string, v float64) error {
	if v <= 0 {
		return errors.Errorf("%s must be positive, got %v", field, v)
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if v < 0 {
		return errors.Errorf("%s must not be negative, got %v", field, v)
	}
	return nil
}

func within(field string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return errors.Errorf("%s must be in [%v, %v], got %v", field, lo, hi, v)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	errs := []error{
		positive("lane.scan_rows", float64(c.Lane.ScanRows)),
		within("lane.min_intensity", c.Lane.MinIntensity, 0, 255),
		within("lane.max_saturation", c.Lane.MaxSaturation, 0, 255),
		positive("lane.extrapolation_divisor", c.Lane.ExtrapolationDivisor),

		positive("obstacle.half_window", float64(c.Obstacle.HalfWindow)),
		positive("obstacle.max_range", c.Obstacle.MaxRange),

		positive("filter.depth", float64(c.Filter.Depth)),

		nonNegative("pid.kp", c.PID.Kp),
		nonNegative("pid.ki", c.PID.Ki),
		nonNegative("pid.kd", c.PID.Kd),
		positive("pid.integral_limit", c.PID.IntegralLimit),
		within("pid.min_gain_scale", c.PID.MinGainScale, 0, 1),
		positive("pid.full_scale_speed_kph", c.PID.FullScaleSpeed),

		positive("planner.cruise_speed_kph", c.Planner.CruiseSpeed),
		positive("planner.moderate_turn_rad", c.Planner.ModerateTurn),
		nonNegative("planner.sharp_floor_kph", c.Planner.SharpFloor),
		nonNegative("planner.moderate_floor_kph", c.Planner.ModerateFloor),
		nonNegative("planner.sharp_decel_step_kph", c.Planner.SharpDecelStep),
		nonNegative("planner.moderate_decel_step_kph", c.Planner.ModerateDecelStep),
		nonNegative("planner.accel_step_kph", c.Planner.AccelStep),

		positive("fusion.actionable_cone_rad", c.Fusion.ActionableCone),
		nonNegative("fusion.avoidance_offset_rad", c.Fusion.AvoidanceOffset),
		within("fusion.lost_brake", c.Fusion.LostBrake, 0, 1),

		positive("limits.max_steering_rad", c.Limits.MaxSteering),
		positive("limits.max_steering_step_rad", c.Limits.MaxSteeringStep),
		positive("limits.max_speed_kph", c.Limits.MaxSpeed),
		within("limits.crawl_speed_kph", c.Limits.CrawlSpeed, 0, c.Limits.MaxSpeed),

		nonNegative("manual.speed_step_kph", c.Manual.SpeedStep),
		nonNegative("manual.steer_step_rad", c.Manual.SteerStep),
		nonNegative("manual.max_steer_steps", float64(c.Manual.MaxSteerSteps)),
		nonNegative("manual.coast_step_kph", c.Manual.CoastStep),

		nonNegative("gamepad.steer_scale_rad", c.Gamepad.SteerScale),
		nonNegative("gamepad.trigger_step_kph", c.Gamepad.TriggerStep),
		within("gamepad.trigger_threshold", c.Gamepad.TriggerThreshold, 0, 1),

		positive("schedule.actuation_period", float64(c.Schedule.ActuationPeriod)),
		positive("schedule.perception_period", float64(c.Schedule.PerceptionPeriod)),

		nonNegative("recorder.max_distance_m", c.Recorder.MaxDistanceMeter),
	}
	if c.Planner.SharpTurn < c.Planner.ModerateTurn {
		errs = append(errs, errors.Errorf(
			"planner.sharp_turn_rad (%v) must not be below planner.moderate_turn_rad (%v)",
			c.Planner.SharpTurn, c.Planner.ModerateTurn))
	}
	if c.Schedule.PerceptionPeriod < c.Schedule.ActuationPeriod {
		errs = append(errs, errors.Errorf(
			"schedule.perception_period (%v) must not be shorter than schedule.actuation_period (%v)",
			c.Schedule.PerceptionPeriod, c.Schedule.ActuationPeriod))
	}
	for _, lpc := range c.Log {
		if !logging.ValidatePattern(lpc.Pattern) {
			errs = append(errs, errors.Errorf("log pattern %q is invalid", lpc.Pattern))
		}
		if _, err := logging.LevelFromString(lpc.Level); err != nil {
			errs = append(errs, errors.Wrapf(err, "log pattern %q", lpc.Pattern))
		}
	}
	return multierr.Combine(errs...)
}
