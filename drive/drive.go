// Package drive runs the autodrive pipeline. A Pilot owns all per-tick state and turns
// sensor snapshots and driver input into actuator commands. A Runner schedules it at two
// rates: a fast actuation tick that applies input and a slower perception tick that runs
// lane following and obstacle avoidance.
package drive

import (
	"context"
	"fmt"
	"time"

	"github.com/viamrobotics/autodrive/input"
	"github.com/viamrobotics/autodrive/perception"
)

// Mode says who is steering.
type Mode int

// The driving modes.
const (
	Autodrive Mode = iota
	Manual
)

func (m Mode) String() string {
	switch m {
	case Autodrive:
		return "autodrive"
	case Manual:
		return "manual"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// A Command is what the vehicle is asked to do until the next tick.
type Command struct {
	// Steering is in radians, positive to the right.
	Steering float64
	// TargetSpeed is in km/h.
	TargetSpeed float64
	// Brake is an intensity in [0, 1].
	Brake float64
}

func (c Command) String() string {
	return fmt.Sprintf("steer %.3frad speed %.1fkm/h brake %.2f", c.Steering, c.TargetSpeed, c.Brake)
}

// A CameraSource supplies camera frames. ok is false when no frame is available this tick.
type CameraSource interface {
	NextFrame(ctx context.Context) (frame perception.Frame, ok bool, err error)
}

// A RangeSource supplies range scans. ok is false when no scan is available this tick.
type RangeSource interface {
	NextScan(ctx context.Context) (scan perception.Scan, ok bool, err error)
}

// A SpeedSource reports the actual vehicle speed in km/h.
type SpeedSource interface {
	Speed(ctx context.Context) (float64, error)
}

// An InputSource reports the driver commands issued since it was last polled.
type InputSource interface {
	Poll(ctx context.Context) ([]input.Command, error)
}

// An Actuator carries out commands.
type Actuator interface {
	Apply(ctx context.Context, cmd Command) error
}

// NotificationKind is the kind of a Notification.
type NotificationKind int

// The notifications a Pilot emits.
const (
	LineLost NotificationKind = iota
	LineFound
	ModeChanged
)

func (k NotificationKind) String() string {
	switch k {
	case LineLost:
		return "LineLost"
	case LineFound:
		return "LineFound"
	case ModeChanged:
		return "ModeChanged"
	default:
		return fmt.Sprintf("NotificationKind(%d)", int(k))
	}
}

// A Notification tells a display what just happened.
type Notification struct {
	Kind NotificationKind
	// Mode is the mode after the event.
	Mode Mode
	Time time.Time
}

// A Notifier receives notifications. It is called on the control goroutine and must not block.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// A Snapshot is everything that happened in one perception tick.
type Snapshot struct {
	Tick        int64
	Time        time.Time
	Mode        Mode
	LineVisible bool
	// Lane is the filtered lane angle. It is unknown when perception did not run.
	Lane     perception.Angle
	Obstacle perception.Obstacle
	Command  Command
	// Speed is the actual speed in km/h.
	Speed float64
}

// A Recorder stores snapshots.
type Recorder interface {
	Record(ctx context.Context, snap Snapshot) error
}
