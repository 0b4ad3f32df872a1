// Package perception turns camera frames and range scans into the two readings the
// pilot steers by: the lane angle and the frontal obstacle.
package perception

import (
	"fmt"
	"image"
)

// An Angle is a signed heading offset in radians that may be unknown. The zero value is unknown.
type Angle struct {
	rad   float64
	known bool
}

// Known returns an angle with a value.
func Known(rad float64) Angle {
	return Angle{rad: rad, known: true}
}

// Unknown returns the angle reported when there is no evidence.
func Unknown() Angle {
	return Angle{}
}

// Radians returns the value and whether it is known.
func (a Angle) Radians() (float64, bool) {
	return a.rad, a.known
}

// IsKnown reports whether the angle carries a value.
func (a Angle) IsKnown() bool {
	return a.known
}

func (a Angle) String() string {
	if !a.known {
		return "unknown"
	}
	return fmt.Sprintf("%.4frad", a.rad)
}

// An Obstacle is what the range sensor sees ahead. The zero value means nothing was seen.
type Obstacle struct {
	Angle    float64
	Distance float64
	Present  bool
}

func (o Obstacle) String() string {
	if !o.Present {
		return "clear"
	}
	return fmt.Sprintf("obstacle at %.4frad, %.2f away", o.Angle, o.Distance)
}

// A Frame is a camera image with the horizontal field of view it covers, in radians.
type Frame struct {
	Image       image.Image
	FieldOfView float64
}

// A Scan is one sweep of range readings ordered left to right across FieldOfView radians.
type Scan struct {
	Ranges      []float64
	FieldOfView float64
}
