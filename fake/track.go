// Package fake implements simulated collaborators for the control loop: a vehicle that
// follows its commands with some lag, a camera and a range sensor that observe that vehicle
// on a track, and a display that shows notifications in the log.
package fake

import "math"

// A Segment is a stretch of road of constant curvature. Positive curvature bends right.
type Segment struct {
	Length    float64 `json:"length_m"`
	Curvature float64 `json:"curvature"`
}

// A Track is a closed loop of segments.
type Track struct {
	Segments []Segment `json:"segments"`
}

// OvalTrack is two straights joined by two half circles of the given radius.
func OvalTrack(straight, radius float64) Track {
	halfCircle := Segment{Length: math.Pi * radius, Curvature: 1 / radius}
	return Track{Segments: []Segment{
		{Length: straight},
		halfCircle,
		{Length: straight},
		halfCircle,
	}}
}

// Length returns the length of one lap in meters.
func (t Track) Length() float64 {
	var total float64
	for _, s := range t.Segments {
		total += s.Length
	}
	return total
}

// Curvature returns the curvature at distance meters along the track, wrapping around laps.
// An empty track is straight.
func (t Track) Curvature(distance float64) float64 {
	lap := t.Length()
	if lap <= 0 {
		return 0
	}
	for distance >= lap {
		distance -= lap
	}
	for distance < 0 {
		distance += lap
	}
	for _, s := range t.Segments {
		if distance < s.Length {
			return s.Curvature
		}
		distance -= s.Length
	}
	return 0
}
