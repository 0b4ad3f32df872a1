package fake

import (
	"context"
	"math"

	"github.com/viamrobotics/autodrive/perception"
)

// An Obstacle sits beside or on the track.
type Obstacle struct {
	// At is the distance along the track in meters.
	At float64 `json:"at_m"`
	// Bearing is where the obstacle is seen from the lane center, positive to the right.
	Bearing   float64 `json:"bearing"`
	HalfWidth float64 `json:"half_width"`
}

// LidarConfig describes the simulated range sensor.
type LidarConfig struct {
	Beams       int
	FieldOfView float64
	MaxRange    float64
}

// DefaultLidarConfig is a 180 beam scanner covering the camera's view.
func DefaultLidarConfig() LidarConfig {
	return LidarConfig{Beams: 180, FieldOfView: 1, MaxRange: 30}
}

// A Lidar scans for obstacles ahead of the vehicle. Beams without a return read +Inf.
type Lidar struct {
	vehicle   *Vehicle
	cfg       LidarConfig
	obstacles []Obstacle
}

// NewLidar returns a range sensor mounted on vehicle.
func NewLidar(vehicle *Vehicle, cfg LidarConfig, obstacles []Obstacle) *Lidar {
	return &Lidar{vehicle: vehicle, cfg: cfg, obstacles: obstacles}
}

// NextScan always returns a scan.
func (l *Lidar) NextScan(ctx context.Context) (perception.Scan, bool, error) {
	if err := ctx.Err(); err != nil {
		return perception.Scan{}, false, err
	}
	state := l.vehicle.State()
	ranges := make([]float64, l.cfg.Beams)
	for i := range ranges {
		ranges[i] = math.Inf(1)
	}
	for _, o := range l.obstacles {
		ahead := o.At - state.Distance
		if ahead <= 0 || ahead > l.cfg.MaxRange {
			continue
		}
		bearing := o.Bearing - state.Heading
		for i := range ranges {
			beam := (float64(i)/float64(l.cfg.Beams) - 0.5) * l.cfg.FieldOfView
			if math.Abs(beam-bearing) <= o.HalfWidth {
				ranges[i] = min(ranges[i], ahead)
			}
		}
	}
	return perception.Scan{Ranges: ranges, FieldOfView: l.cfg.FieldOfView}, true, nil
}
