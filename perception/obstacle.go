package perception

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/viamrobotics/autodrive/config"
)

// An ObstacleDetector watches a narrow window at the center of a range scan.
type ObstacleDetector struct {
	cfg config.ObstacleConfig
}

// NewObstacleDetector returns a detector using the given window and range.
func NewObstacleDetector(cfg config.ObstacleConfig) *ObstacleDetector {
	return &ObstacleDetector{cfg: cfg}
}

// Detect reports the mean bearing and mean distance of every reading in the window that
// is closer than MaxRange. Non-finite and non-positive readings are not hits.
func (d *ObstacleDetector) Detect(scan Scan) Obstacle {
	width := len(scan.Ranges)
	if width == 0 {
		return Obstacle{}
	}
	from := max(width/2-d.cfg.HalfWindow, 0)
	to := min(width/2+d.cfg.HalfWindow, width)

	var indices, distances []float64
	for x := from; x < to; x++ {
		r := scan.Ranges[x]
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 || r >= d.cfg.MaxRange {
			continue
		}
		indices = append(indices, float64(x))
		distances = append(distances, r)
	}
	if len(indices) == 0 {
		return Obstacle{}
	}
	return Obstacle{
		Angle:    (stat.Mean(indices, nil)/float64(width) - 0.5) * scan.FieldOfView,
		Distance: stat.Mean(distances, nil),
		Present:  true,
	}
}
