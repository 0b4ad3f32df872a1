package perception

import (
	"image/color"

	"github.com/viamrobotics/autodrive/config"
)

// A LaneDetector estimates the lane heading from light, unsaturated pixels near the bottom of a frame.
type LaneDetector struct {
	cfg config.LaneConfig
}

// NewLaneDetector returns a detector using the given thresholds.
func NewLaneDetector(cfg config.LaneConfig) *LaneDetector {
	return &LaneDetector{cfg: cfg}
}

type bucket struct {
	sum, count int
}

func (b *bucket) add(x int) {
	b.sum += x
	b.count++
}

// Detect returns the lane angle of frame, or Unknown if no marking is visible.
//
// Marking pixels left of center and right of center are bucketed separately. With both
// sides visible the lane center is their common mean. With one side visible the center
// is extrapolated away from it by width/ExtrapolationDivisor. The center is then placed
// within the middle third of the frame and scaled by the part of the field of view that
// third covers.
func (d *LaneDetector) Detect(frame Frame) Angle {
	if frame.Image == nil {
		return Unknown()
	}
	bounds := frame.Image.Bounds()
	width := bounds.Dx()
	if width < 3 || bounds.Dy() == 0 {
		return Unknown()
	}

	center := width / 2
	var left, right bucket
	top := bounds.Max.Y - d.cfg.ScanRows
	if top < bounds.Min.Y {
		top = bounds.Min.Y
	}
	for y := top; y < bounds.Max.Y; y++ {
		for x := 0; x < width; x++ {
			if !d.isMarking(frame.Image.At(bounds.Min.X+x, y)) {
				continue
			}
			if x < center {
				left.add(x)
			} else {
				right.add(x)
			}
		}
	}

	var laneCenter int
	offset := int(float64(width) / d.cfg.ExtrapolationDivisor)
	switch {
	case left.count == 0 && right.count == 0:
		return Unknown()
	case left.count == 0:
		laneCenter = right.sum/right.count - offset
	case right.count == 0:
		laneCenter = left.sum/left.count + offset
	default:
		laneCenter = (left.sum + right.sum) / (left.count + right.count)
	}

	leftBound := width / 3
	regionWidth := 2*width/3 - leftBound
	normalized := float64(laneCenter-leftBound) / float64(regionWidth)
	return Known((normalized - 0.5) * frame.FieldOfView * float64(regionWidth) / float64(width))
}

func (d *LaneDetector) isMarking(c color.Color) bool {
	// alpha is ignored
	px := color.NRGBAModel.Convert(c).(color.NRGBA)
	r, g, b := int(px.R), int(px.G), int(px.B)
	intensity := (r + g + b) / 3
	saturation := max(r, g, b) - min(r, g, b)
	return float64(intensity) > d.cfg.MinIntensity && float64(saturation) < d.cfg.MaxSaturation
}
