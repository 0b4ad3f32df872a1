package fake

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/viamrobotics/autodrive/perception"
)

var (
	asphalt = color.NRGBA{R: 60, G: 60, B: 65, A: 255}
	paint   = color.NRGBA{R: 235, G: 235, B: 225, A: 255}
)

// CameraConfig describes the simulated camera.
type CameraConfig struct {
	Width, Height int
	FieldOfView   float64
	// LaneHalfWidth is the distance in pixels from the lane center to each marking.
	LaneHalfWidth int
}

// DefaultCameraConfig is a small wide angle camera.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{Width: 128, Height: 64, FieldOfView: 1, LaneHalfWidth: 32}
}

// A Camera renders the lane as the vehicle sees it: two markings around a center that
// drifts sideways as the vehicle's heading diverges from the lane.
type Camera struct {
	vehicle *Vehicle
	cfg     CameraConfig
}

// NewCamera returns a camera mounted on vehicle.
func NewCamera(vehicle *Vehicle, cfg CameraConfig) *Camera {
	return &Camera{vehicle: vehicle, cfg: cfg}
}

// NextFrame always returns a frame.
func (c *Camera) NextFrame(ctx context.Context) (perception.Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return perception.Frame{}, false, err
	}
	return c.Render(-c.vehicle.State().Heading), true, nil
}

// Render draws the lane seen at angle radians.
func (c *Camera) Render(angle float64) perception.Frame {
	img := imaging.New(c.cfg.Width, c.cfg.Height, asphalt)
	third := float64(c.cfg.Width) / 3
	center := int(math.Round(third + (angle*3/c.cfg.FieldOfView+0.5)*third))
	for _, x := range []int{center - c.cfg.LaneHalfWidth, center + c.cfg.LaneHalfWidth} {
		drawMarking(img, x)
	}
	return perception.Frame{Image: img, FieldOfView: c.cfg.FieldOfView}
}

// drawMarking paints a two pixel wide line over the lower half of img, ending at column x.
func drawMarking(img *image.NRGBA, x int) {
	b := img.Bounds()
	for _, col := range []int{x - 1, x} {
		if col < b.Min.X || col >= b.Max.X {
			continue
		}
		for y := b.Min.Y + b.Dy()/2; y < b.Max.Y; y++ {
			img.SetNRGBA(col, y, paint)
		}
	}
}
