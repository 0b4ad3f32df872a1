package perception

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"

	"github.com/viamrobotics/autodrive/config"
)

var asphalt = color.RGBA{60, 60, 60, 255}

func road(width, height int, markings ...int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, asphalt)
		}
	}
	for _, x := range markings {
		for y := height - 10; y < height; y++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestLaneDetectorNoEvidence(t *testing.T) {
	d := NewLaneDetector(config.Default().Lane)
	test.That(t, d.Detect(Frame{}).IsKnown(), test.ShouldBeFalse)
	test.That(t, d.Detect(Frame{Image: road(60, 40), FieldOfView: 1}).IsKnown(), test.ShouldBeFalse)

	// markings above the scanned rows are ignored
	img := road(60, 40)
	for y := 0; y < 20; y++ {
		img.Set(25, y, color.White)
	}
	test.That(t, d.Detect(Frame{Image: img, FieldOfView: 1}).IsKnown(), test.ShouldBeFalse)

	// bright but saturated pixels are not markings
	img = road(60, 40)
	for y := 30; y < 40; y++ {
		img.Set(25, y, color.RGBA{255, 200, 0, 255})
	}
	test.That(t, d.Detect(Frame{Image: img, FieldOfView: 1}).IsKnown(), test.ShouldBeFalse)
}

func TestLaneDetectorSymmetry(t *testing.T) {
	d := NewLaneDetector(config.Default().Lane)
	angle, ok := d.Detect(Frame{Image: road(60, 40, 20, 40), FieldOfView: 1}).Radians()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, angle, test.ShouldAlmostEqual, 0)

	angle, ok = d.Detect(Frame{Image: road(64, 48, 12, 13, 51, 52), FieldOfView: 0.8}).Radians()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, angle, test.ShouldAlmostEqual, 0, 0.02)
}

func TestLaneDetectorOffCenter(t *testing.T) {
	d := NewLaneDetector(config.Default().Lane)
	// lane center 35 of 60: normalized 0.75, region covers a third of the view
	angle, ok := d.Detect(Frame{Image: road(60, 40, 25, 45), FieldOfView: 1.5}).Radians()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, angle, test.ShouldAlmostEqual, 0.25*1.5*20/60)
}

func TestLaneDetectorOneSided(t *testing.T) {
	d := NewLaneDetector(config.Default().Lane)
	rightOnly, ok := d.Detect(Frame{Image: road(60, 40, 45), FieldOfView: 1}).Radians()
	test.That(t, ok, test.ShouldBeTrue)
	leftOnly, ok := d.Detect(Frame{Image: road(60, 40, 15), FieldOfView: 1}).Radians()
	test.That(t, ok, test.ShouldBeTrue)

	test.That(t, rightOnly, test.ShouldBeLessThan, leftOnly)
	test.That(t, rightOnly, test.ShouldBeLessThan, 0)
	test.That(t, leftOnly, test.ShouldBeGreaterThan, 0)
	// 45 - int(60/1.2) = -5 -> normalized -1.25
	test.That(t, rightOnly, test.ShouldAlmostEqual, -1.75*20/60)
	test.That(t, leftOnly, test.ShouldAlmostEqual, 1.75*20/60)
}

func TestLaneDetectorThresholdsAreConfigurable(t *testing.T) {
	cfg := config.Default().Lane
	img := road(60, 40)
	for y := 30; y < 40; y++ {
		img.Set(20, y, color.RGBA{100, 100, 100, 255})
		img.Set(40, y, color.RGBA{100, 100, 100, 255})
	}
	test.That(t, NewLaneDetector(cfg).Detect(Frame{Image: img, FieldOfView: 1}).IsKnown(), test.ShouldBeFalse)

	cfg.MinIntensity = 90
	test.That(t, NewLaneDetector(cfg).Detect(Frame{Image: img, FieldOfView: 1}).IsKnown(), test.ShouldBeTrue)
}

func TestLaneDetectorSubImage(t *testing.T) {
	d := NewLaneDetector(config.Default().Lane)
	full := road(120, 40, 80, 100)
	sub := full.SubImage(image.Rect(60, 0, 120, 40))
	angle, ok := d.Detect(Frame{Image: sub, FieldOfView: 1}).Radians()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, angle, test.ShouldAlmostEqual, 0)
}
