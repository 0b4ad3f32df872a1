package fake

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/drive"
	"github.com/viamrobotics/autodrive/logging"
	"github.com/viamrobotics/autodrive/perception"
)

func TestTrack(t *testing.T) {
	track := OvalTrack(80, 25)
	lap := 160 + math.Pi*50
	test.That(t, track.Length(), test.ShouldAlmostEqual, lap)
	test.That(t, track.Curvature(10), test.ShouldEqual, 0.0)
	test.That(t, track.Curvature(100), test.ShouldAlmostEqual, 0.04)
	test.That(t, track.Curvature(lap+10), test.ShouldEqual, 0.0)
	test.That(t, track.Curvature(-1), test.ShouldAlmostEqual, 0.04)
	test.That(t, Track{}.Curvature(12), test.ShouldEqual, 0.0)
}

func TestVehicleSpeed(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	v := NewVehicle(VehicleConfig{SpeedLag: time.Second, BrakeDecel: 40, Wheelbase: 2.5}, mock)

	test.That(t, v.Apply(ctx, drive.Command{TargetSpeed: 36}), test.ShouldBeNil)
	mock.Add(500 * time.Millisecond)
	test.That(t, v.State().Speed, test.ShouldAlmostEqual, 18)
	mock.Add(500 * time.Millisecond)
	mps, err := v.SpeedMPS(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mps, test.ShouldAlmostEqual, 27/3.6)

	test.That(t, v.Apply(ctx, drive.Command{TargetSpeed: 27, Brake: 0.5}), test.ShouldBeNil)
	mock.Add(time.Second)
	test.That(t, v.State().Speed, test.ShouldAlmostEqual, 7)

	test.That(t, v.Apply(ctx, drive.Command{Brake: 1}), test.ShouldBeNil)
	mock.Add(time.Second)
	test.That(t, v.State().Speed, test.ShouldEqual, 0.0)
}

func TestVehicleHeading(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	v := NewVehicle(VehicleConfig{Wheelbase: 2.5}, mock)
	test.That(t, v.Apply(ctx, drive.Command{TargetSpeed: 36, Steering: 0.1}), test.ShouldBeNil)
	mock.Add(time.Second)
	state := v.State()
	test.That(t, state.Distance, test.ShouldAlmostEqual, 10)
	test.That(t, state.Heading, test.ShouldAlmostEqual, 4*math.Tan(0.1))

	// a right hand bend turns the lane away from a vehicle going straight
	v = NewVehicle(VehicleConfig{Track: Track{Segments: []Segment{{Length: 1000, Curvature: 0.01}}}}, mock)
	test.That(t, v.Apply(ctx, drive.Command{TargetSpeed: 36}), test.ShouldBeNil)
	mock.Add(time.Second)
	test.That(t, v.State().Heading, test.ShouldAlmostEqual, -0.1)
}

func TestCameraRendersLane(t *testing.T) {
	cfg := DefaultCameraConfig()
	cam := NewCamera(NewVehicle(DefaultVehicleConfig(), clock.NewMock()), cfg)
	detector := perception.NewLaneDetector(config.Default().Lane)
	pixel := cfg.FieldOfView / float64(cfg.Width)

	frame, ok, err := cam.NextFrame(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, frame.Image.Bounds().Dx(), test.ShouldEqual, cfg.Width)
	angle, known := detector.Detect(frame).Radians()
	test.That(t, known, test.ShouldBeTrue)
	test.That(t, angle, test.ShouldAlmostEqual, 0, 1.5*pixel)

	for _, want := range []float64{-0.1, 0.05, 0.12} {
		angle, known = detector.Detect(cam.Render(want)).Radians()
		test.That(t, known, test.ShouldBeTrue)
		test.That(t, angle, test.ShouldAlmostEqual, want, 1.5*pixel)
	}

	// far off to the side nothing is in view
	test.That(t, detector.Detect(cam.Render(2)).IsKnown(), test.ShouldBeFalse)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = cam.NextFrame(ctx)
	test.That(t, err, test.ShouldBeError, context.Canceled)
}

func TestLidarSeesObstaclesAhead(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	v := NewVehicle(VehicleConfig{Wheelbase: 2.5}, mock)
	detector := perception.NewObstacleDetector(config.Default().Obstacle)
	obstacles := []Obstacle{
		{At: 5, Bearing: -0.1, HalfWidth: 0.05},
		{At: 50, Bearing: 0, HalfWidth: 0.2},
	}
	lidar := NewLidar(v, DefaultLidarConfig(), obstacles)

	scan, ok, err := lidar.NextScan(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, scan.Ranges, test.ShouldHaveLength, 180)
	seen := detector.Detect(scan)
	test.That(t, seen.Present, test.ShouldBeTrue)
	test.That(t, seen.Distance, test.ShouldAlmostEqual, 5)
	test.That(t, seen.Angle, test.ShouldBeLessThan, 0.0)

	// drive past the first obstacle; the second is out of range
	test.That(t, v.Apply(ctx, drive.Command{TargetSpeed: 36}), test.ShouldBeNil)
	mock.Add(time.Second)
	scan, _, err = lidar.NextScan(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, detector.Detect(scan).Present, test.ShouldBeFalse)
	for _, r := range scan.Ranges {
		test.That(t, math.IsInf(r, 1), test.ShouldBeTrue)
	}
}

func TestDisplay(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	d := NewDisplay(logger)
	ctx := context.Background()
	d.Notify(ctx, drive.Notification{Kind: drive.LineLost, Mode: drive.Manual})
	d.Notify(ctx, drive.Notification{Kind: drive.ModeChanged, Mode: drive.Manual})
	d.Notify(ctx, drive.Notification{Kind: drive.LineFound, Mode: drive.Autodrive})
	test.That(t, d.Shown(), test.ShouldResemble, []string{"line lost", "manual drive", "line found"})
	test.That(t, logs.Len(), test.ShouldEqual, 3)
}
