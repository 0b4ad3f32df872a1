package drive_test

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/viamrobotics/autodrive/drive"
	"github.com/viamrobotics/autodrive/perception"
	"github.com/viamrobotics/autodrive/testutils/inject"
)

const frameWidth = 60

// laneFrame draws markings in the bottom rows of an otherwise dark frame.
func laneFrame(fov float64, markings ...int) perception.Frame {
	img := image.NewRGBA(image.Rect(0, 0, frameWidth, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < frameWidth; x++ {
			img.Set(x, y, color.RGBA{50, 50, 50, 255})
		}
	}
	for _, x := range markings {
		for y := 10; y < 20; y++ {
			img.Set(x, y, color.RGBA{230, 230, 230, 255})
		}
	}
	return perception.Frame{Image: img, FieldOfView: fov}
}

// straight is centered between two markings.
func straight() perception.Frame {
	return laneFrame(1, 20, 40)
}

// sharpRight reads exactly 0.3 rad.
func sharpRight() perception.Frame {
	return laneFrame(3.6, 25, 45)
}

func blank() perception.Frame {
	return laneFrame(1)
}

// cameraOf replays frames, repeating the last one.
func cameraOf(frames ...perception.Frame) (*inject.Camera, func() int) {
	var mu sync.Mutex
	calls := 0
	cam := &inject.Camera{}
	cam.NextFrameFunc = func(ctx context.Context) (perception.Frame, bool, error) {
		mu.Lock()
		defer mu.Unlock()
		i := min(calls, len(frames)-1)
		calls++
		return frames[i], true, nil
	}
	return cam, func() int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}
}

func lidarOf(ranges []float64) *inject.Lidar {
	return &inject.Lidar{NextScanFunc: func(ctx context.Context) (perception.Scan, bool, error) {
		return perception.Scan{Ranges: ranges, FieldOfView: 1}, true, nil
	}}
}

func clearRanges() []float64 {
	ranges := make([]float64, 180)
	for i := range ranges {
		ranges[i] = 50
	}
	return ranges
}

type notifications struct {
	mu  sync.Mutex
	got []drive.Notification
}

func (n *notifications) Notify(ctx context.Context, note drive.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, note)
}

func (n *notifications) kinds() []drive.NotificationKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	var kinds []drive.NotificationKind
	for _, note := range n.got {
		kinds = append(kinds, note.Kind)
	}
	return kinds
}
