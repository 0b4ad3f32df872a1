// Package inject provides collaborators whose methods can be swapped out in tests.
package inject

import (
	"context"

	"github.com/viamrobotics/autodrive/drive"
	"github.com/viamrobotics/autodrive/perception"
)

// Camera is an injected camera.
type Camera struct {
	drive.CameraSource
	NextFrameFunc func(ctx context.Context) (perception.Frame, bool, error)
}

// NextFrame calls the injected NextFrame or the real version.
func (c *Camera) NextFrame(ctx context.Context) (perception.Frame, bool, error) {
	if c.NextFrameFunc == nil {
		return c.CameraSource.NextFrame(ctx)
	}
	return c.NextFrameFunc(ctx)
}
