package inject

import (
	"context"

	"github.com/viamrobotics/autodrive/drive"
	"github.com/viamrobotics/autodrive/perception"
)

// Lidar is an injected range sensor.
type Lidar struct {
	drive.RangeSource
	NextScanFunc func(ctx context.Context) (perception.Scan, bool, error)
}

// NextScan calls the injected NextScan or the real version.
func (l *Lidar) NextScan(ctx context.Context) (perception.Scan, bool, error) {
	if l.NextScanFunc == nil {
		return l.RangeSource.NextScan(ctx)
	}
	return l.NextScanFunc(ctx)
}
