package inject

import (
	"context"

	"github.com/viamrobotics/autodrive/drive"
)

// GPS is an injected GPS.
type GPS struct {
	drive.GPS
	SpeedMPSFunc func(ctx context.Context) (float64, error)
}

// SpeedMPS calls the injected SpeedMPS or the real version.
func (g *GPS) SpeedMPS(ctx context.Context) (float64, error) {
	if g.SpeedMPSFunc == nil {
		return g.GPS.SpeedMPS(ctx)
	}
	return g.SpeedMPSFunc(ctx)
}

// Speedometer is an injected speed source.
type Speedometer struct {
	drive.SpeedSource
	SpeedFunc func(ctx context.Context) (float64, error)
}

// Speed calls the injected Speed or the real version.
func (s *Speedometer) Speed(ctx context.Context) (float64, error) {
	if s.SpeedFunc == nil {
		return s.SpeedSource.Speed(ctx)
	}
	return s.SpeedFunc(ctx)
}
