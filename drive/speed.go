package drive

import (
	"context"

	"github.com/viamrobotics/autodrive/utils"
)

// A GPS reports ground speed in meters per second. Receivers report NaN before they have a fix.
type GPS interface {
	SpeedMPS(ctx context.Context) (float64, error)
}

// GPSSpeed adapts a GPS to a SpeedSource.
type GPSSpeed struct {
	GPS GPS
}

// Speed returns the GPS speed in km/h, or zero while the GPS has no fix.
func (g GPSSpeed) Speed(ctx context.Context) (float64, error) {
	mps, err := g.GPS.SpeedMPS(ctx)
	if err != nil {
		return 0, err
	}
	return utils.MPSToKPH(utils.FiniteOrZero(mps)), nil
}
