package inject

import (
	"context"

	"github.com/viamrobotics/autodrive/drive"
)

// Actuator is an injected actuator.
type Actuator struct {
	drive.Actuator
	ApplyFunc func(ctx context.Context, cmd drive.Command) error
}

// Apply calls the injected Apply or the real version.
func (a *Actuator) Apply(ctx context.Context, cmd drive.Command) error {
	if a.ApplyFunc == nil {
		return a.Actuator.Apply(ctx, cmd)
	}
	return a.ApplyFunc(ctx, cmd)
}

// Recorder is an injected recorder.
type Recorder struct {
	drive.Recorder
	RecordFunc func(ctx context.Context, snap drive.Snapshot) error
}

// Record calls the injected Record or the real version.
func (r *Recorder) Record(ctx context.Context, snap drive.Snapshot) error {
	if r.RecordFunc == nil {
		return r.Recorder.Record(ctx, snap)
	}
	return r.RecordFunc(ctx, snap)
}
