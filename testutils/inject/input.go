package inject

import (
	"context"

	"github.com/viamrobotics/autodrive/drive"
	"github.com/viamrobotics/autodrive/input"
)

// InputSource is an injected input source.
type InputSource struct {
	drive.InputSource
	PollFunc func(ctx context.Context) ([]input.Command, error)
}

// Poll calls the injected Poll or the real version.
func (i *InputSource) Poll(ctx context.Context) ([]input.Command, error) {
	if i.PollFunc == nil {
		return i.InputSource.Poll(ctx)
	}
	return i.PollFunc(ctx)
}
