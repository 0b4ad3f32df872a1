package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/viamrobotics/autodrive/drive"
	"github.com/viamrobotics/autodrive/logging"
)

// A Display shows notifications to the driver by logging them.
type Display struct {
	logger logging.Logger

	mu    sync.Mutex
	shown []string
}

// NewDisplay returns an empty display.
func NewDisplay(logger logging.Logger) *Display {
	return &Display{logger: logger}
}

// Notify shows note.
func (d *Display) Notify(ctx context.Context, note drive.Notification) {
	var text string
	switch note.Kind {
	case drive.LineLost:
		text = "line lost"
	case drive.LineFound:
		text = "line found"
	case drive.ModeChanged:
		text = fmt.Sprintf("%s drive", note.Mode)
	}
	d.mu.Lock()
	d.shown = append(d.shown, text)
	d.mu.Unlock()
	d.logger.CInfow(ctx, text, "at", note.Time)
}

// Shown returns everything shown so far.
func (d *Display) Shown() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.shown...)
}
