package input

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// A VirtualController is a Controller whose events are injected with TriggerEvent. It backs
// scripted runs and tests, and wraps devices that only deliver raw events.
type VirtualController struct {
	mu        sync.RWMutex
	controls  []Control
	lastEvent map[Control]Event
	callbacks map[Control]map[EventType]ControlFunction
}

// NewVirtualController returns a controller offering the given controls.
func NewVirtualController(controls ...Control) *VirtualController {
	return &VirtualController{
		controls:  controls,
		lastEvent: make(map[Control]Event),
		callbacks: make(map[Control]map[EventType]ControlFunction),
	}
}

// Controls lists the controls offered.
func (c *VirtualController) Controls(ctx context.Context) ([]Control, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Control, len(c.controls))
	copy(out, c.controls)
	return out, nil
}

// Events returns the last event seen on every control.
func (c *VirtualController) Events(ctx context.Context) (map[Control]Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[Control]Event, len(c.lastEvent))
	for k, v := range c.lastEvent {
		out[k] = v
	}
	return out, nil
}

// RegisterControlCallback registers ctrlFunc for the given triggers on control.
func (c *VirtualController) RegisterControlCallback(
	ctx context.Context,
	control Control,
	triggers []EventType,
	ctrlFunc ControlFunction,
) error {
	if !c.offers(control) {
		return errors.Errorf("control %q is not offered by this controller", control)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.callbacks[control] == nil {
		c.callbacks[control] = make(map[EventType]ControlFunction)
	}
	for _, trigger := range triggers {
		if trigger == ButtonChange {
			c.callbacks[control][ButtonRelease] = ctrlFunc
			c.callbacks[control][ButtonPress] = ctrlFunc
		} else {
			c.callbacks[control][trigger] = ctrlFunc
		}
	}
	return nil
}

// TriggerEvent records event and runs the callbacks registered for it.
func (c *VirtualController) TriggerEvent(ctx context.Context, event Event) error {
	if !c.offers(event.Control) {
		return errors.Errorf("control %q is not offered by this controller", event.Control)
	}
	c.mu.Lock()
	c.lastEvent[event.Control] = event
	var toCall []ControlFunction
	if cb := c.callbacks[event.Control][event.Event]; cb != nil {
		toCall = append(toCall, cb)
	}
	if cb := c.callbacks[event.Control][AllEvents]; cb != nil {
		toCall = append(toCall, cb)
	}
	c.mu.Unlock()

	for _, cb := range toCall {
		cb(ctx, event)
	}
	return nil
}

func (c *VirtualController) offers(control Control) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, have := range c.controls {
		if have == control {
			return true
		}
	}
	return false
}
