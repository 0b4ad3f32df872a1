// Package input models human input devices, such as keyboards, gamepads and steering wheels,
// and maps their events onto the discrete driving commands the pilot understands.
package input

import (
	"context"
	"time"
)

// Controller is a logical "container" more than an actual device.
// Could be a single gamepad, a keyboard, or a wheel and pedal set.
type Controller interface {
	// Controls returns the controls the Controller provides.
	Controls(ctx context.Context) ([]Control, error)

	// Events returns the most recent Event for each control (which should be the current state).
	Events(ctx context.Context) (map[Control]Event, error)

	// RegisterControlCallback registers a callback that will fire on given EventTypes for a given Control.
	// A nil ctrlFunc removes the registration.
	RegisterControlCallback(ctx context.Context, control Control, triggers []EventType, ctrlFunc ControlFunction) error
}

// ControlFunction is a callback passed to RegisterControlCallback.
type ControlFunction func(ctx context.Context, ev Event)

// EventType represents the type of input event.
type EventType string

// EventType list, to be expanded as new input devices are developed.
const (
	// Callbacks registered for this event will be called in ADDITION to other registered event callbacks.
	AllEvents EventType = "AllEvents"
	// Sent at controller initialization, and on reconnects.
	Connect EventType = "Connect"
	// If unplugged, or wireless/network times out.
	Disconnect EventType = "Disconnect"
	// Typical key press.
	ButtonPress EventType = "ButtonPress"
	// Key release.
	ButtonRelease EventType = "ButtonRelease"
	// Both up and down for convenience during registration, not typically emitted.
	ButtonChange EventType = "ButtonChange"
	// Absolute position is reported via Value, a la joysticks.
	PositionChangeAbs EventType = "PositionChangeAbs"
)

// Control identifies the input (specific Axis, Button or Key) of a controller.
type Control string

// Controls, to be expanded as new input devices are developed.
const (
	// Axes. Sticks report -1.0 to +1.0, triggers 0.0 to 1.0.
	AbsoluteX  Control = "AbsoluteX"
	AbsoluteY  Control = "AbsoluteY"
	AbsoluteZ  Control = "AbsoluteZ"
	AbsoluteRZ Control = "AbsoluteRZ"

	// Buttons.
	ButtonSouth Control = "ButtonSouth"
	ButtonEast  Control = "ButtonEast"
	ButtonWest  Control = "ButtonWest"
	ButtonNorth Control = "ButtonNorth"
	ButtonEStop Control = "ButtonEStop"

	// Keys.
	KeyUp    Control = "KeyUp"
	KeyDown  Control = "KeyDown"
	KeyLeft  Control = "KeyLeft"
	KeyRight Control = "KeyRight"
	KeyA     Control = "KeyA"
	KeyM     Control = "KeyM"
)

// Event is passed to the registered ControlFunction or returned by Events().
type Event struct {
	Time    time.Time
	Event   EventType
	Control Control // Key, Button or Axis
	Value   float64 // 0 or 1 for buttons and keys, -1.0 to +1.0 for axes
}

// Triggerable is used to inject events from outside a device driver.
type Triggerable interface {
	// TriggerEvent allows directly sending an Event (such as a button press) from external code
	TriggerEvent(ctx context.Context, event Event) error
}
