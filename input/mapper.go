package input

import (
	"context"
	"math"
	"sync"

	"go.uber.org/multierr"

	"github.com/viamrobotics/autodrive/config"
)

var pressControls = []Control{KeyUp, KeyDown, KeyLeft, KeyRight, KeyA, KeyM, ButtonSouth, ButtonEStop}

// A Mapper turns the events of a Controller into driving commands. Key and button presses
// are queued as they arrive. Sticks and triggers are sampled on every Poll, so a held
// trigger keeps accelerating.
type Mapper struct {
	controller Controller

	mu         sync.Mutex
	manual     config.ManualConfig
	gamepad    config.GamepadConfig
	pending    []Command
	lastStickX float64
	registered []Control
}

// NewMapper registers for presses on every supported control the controller offers.
func NewMapper(ctx context.Context, controller Controller, manual config.ManualConfig, gamepad config.GamepadConfig) (*Mapper, error) {
	m := &Mapper{controller: controller, manual: manual, gamepad: gamepad}
	offered, err := controller.Controls(ctx)
	if err != nil {
		return nil, err
	}
	for _, control := range pressControls {
		if !contains(offered, control) {
			continue
		}
		if err := controller.RegisterControlCallback(ctx, control, []EventType{ButtonPress}, m.onPress); err != nil {
			return nil, multierr.Combine(err, m.Close(ctx))
		}
		m.registered = append(m.registered, control)
	}
	return m, nil
}

func contains(controls []Control, control Control) bool {
	for _, c := range controls {
		if c == control {
			return true
		}
	}
	return false
}

func (m *Mapper) onPress(ctx context.Context, event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cmd, ok := m.translate(event); ok {
		m.pending = append(m.pending, cmd)
	}
}

// Translate maps a single press to its command.
func (m *Mapper) Translate(event Event) (Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.translate(event)
}

func (m *Mapper) translate(event Event) (Command, bool) {
	if event.Event != ButtonPress {
		return Command{}, false
	}
	switch event.Control {
	case KeyUp:
		return Command{Kind: Accelerate, Amount: m.manual.SpeedStep}, true
	case KeyDown:
		return Command{Kind: Decelerate, Amount: m.manual.SpeedStep}, true
	case KeyLeft:
		return Command{Kind: SteerLeft}, true
	case KeyRight:
		return Command{Kind: SteerRight}, true
	case KeyA, ButtonSouth:
		return Command{Kind: ResumeAutodrive}, true
	case KeyM, ButtonEStop:
		return Command{Kind: ManualOverride}, true
	default:
		return Command{}, false
	}
}

// Poll returns the commands requested since the last Poll, presses first. An empty result
// means no input.
func (m *Mapper) Poll(ctx context.Context) ([]Command, error) {
	events, err := m.controller.Events(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.pending
	m.pending = nil

	if ev, ok := events[AbsoluteX]; ok {
		if ev.Value != m.lastStickX || math.Abs(ev.Value) > m.gamepad.TriggerThreshold {
			out = append(out, Command{Kind: SteerTo, Amount: ev.Value * m.gamepad.SteerScale})
		}
		m.lastStickX = ev.Value
	}
	if ev, ok := events[AbsoluteRZ]; ok && ev.Value > m.gamepad.TriggerThreshold {
		out = append(out, Command{
			Kind: Accelerate, Amount: m.gamepad.TriggerStep,
			Bound: m.gamepad.TriggerMaxSpeed, Bounded: true,
		})
	}
	if ev, ok := events[AbsoluteZ]; ok && ev.Value > m.gamepad.TriggerThreshold {
		out = append(out, Command{Kind: Decelerate, Amount: m.gamepad.TriggerStep, Bounded: true})
	}
	return out, nil
}

// SetConfig swaps the step sizes and gamepad scaling.
func (m *Mapper) SetConfig(manual config.ManualConfig, gamepad config.GamepadConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manual = manual
	m.gamepad = gamepad
}

// Close removes the callbacks registered by NewMapper.
func (m *Mapper) Close(ctx context.Context) error {
	var err error
	for _, control := range m.registered {
		err = multierr.Combine(err, m.controller.RegisterControlCallback(ctx, control, []EventType{ButtonPress}, nil))
	}
	m.registered = nil
	return err
}
