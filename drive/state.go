package drive

import "github.com/pkg/errors"

// ErrNoCamera is returned when autodrive is requested without a camera to follow the lane with.
var ErrNoCamera = errors.New("impossible to switch autodrive on without a camera")

// LineEdge is a change of lane visibility.
type LineEdge int

// The lane visibility changes.
const (
	NoEdge LineEdge = iota
	LostEdge
	FoundEdge
)

// A StateMachine tracks who is driving and whether the lane is visible. Only an explicit
// resume moves it from Manual to Autodrive.
type StateMachine struct {
	mode        Mode
	lineVisible bool
	hasCamera   bool
}

// NewStateMachine starts in Autodrive when a camera is available and Manual otherwise.
// The lane starts out not visible, so the first lane seen is a FoundEdge.
func NewStateMachine(hasCamera bool) *StateMachine {
	s := &StateMachine{mode: Manual, hasCamera: hasCamera}
	if hasCamera {
		s.mode = Autodrive
	}
	return s
}

// Mode returns the current mode.
func (s *StateMachine) Mode() Mode {
	return s.mode
}

// LineVisible reports whether the lane was visible on the last autodrive perception tick.
func (s *StateMachine) LineVisible() bool {
	return s.lineVisible
}

// Resume switches to Autodrive. It reports whether the mode changed.
func (s *StateMachine) Resume() (bool, error) {
	if !s.hasCamera {
		return false, ErrNoCamera
	}
	changed := s.mode != Autodrive
	s.mode = Autodrive
	return changed, nil
}

// Override switches to Manual. It reports whether the mode changed.
func (s *StateMachine) Override() bool {
	changed := s.mode != Manual
	s.mode = Manual
	return changed
}

// ObserveLine records whether the lane is visible and returns the resulting edge. Losing
// the lane in Autodrive hands control back to the driver.
func (s *StateMachine) ObserveLine(visible bool) LineEdge {
	if visible == s.lineVisible {
		return NoEdge
	}
	s.lineVisible = visible
	if !visible {
		s.mode = Manual
		return LostEdge
	}
	return FoundEdge
}
