package input

import "fmt"

// Kind is a discrete driving command.
type Kind int

// The driving commands. None means no input arrived this tick.
const (
	None Kind = iota
	Accelerate
	Decelerate
	SteerLeft
	SteerRight
	SteerTo
	ResumeAutodrive
	ManualOverride
)

var kindNames = map[Kind]string{
	None:            "None",
	Accelerate:      "Accelerate",
	Decelerate:      "Decelerate",
	SteerLeft:       "SteerLeft",
	SteerRight:      "SteerRight",
	SteerTo:         "SteerTo",
	ResumeAutodrive: "ResumeAutodrive",
	ManualOverride:  "ManualOverride",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Command is one driving request.
type Command struct {
	Kind Kind
	// Amount is the speed change in km/h for Accelerate and Decelerate, and the steering
	// angle in radians for SteerTo.
	Amount float64
	// When Bounded, Accelerate never raises speed above Bound and Decelerate never lowers
	// it below Bound.
	Bound   float64
	Bounded bool
}

func (c Command) String() string {
	switch c.Kind {
	case Accelerate, Decelerate:
		if c.Bounded {
			return fmt.Sprintf("%v(%g, bound %g)", c.Kind, c.Amount, c.Bound)
		}
		return fmt.Sprintf("%v(%g)", c.Kind, c.Amount)
	case SteerTo:
		return fmt.Sprintf("%v(%g)", c.Kind, c.Amount)
	default:
		return c.Kind.String()
	}
}
