package control

import (
	"testing"

	"go.viam.com/test"

	"github.com/viamrobotics/autodrive/config"
)

func TestSpeedPlanner(t *testing.T) {
	p := NewSpeedPlanner(config.Default().Planner)
	test.That(t, p.Cruise(), test.ShouldEqual, 50.0)

	for _, tc := range []struct {
		name           string
		angle, current float64
		expected       float64
	}{
		{"sharp turn", 0.3, 50, 49},
		{"sharp turn left", -0.3, 50, 49},
		{"sharp turn floor", 0.3, 20.5, 20},
		{"sharp turn below floor", 0.3, 10, 20},
		{"moderate curve", 0.2, 50, 49.5},
		{"moderate curve boundary", 0.25, 50, 49.5},
		{"moderate curve floor", -0.15, 35.2, 35},
		{"straight recovers", 0.05, 40, 40.5},
		{"straight boundary", 0.1, 40, 40.5},
		{"straight capped at cruise", 0, 49.8, 50},
		{"straight above cruise", 0, 60, 60},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, p.Plan(tc.angle, 50, tc.current), test.ShouldAlmostEqual, tc.expected)
		})
	}
}

func TestSpeedPlannerMonotonic(t *testing.T) {
	p := NewSpeedPlanner(config.Default().Planner)
	for _, current := range []float64{35, 40, 50, 80, 150} {
		straight := p.Plan(0.05, 50, current)
		moderate := p.Plan(0.2, 50, current)
		sharp := p.Plan(0.4, 50, current)
		test.That(t, moderate, test.ShouldBeLessThanOrEqualTo, straight)
		test.That(t, sharp, test.ShouldBeLessThanOrEqualTo, moderate)
	}
	for _, current := range []float64{0, 10, 20, 30, 35, 40, 50, 80, 150} {
		test.That(t, p.Plan(0.05, 50, current), test.ShouldBeLessThanOrEqualTo, max(current, 50))
		test.That(t, p.Plan(0.2, 50, current), test.ShouldBeLessThanOrEqualTo, max(current, 35))
		test.That(t, p.Plan(0.4, 50, current), test.ShouldBeLessThanOrEqualTo, max(current, 20))
	}
}
