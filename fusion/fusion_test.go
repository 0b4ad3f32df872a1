package fusion

import (
	"testing"

	"go.viam.com/test"

	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/perception"
)

type fixedFollower struct {
	demand float64
	calls  int
}

func (f *fixedFollower) Update(angle, speedKPH float64) float64 {
	f.calls++
	return f.demand
}

func TestCombineNoEvidence(t *testing.T) {
	p := NewPolicy(config.Default().Fusion)
	follower := &fixedFollower{demand: 0.3}
	d := p.Combine(Inputs{Steering: 0.12, Speed: 40}, follower)
	test.That(t, d, test.ShouldResemble, Decision{Steering: 0.12, Brake: 0.4, ResetPID: true, Source: SourceHold})
	test.That(t, follower.calls, test.ShouldEqual, 0)
}

func TestCombineLaneOnly(t *testing.T) {
	p := NewPolicy(config.Default().Fusion)
	follower := &fixedFollower{demand: -0.07}
	d := p.Combine(Inputs{Lane: perception.Known(-0.1), Steering: 0.2}, follower)
	test.That(t, d, test.ShouldResemble, Decision{Steering: -0.07, Source: SourceLane})
	test.That(t, follower.calls, test.ShouldEqual, 1)
}

func TestCombineObstacleWithoutLane(t *testing.T) {
	p := NewPolicy(config.Default().Fusion)
	follower := &fixedFollower{}
	obstacle := perception.Obstacle{Angle: 0.1, Distance: 5, Present: true}
	d := p.Combine(Inputs{Obstacle: obstacle, Steering: 0.05}, follower)
	test.That(t, d.Steering, test.ShouldAlmostEqual, 0.05+(0.1-0.25)/5)
	test.That(t, d.Brake, test.ShouldEqual, 0.0)
	test.That(t, d.ResetPID, test.ShouldBeTrue)
	test.That(t, d.Source, test.ShouldEqual, SourceObstacle)
	test.That(t, follower.calls, test.ShouldEqual, 0)
}

func TestCombineObstacleAndLane(t *testing.T) {
	p := NewPolicy(config.Default().Fusion)
	// bias = (-0.1 + 0.25) / 2 = 0.075 to the right
	rightward := perception.Obstacle{Angle: -0.1, Distance: 2, Present: true}
	// bias = (0.1 - 0.25) / 2 = -0.075 to the left
	leftward := perception.Obstacle{Angle: 0.1, Distance: 2, Present: true}

	for _, tc := range []struct {
		name     string
		obstacle perception.Obstacle
		follow   float64
		expected float64
		source   Source
	}{
		{"both right, lane stronger", rightward, 0.2, 0.2, SourceLane},
		{"both right, obstacle stronger", rightward, 0.05, 0.075, SourceObstacle},
		{"both left, lane stronger", leftward, -0.2, -0.2, SourceLane},
		{"both left, obstacle stronger", leftward, -0.01, -0.075, SourceObstacle},
		{"mixed keeps avoidance", rightward, -0.3, 0.075, SourceObstacle},
		{"mixed keeps avoidance left", leftward, 0.3, -0.075, SourceObstacle},
		{"zero lane demand keeps avoidance", leftward, 0, -0.075, SourceObstacle},
	} {
		t.Run(tc.name, func(t *testing.T) {
			follower := &fixedFollower{demand: tc.follow}
			d := p.Combine(Inputs{Lane: perception.Known(0.01), Obstacle: tc.obstacle}, follower)
			test.That(t, d.Steering, test.ShouldAlmostEqual, tc.expected)
			test.That(t, d.Source, test.ShouldEqual, tc.source)
			test.That(t, d.Brake, test.ShouldEqual, 0.0)
			test.That(t, d.ResetPID, test.ShouldBeFalse)
			test.That(t, follower.calls, test.ShouldEqual, 1)
		})
	}
}

func TestAvoidanceCone(t *testing.T) {
	p := NewPolicy(config.Default().Fusion)
	for _, angle := range []float64{0, 0.4, -0.4, 0.9, -1.2} {
		test.That(t, p.Avoidance(perception.Obstacle{Angle: angle, Distance: 3, Present: true}, 0.1), test.ShouldEqual, 0.1)
	}
	test.That(t, p.Avoidance(perception.Obstacle{Angle: 0.39, Distance: 1, Present: true}, 0), test.ShouldAlmostEqual, 0.14)
	test.That(t, p.Avoidance(perception.Obstacle{Angle: -0.39, Distance: 1, Present: true}, 0), test.ShouldAlmostEqual, -0.14)
	// nearer obstacles steer harder
	near := p.Avoidance(perception.Obstacle{Angle: 0.05, Distance: 1, Present: true}, 0)
	far := p.Avoidance(perception.Obstacle{Angle: 0.05, Distance: 8, Present: true}, 0)
	test.That(t, near, test.ShouldBeLessThan, far)
	test.That(t, SourceHold.String(), test.ShouldEqual, "hold")
}
