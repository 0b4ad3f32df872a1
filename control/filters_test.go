package control

import (
	"testing"

	"go.viam.com/test"

	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/perception"
)

func filtered(t *testing.T, f *AngleFilter, raw perception.Angle) (float64, bool) {
	t.Helper()
	return f.Next(raw).Radians()
}

func TestAngleFilterRampsAfterUnknown(t *testing.T) {
	f := NewAngleFilter(config.Default().Filter)
	test.That(t, f.Depth(), test.ShouldEqual, 3)

	_, ok := filtered(t, f, perception.Unknown())
	test.That(t, ok, test.ShouldBeFalse)
	for _, expected := range []float64{0.1, 0.2, 0.3, 0.3} {
		v, ok := filtered(t, f, perception.Known(0.3))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, v, test.ShouldAlmostEqual, expected)
	}
}

func TestAngleFilterFirstCall(t *testing.T) {
	f := NewAngleFilter(config.Default().Filter)
	v, ok := filtered(t, f, perception.Known(0.3))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, v, test.ShouldAlmostEqual, 0.1)
}

func TestAngleFilterUnknownClearsHistory(t *testing.T) {
	f := NewAngleFilter(config.Default().Filter)
	for i := 0; i < 5; i++ {
		f.Next(perception.Known(-0.6))
	}
	v, _ := filtered(t, f, perception.Known(-0.6))
	test.That(t, v, test.ShouldAlmostEqual, -0.6)

	_, ok := filtered(t, f, perception.Unknown())
	test.That(t, ok, test.ShouldBeFalse)
	v, ok = filtered(t, f, perception.Known(0.3))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, v, test.ShouldAlmostEqual, 0.1)

	f.Reset()
	v, _ = filtered(t, f, perception.Known(0.6))
	test.That(t, v, test.ShouldAlmostEqual, 0.2)
}

func TestAngleFilterAverages(t *testing.T) {
	f := NewAngleFilter(config.FilterConfig{Depth: 2})
	f.Next(perception.Known(0.2))
	v, _ := filtered(t, f, perception.Known(0.4))
	test.That(t, v, test.ShouldAlmostEqual, 0.3)
	v, _ = filtered(t, f, perception.Known(-0.4))
	test.That(t, v, test.ShouldAlmostEqual, 0)
}
