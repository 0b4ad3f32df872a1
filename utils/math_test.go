package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestAngleConversions(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90.0)
	test.That(t, RadToDeg(DegToRad(37.5)), test.ShouldAlmostEqual, 37.5)
}

func TestMPSToKPH(t *testing.T) {
	test.That(t, MPSToKPH(10), test.ShouldAlmostEqual, 36.0)
	test.That(t, MPSToKPH(0), test.ShouldEqual, 0.0)
}

func TestSameSign(t *testing.T) {
	test.That(t, SameSign(0.2, 0.1), test.ShouldBeTrue)
	test.That(t, SameSign(-0.2, -0.1), test.ShouldBeTrue)
	test.That(t, SameSign(-0.2, 0.1), test.ShouldBeFalse)
	test.That(t, SameSign(0, 0.1), test.ShouldBeTrue)
	test.That(t, SameSign(math.Copysign(0, -1), 0.1), test.ShouldBeFalse)
}

func TestFiniteOrZero(t *testing.T) {
	test.That(t, FiniteOrZero(math.NaN()), test.ShouldEqual, 0.0)
	test.That(t, FiniteOrZero(math.Inf(1)), test.ShouldEqual, 0.0)
	test.That(t, FiniteOrZero(12.5), test.ShouldEqual, 12.5)
}
