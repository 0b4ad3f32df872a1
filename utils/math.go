package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// MPSToKPH converts meters per second to kilometers per hour.
func MPSToKPH(mps float64) float64 {
	return mps * 3.6
}

// SameSign reports whether a and b lie on the same side of zero. The sign bit is used so that
// -0 and +0 differ, matching how a controller error crossing the setpoint is detected.
func SameSign(a, b float64) bool {
	return math.Signbit(a) == math.Signbit(b)
}

// FiniteOrZero replaces NaN and infinities with zero.
func FiniteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
