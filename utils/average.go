package utils

import "gonum.org/v1/gonum/floats"

// RollingAverage averages the last NumSamples values added to it. Slots that have not been
// written since the last Reset count as zero, so a freshly reset average ramps up toward the
// input rather than jumping to it.
type RollingAverage struct {
	data []float64
	pos  int
}

// NewRollingAverage returns a zeroed RollingAverage over numSamples slots.
func NewRollingAverage(numSamples int) *RollingAverage {
	if numSamples < 1 {
		numSamples = 1
	}
	return &RollingAverage{data: make([]float64, numSamples)}
}

// NumSamples returns the window size.
func (ra *RollingAverage) NumSamples() int {
	return len(ra.data)
}

// Add overwrites the oldest slot with x.
func (ra *RollingAverage) Add(x float64) {
	ra.data[ra.pos] = x
	ra.pos++
	if ra.pos >= len(ra.data) {
		ra.pos = 0
	}
}

// Average returns the arithmetic mean of every slot.
func (ra *RollingAverage) Average() float64 {
	return floats.Sum(ra.data) / float64(len(ra.data))
}

// Reset zeroes every slot.
func (ra *RollingAverage) Reset() {
	for i := range ra.data {
		ra.data[i] = 0
	}
	ra.pos = 0
}
