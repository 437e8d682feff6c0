// Package gain provides amplitude and gain-related DSP operations.
package gain

import (
	"math"
)

// MinDB is the minimum dB value (effectively -infinity)
const MinDB = -200.0

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math.Log10(linear)
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db*0.05)
}

// Sanitize replaces NaN with silence and limits the sample to ±ceiling.
// Infinities land on the ceiling with their sign.
func Sanitize(x, ceiling float64) float64 {
	if x != x {
		return 0
	}
	if x > ceiling {
		return ceiling
	}
	if x < -ceiling {
		return -ceiling
	}
	return x
}

// ReplaceNonFinite maps NaN to silence and infinities to ±limit with their
// sign. Finite values pass unchanged.
func ReplaceNonFinite(x, limit float64) float64 {
	switch {
	case x != x:
		return 0
	case math.IsInf(x, 1):
		return limit
	case math.IsInf(x, -1):
		return -limit
	}
	return x
}

// Fade applies a linear gain ramp to a buffer in place.
func Fade(buffer []float32, startGain, endGain float32) {
	n := len(buffer)
	if n == 0 {
		return
	}
	step := (endGain - startGain) / float32(n)
	g := startGain
	for i := range buffer {
		buffer[i] *= g
		g += step
	}
}
