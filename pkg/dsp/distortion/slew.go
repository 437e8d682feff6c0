package distortion

import "math"

// Slew limiter constants, in volts per second and normalized rise/fall settings.
const (
	SlewMin  = 0.1
	SlewMax  = 10000.0
	SlewRise = 0.5
	SlewFall = 0.5
)

// SlewRates holds the per-sample maximum step up and down.
type SlewRates struct {
	Rise float64
	Fall float64
}

// NewSlewRates derives the per-sample steps for a sample rate.
//
//	step = SlewMax * Ts * (SlewMin/SlewMax)^setting
func NewSlewRates(sampleRate float64) SlewRates {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return SlewRates{}
	}
	ts := 1 / sampleRate
	return SlewRates{
		Rise: SlewMax * ts * math.Pow(SlewMin/SlewMax, SlewRise),
		Fall: SlewMax * ts * math.Pow(SlewMin/SlewMax, SlewFall),
	}
}

// Limit moves from last toward x by at most one step.
func (r SlewRates) Limit(last, x float64) float64 {
	if x > last {
		return math.Min(x, last+r.Rise)
	}
	return math.Max(x, last-r.Fall)
}
