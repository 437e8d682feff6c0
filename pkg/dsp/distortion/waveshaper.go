package distortion

import (
	"math"
)

// Fixed transfer function constants.
const (
	hardClipThreshold = 0.5
	hardClipScale     = 0.5

	softClipLow   = 1.0 / 3.0
	softClipHigh  = 2.0 / 3.0
	softClipScale = 0.5

	exponentialScale = 0.05

	foldBackThreshold = 0.3
	foldBackScale     = 0.05

	chebyshevScale = 0.1

	// BitCrusherFactor is the hold length of the sample-rate reducer.
	BitCrusherFactor = 4
)

// ChannelState is the cross-sample memory of one audio channel.
type ChannelState struct {
	counter int
	last    float64
	slew    SlewRates
}

// NewChannelState creates cleared state using the slew rates of the session.
func NewChannelState(slew SlewRates) ChannelState {
	return ChannelState{slew: slew}
}

// Reset clears the memory while keeping the slew rates.
func (s *ChannelState) Reset() {
	s.counter = 0
	s.last = 0
}

// SetSlewRates changes the slew limiter step sizes.
func (s *ChannelState) SetSlewRates(slew SlewRates) {
	s.slew = slew
}

// Last returns the previous output sample.
func (s *ChannelState) Last() float64 {
	return s.last
}

// Shape applies algorithm a to x. Only BitCrusher and SlewLimiter read state,
// but every call records its finite output so a switch to the slew limiter
// starts from the last emitted sample. Invalid algorithms pass x through.
func Shape(a Algorithm, x float64, state *ChannelState) float64 {
	var out float64

	switch a {
	case HardClipping:
		out = HardClip(x)
	case SoftClipping:
		out = SoftClip(x)
	case Exponential:
		out = ExponentialShape(x)
	case FullWaveRectifier:
		out = math.Abs(x)
	case HalfWaveRectifier:
		out = HalfWave(x)
	case FoldBack:
		out = Fold(x)
	case Squarer:
		out = x * x
	case ChebyshevT4:
		out = Chebyshev4(x)
	case BitCrusher:
		if state.counter == 0 {
			out = x
		}
		state.counter = (state.counter + 1) % BitCrusherFactor
	case SlewLimiter:
		out = state.slew.Limit(state.last, x)
	default:
		out = x
	}

	// Non-finite outputs are not remembered
	if !math.IsNaN(out) && !math.IsInf(out, 0) {
		state.last = out
	}
	return out
}

// HardClip clamps to ±0.5 then halves.
func HardClip(x float64) float64 {
	if x > hardClipThreshold {
		x = hardClipThreshold
	} else if x < -hardClipThreshold {
		x = -hardClipThreshold
	}
	return x * hardClipScale
}

// SoftClip is linear (gain 2) below 1/3, a quadratic knee up to 2/3 and flat above.
func SoftClip(x float64) float64 {
	var out float64
	switch {
	case x > softClipHigh:
		out = 1
	case x > softClipLow:
		d := 2 - 3*x
		out = 1 - d*d/3
	case x < -softClipHigh:
		out = -1
	case x < -softClipLow:
		d := 2 + 3*x
		out = -1 + d*d/3
	default:
		out = 2 * x
	}
	return out * softClipScale
}

// ExponentialShape saturates each half wave with an exponential.
func ExponentialShape(x float64) float64 {
	var out float64
	if x > 0 {
		out = 1 - math.Exp(-x)
	} else {
		out = -1 + math.Exp(x)
	}
	return out * exponentialScale
}

// HalfWave passes positive samples.
func HalfWave(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Fold reflects the input around ±0.3 and attenuates the folded part.
// Inside the threshold the input passes unchanged.
func Fold(x float64) float64 {
	const level2 = 2 * foldBackThreshold
	switch {
	case x > foldBackThreshold:
		return (level2 - x) * foldBackScale
	case x < -foldBackThreshold:
		return (-level2 - x) * foldBackScale
	default:
		return x
	}
}

// Chebyshev4 evaluates 8x⁴-8x²-1 and scales by 0.1.
func Chebyshev4(x float64) float64 {
	x2 := x * x
	return (8*x2*x2 - 8*x2 - 1) * chebyshevScale
}
