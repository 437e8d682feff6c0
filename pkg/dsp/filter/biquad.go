// Package filter provides the recursive filters used by the tone stage.
package filter

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrZeroLeadingCoefficient is returned when a0 would make normalization divide by zero.
var ErrZeroLeadingCoefficient = errors.New("filter: a0 must be non-zero")

// denormalThreshold is the magnitude below which delay registers are flushed to zero.
const denormalThreshold = 1e-30

// Coefficients holds a normalized second-order section (a0 == 1).
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Normalize divides raw coefficients by a0.
func Normalize(b0, b1, b2, a0, a1, a2 float64) (Coefficients, error) {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Coefficients{}, ErrZeroLeadingCoefficient
	}
	inv := 1.0 / a0
	return Coefficients{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}, nil
}

// Identity passes the signal unchanged.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// Response returns |H(e^jw)| for a normalized angular frequency w in radians per sample.
func (c Coefficients) Response(w float64) float64 {
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1
	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
	return cmplx.Abs(num / den)
}

// Stable reports whether both poles lie strictly inside the unit circle.
func (c Coefficients) Stable() bool {
	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}

// Biquad is one second-order section in transposed direct form II.
// Each instance owns its two delay registers and serves exactly one channel.
type Biquad struct {
	c      Coefficients
	v1, v2 float64
}

// NewBiquad creates a section that passes audio through until coefficients are set.
func NewBiquad() Biquad {
	return Biquad{c: Identity()}
}

// SetCoefficients installs normalized coefficients without touching the state.
func (b *Biquad) SetCoefficients(c Coefficients) {
	b.c = c
}

// Coefficients returns the active coefficients.
func (b *Biquad) Coefficients() Coefficients {
	return b.c
}

// Reset clears the filter state
func (b *Biquad) Reset() {
	b.v1 = 0
	b.v2 = 0
}

// ProcessSample filters one sample.
func (b *Biquad) ProcessSample(x float64) float64 {
	y := b.c.B0*x + b.v1
	b.v1 = b.c.B1*x - b.c.A1*y + b.v2
	b.v2 = b.c.B2*x - b.c.A2*y

	if math.Abs(b.v1) < denormalThreshold {
		b.v1 = 0
	}
	if math.Abs(b.v2) < denormalThreshold {
		b.v2 = 0
	}
	return y
}

// Process filters a buffer in place - no allocations
func (b *Biquad) Process(buffer []float32) {
	for i, x := range buffer {
		buffer[i] = float32(b.ProcessSample(float64(x)))
	}
}
