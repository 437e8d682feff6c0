package filter

import (
	"errors"
	"math"
)

var (
	// ErrInvalidCutoff is returned for cutoffs outside (0, π).
	ErrInvalidCutoff = errors.New("filter: cutoff must be in (0, pi) radians per sample")
	// ErrInvalidGain is returned for non-positive or non-finite shelf gains.
	ErrInvalidGain = errors.New("filter: shelf gain must be positive and finite")
)

// ShelfCoefficients designs a first-order shelf with the bilinear transform.
// w is the cutoff in radians per sample and gain the linear gain applied above
// the cutoff; below it the response stays at unity.
func ShelfCoefficients(w, gain float64) (Coefficients, error) {
	if !(w > 0 && w < math.Pi) {
		return Coefficients{}, ErrInvalidCutoff
	}
	if !(gain > 0) || math.IsInf(gain, 0) {
		return Coefficients{}, ErrInvalidGain
	}

	t := math.Tan(w / 2)
	s := math.Sqrt(gain)

	return Normalize(
		s*t+gain, // b0
		s*t-gain, // b1
		0,        // b2
		s*t+1,    // a0
		s*t-1,    // a1
		0,        // a2
	)
}

// Shelf is a first-order shelving filter for one channel.
type Shelf struct {
	Biquad
	cutoff float64
	gain   float64
}

// NewShelf creates a flat shelf.
func NewShelf() Shelf {
	return Shelf{Biquad: NewBiquad(), gain: 1}
}

// UpdateCoefficients recomputes the shelf for a cutoff and linear gain. On
// error the previous coefficients stay active.
func (s *Shelf) UpdateCoefficients(cutoff, gain float64) error {
	c, err := ShelfCoefficients(cutoff, gain)
	if err != nil {
		return err
	}
	s.SetCoefficients(c)
	s.cutoff = cutoff
	s.gain = gain
	return nil
}

// Gain returns the linear gain of the active design.
func (s *Shelf) Gain() float64 {
	return s.gain
}

// Cutoff returns the cutoff of the active design in radians per sample.
func (s *Shelf) Cutoff() float64 {
	return s.cutoff
}
