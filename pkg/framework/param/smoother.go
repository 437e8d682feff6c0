// Package param provides parameter management for the distortion processor.
package param

import (
	"math"
)

// SmoothingType defines different parameter smoothing algorithms.
type SmoothingType int

const (
	// LinearSmoothing ramps with a constant step
	LinearSmoothing SmoothingType = iota
	// ExponentialSmoothing ramps with a constant ratio (values must be non-zero and share a sign)
	ExponentialSmoothing
)

// Smoother ramps a value toward its target over a fixed number of samples.
//
// A Smoother belongs to the audio thread. Values written by other threads
// reach it through Parameter, which is read with atomics.
type Smoother struct {
	smoothingType SmoothingType
	current       float64
	target        float64
	step          float64
	rampLength    int
	countdown     int
}

// NewSmoother creates a smoother that snaps instantly until Reset gives it a ramp length.
func NewSmoother(smoothingType SmoothingType, initial float64) Smoother {
	return Smoother{
		smoothingType: smoothingType,
		current:       initial,
		target:        initial,
		rampLength:    1,
	}
}

// Reset configures the ramp length from a sample rate and a time constant and
// snaps the current value to the target.
func (s *Smoother) Reset(sampleRate, seconds float64) {
	steps := int(math.Round(sampleRate * seconds))
	if steps < 1 {
		steps = 1
	}
	s.rampLength = steps
	s.current = s.target
	s.countdown = 0
}

// SetCurrentAndTarget jumps to value with no ramp.
func (s *Smoother) SetCurrentAndTarget(value float64) {
	s.current = value
	s.target = value
	s.countdown = 0
}

// SetTarget starts a ramp from the current value to target.
func (s *Smoother) SetTarget(target float64) {
	if target == s.target {
		return
	}
	s.target = target

	if s.rampLength <= 1 {
		s.current = target
		s.countdown = 0
		return
	}

	switch s.smoothingType {
	case ExponentialSmoothing:
		if s.current == 0 || target == 0 || (s.current < 0) != (target < 0) {
			s.current = target
			s.countdown = 0
			return
		}
		s.step = math.Exp(math.Log(target/s.current) / float64(s.rampLength))
	default:
		s.step = (target - s.current) / float64(s.rampLength)
	}
	s.countdown = s.rampLength
}

// Next advances one sample and returns the smoothed value.
func (s *Smoother) Next() float64 {
	if s.countdown <= 0 {
		return s.target
	}

	s.countdown--
	if s.countdown == 0 {
		s.current = s.target
		return s.current
	}

	if s.smoothingType == ExponentialSmoothing {
		s.current *= s.step
	} else {
		s.current += s.step
	}
	return s.current
}

// Skip advances n samples at once.
func (s *Smoother) Skip(n int) float64 {
	if n <= 0 || s.countdown <= 0 {
		return s.current
	}
	if n >= s.countdown {
		s.countdown = 0
		s.current = s.target
		return s.current
	}

	s.countdown -= n
	if s.smoothingType == ExponentialSmoothing {
		s.current *= math.Pow(s.step, float64(n))
	} else {
		s.current += s.step * float64(n)
	}
	return s.current
}

// Current returns the last produced value without advancing.
func (s *Smoother) Current() float64 {
	if s.countdown <= 0 {
		return s.target
	}
	return s.current
}

// Target returns the value being ramped to.
func (s *Smoother) Target() float64 {
	return s.target
}

// IsSmoothing returns true while a ramp is in progress.
func (s *Smoother) IsSmoothing() bool {
	return s.countdown > 0
}

// RampLength returns the ramp length in samples.
func (s *Smoother) RampLength() int {
	return s.rampLength
}

// SmoothedParameter pairs a Parameter with the audio side ramp of its mapped value.
type SmoothedParameter struct {
	*Parameter
	ramp Smoother
}

// NewSmoothedParameter creates a smoothed view of param, starting at its current mapped value.
func NewSmoothedParameter(p *Parameter, smoothingType SmoothingType) *SmoothedParameter {
	return &SmoothedParameter{
		Parameter: p,
		ramp:      NewSmoother(smoothingType, p.Mapped()),
	}
}

// Sync pulls the latest mapped value from the parameter into the ramp target.
// Call it from the audio thread, once per block.
func (sp *SmoothedParameter) Sync() {
	sp.ramp.SetTarget(sp.Parameter.Mapped())
}

// Prepare resets the ramp for a new session, snapping to the parameter's value.
func (sp *SmoothedParameter) Prepare(sampleRate, seconds float64) {
	sp.ramp.SetCurrentAndTarget(sp.Parameter.Mapped())
	sp.ramp.Reset(sampleRate, seconds)
}

// Ramp returns a copy of the ramp state, for callers that advance it per channel.
func (sp *SmoothedParameter) Ramp() Smoother {
	return sp.ramp
}

// SetRamp stores a ramp state previously obtained from Ramp.
func (sp *SmoothedParameter) SetRamp(s Smoother) {
	sp.ramp = s
}

// Next advances the ramp one sample.
func (sp *SmoothedParameter) Next() float64 {
	return sp.ramp.Next()
}

// Target returns the settled value the ramp is heading to.
func (sp *SmoothedParameter) Target() float64 {
	return sp.ramp.Target()
}
