// Package signal generates test signals for rendering and analysis.
package signal

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownWaveform is returned by ParseWaveform.
var ErrUnknownWaveform = errors.New("unknown waveform")

// Waveform selects the shape an Oscillator produces.
type Waveform int

const (
	// Sine is a pure tone
	Sine Waveform = iota
	// Saw ramps from -1 to 1 each period
	Saw
	// Square alternates between 1 and -1
	Square
	// Triangle ramps up and down linearly
	Triangle
	// Noise is uniform white noise and ignores frequency
	Noise
)

var waveformNames = []string{"sine", "saw", "square", "triangle", "noise"}

// String returns the lower case waveform name.
func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// ParseWaveform reads a waveform name.
func ParseWaveform(s string) (Waveform, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range waveformNames {
		if n == name {
			return Waveform(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWaveform, s)
}

// Oscillator produces a periodic waveform one sample at a time.
type Oscillator struct {
	sampleRate float64
	frequency  float64
	phase      float64 // 0-1
	phaseInc   float64
	waveform   Waveform
	noise      NoiseSource
}

// NewOscillator creates a 440 Hz sine oscillator.
func NewOscillator(sampleRate float64) *Oscillator {
	o := &Oscillator{
		sampleRate: sampleRate,
		noise:      NewNoise(1),
	}
	o.SetFrequency(440)
	return o
}

// SetFrequency sets the frequency in Hz.
func (o *Oscillator) SetFrequency(freq float64) {
	o.frequency = freq
	o.phaseInc = freq / o.sampleRate
}

// Frequency returns the frequency in Hz.
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// SetWaveform selects the shape.
func (o *Oscillator) SetWaveform(w Waveform) {
	o.waveform = w
}

// SetPhase sets the phase, wrapped to 0-1.
func (o *Oscillator) SetPhase(phase float64) {
	o.phase = phase - math.Floor(phase)
}

// Reset returns the phase to zero.
func (o *Oscillator) Reset() {
	o.phase = 0
}

func (o *Oscillator) advance() {
	o.phase += o.phaseInc
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
}

// Next returns the next sample in [-1, 1].
func (o *Oscillator) Next() float64 {
	var y float64
	switch o.waveform {
	case Saw:
		y = 2*o.phase - 1
	case Square:
		y = 1
		if o.phase >= 0.5 {
			y = -1
		}
	case Triangle:
		if o.phase < 0.5 {
			y = 4*o.phase - 1
		} else {
			y = 3 - 4*o.phase
		}
	case Noise:
		y = o.noise.Next()
	default:
		y = math.Sin(2 * math.Pi * o.phase)
	}
	o.advance()
	return y
}

// Fill writes amplitude-scaled samples into buffer.
func (o *Oscillator) Fill(buffer []float32, amplitude float64) {
	for i := range buffer {
		buffer[i] = float32(amplitude * o.Next())
	}
}

// BinCentred snaps freq to the nearest frequency with a whole number of
// periods in size samples, at least one.
func BinCentred(freq, sampleRate float64, size int) float64 {
	bin := math.Max(1, math.Round(freq*float64(size)/sampleRate))
	return bin * sampleRate / float64(size)
}
