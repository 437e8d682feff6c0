// Package analysis provides metering and harmonic analysis of processed audio.
package analysis

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"
	"github.com/justyntemme/godistortion/pkg/dsp/gain"
)

// Meter ballistics defaults
const (
	DefaultHoldTime   = 2.0   // seconds
	DefaultDecayRate  = 20.0  // dB per second
	DefaultRMSTime    = 0.3   // seconds
	DefaultClipLevel  = 1.0   // linear full scale
	defaultScratchLen = 1024
)

type channelMeter struct {
	// Written by the audio goroutine, read from anywhere
	peak    atomic.Uint64
	hold    atomic.Uint64
	rms     atomic.Uint64
	clipped atomic.Bool

	// Audio goroutine only
	peakValue  float64
	holdValue  float64
	holdCount  int
	meanSquare float64
}

// LevelMeter tracks peak, held peak and RMS per channel of the blocks it
// observes. Observe runs on the audio goroutine without allocating or
// locking; the getters may be called from any goroutine.
type LevelMeter struct {
	sampleRate  float64
	holdSamples int
	decay       float64 // per sample, linear factor
	rmsCoeff    float64 // per sample, one-pole smoothing
	clipLevel   float64

	channels []channelMeter
	scratch  []float64
}

// NewLevelMeter creates a meter for up to channels channels.
func NewLevelMeter(sampleRate float64, channels int) *LevelMeter {
	if channels < 0 {
		channels = 0
	}
	m := &LevelMeter{
		sampleRate: sampleRate,
		clipLevel:  DefaultClipLevel,
		channels:   make([]channelMeter, channels),
		scratch:    make([]float64, defaultScratchLen),
	}
	m.SetHoldTime(DefaultHoldTime)
	m.SetDecayRate(DefaultDecayRate)
	m.SetRMSTime(DefaultRMSTime)
	return m
}

// SetHoldTime sets the peak hold time in seconds. Call while audio is stopped.
func (m *LevelMeter) SetHoldTime(seconds float64) {
	m.holdSamples = int(seconds * m.sampleRate)
}

// SetDecayRate sets the peak fall-back speed in dB per second. Call while audio is stopped.
func (m *LevelMeter) SetDecayRate(dbPerSecond float64) {
	if m.sampleRate <= 0 {
		m.decay = 0
		return
	}
	m.decay = gain.DbToLinear(-dbPerSecond / m.sampleRate)
}

// SetRMSTime sets the RMS integration time in seconds. Call while audio is stopped.
func (m *LevelMeter) SetRMSTime(seconds float64) {
	if seconds <= 0 || m.sampleRate <= 0 {
		m.rmsCoeff = 0
		return
	}
	m.rmsCoeff = math.Exp(-1 / (seconds * m.sampleRate))
}

// Channels returns the number of metered channels.
func (m *LevelMeter) Channels() int {
	return len(m.channels)
}

// Observe updates the meter from one processed block.
func (m *LevelMeter) Observe(buf [][]float32, numChannels, numSamples int) {
	if numChannels > len(m.channels) {
		numChannels = len(m.channels)
	}
	if numChannels > len(buf) {
		numChannels = len(buf)
	}
	for ch := 0; ch < numChannels; ch++ {
		data := buf[ch]
		if len(data) > numSamples {
			data = data[:numSamples]
		}
		for len(data) > 0 {
			n := len(data)
			if n > len(m.scratch) {
				n = len(m.scratch)
			}
			m.update(&m.channels[ch], data[:n])
			data = data[n:]
		}
	}
}

func (m *LevelMeter) update(c *channelMeter, samples []float32) {
	sq := m.scratch[:len(samples)]
	for i, s := range samples {
		sq[i] = float64(s)
	}
	vecmath.MulBlockInPlace(sq, sq)

	var maxSquare, sum float64
	for _, v := range sq {
		sum += v
		if v > maxSquare {
			maxSquare = v
		}
	}
	blockPeak := math.Sqrt(maxSquare)
	n := len(samples)

	c.peakValue *= math.Pow(m.decay, float64(n))
	if blockPeak > c.peakValue {
		c.peakValue = blockPeak
	}

	if blockPeak >= c.holdValue {
		c.holdValue = blockPeak
		c.holdCount = m.holdSamples
	} else {
		c.holdCount -= n
		if c.holdCount <= 0 {
			c.holdValue = c.peakValue
			c.holdCount = 0
		}
	}

	a := math.Pow(m.rmsCoeff, float64(n))
	c.meanSquare = a*c.meanSquare + (1-a)*(sum/float64(n))

	c.peak.Store(math.Float64bits(c.peakValue))
	c.hold.Store(math.Float64bits(c.holdValue))
	c.rms.Store(math.Float64bits(math.Sqrt(c.meanSquare)))
	if blockPeak >= m.clipLevel {
		c.clipped.Store(true)
	}
}

// Peak returns the decaying peak level of a channel (linear)
func (m *LevelMeter) Peak(ch int) float64 {
	if ch < 0 || ch >= len(m.channels) {
		return 0
	}
	return math.Float64frombits(m.channels[ch].peak.Load())
}

// Hold returns the held peak level of a channel (linear)
func (m *LevelMeter) Hold(ch int) float64 {
	if ch < 0 || ch >= len(m.channels) {
		return 0
	}
	return math.Float64frombits(m.channels[ch].hold.Load())
}

// RMS returns the integrated RMS level of a channel (linear)
func (m *LevelMeter) RMS(ch int) float64 {
	if ch < 0 || ch >= len(m.channels) {
		return 0
	}
	return math.Float64frombits(m.channels[ch].rms.Load())
}

// PeakDB returns Peak in decibels
func (m *LevelMeter) PeakDB(ch int) float64 {
	return gain.LinearToDb(m.Peak(ch))
}

// RMSDB returns RMS in decibels
func (m *LevelMeter) RMSDB(ch int) float64 {
	return gain.LinearToDb(m.RMS(ch))
}

// Clipped reports whether a channel reached full scale since the last Reset.
func (m *LevelMeter) Clipped(ch int) bool {
	if ch < 0 || ch >= len(m.channels) {
		return false
	}
	return m.channels[ch].clipped.Load()
}

// Reset clears all channels. Call while audio is stopped.
func (m *LevelMeter) Reset() {
	for i := range m.channels {
		c := &m.channels[i]
		c.peakValue, c.holdValue, c.meanSquare, c.holdCount = 0, 0, 0, 0
		c.peak.Store(0)
		c.hold.Store(0)
		c.rms.Store(0)
		c.clipped.Store(false)
	}
}
