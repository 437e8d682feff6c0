// Package effect implements the distortion processor: input gain, one of ten
// waveshapers, a tone shelf and output gain, applied in place per channel.
package effect

import (
	"errors"
	"fmt"
	"math"

	"github.com/justyntemme/godistortion/pkg/dsp/distortion"
	"github.com/justyntemme/godistortion/pkg/dsp/filter"
	"github.com/justyntemme/godistortion/pkg/dsp/gain"
	"github.com/justyntemme/godistortion/pkg/framework/bus"
	"github.com/justyntemme/godistortion/pkg/framework/param"
	"github.com/justyntemme/godistortion/pkg/framework/plugin"
)

var (
	// ErrInvalidSampleRate is returned by Prepare for non-positive or non-finite rates.
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	// ErrInvalidBlockSize is returned by Prepare for non-positive block sizes.
	ErrInvalidBlockSize = errors.New("invalid block size")
)

// Info describes the processor.
var Info = plugin.Info{
	ID:       "com.godistortion.distortion",
	Name:     "Distortion",
	Version:  "1.0.0",
	Vendor:   "godistortion",
	Category: "Fx|Distortion",
}

// Option configures a Processor.
type Option func(*Processor)

// WithLayout sets the channel layout rules checked by Prepare.
func WithLayout(l bus.Layout) Option {
	return func(p *Processor) {
		p.layout = l
	}
}

// WithObserver installs the observer that receives every processed block.
func WithObserver(o plugin.Observer) Option {
	return func(p *Processor) {
		p.observer = o
	}
}

// WithSmoothing selects the gain ramp shape.
func WithSmoothing(t param.SmoothingType) Option {
	return func(p *Processor) {
		p.smoothing = t
	}
}

// Processor is the distortion effect.
type Processor struct {
	*plugin.Base

	layout    bus.Layout
	smoothing param.SmoothingType
	observer  plugin.Observer

	distortionType *param.Parameter
	tone           *param.Parameter
	inputGain      *param.SmoothedParameter
	outputGain     *param.SmoothedParameter

	// Session state, owned by the audio goroutine between Prepare and Release
	prepared     bool
	sampleRate   float64
	maxBlockSize int
	channels     []distortion.ChannelState
	filters      *filter.Bank
	toneGain     float64
}

var _ plugin.Processor = (*Processor)(nil)

// New creates an unprepared processor with default parameter values.
func New(opts ...Option) *Processor {
	p := &Processor{
		Base:      plugin.NewBase(Info),
		layout:    bus.Strict,
		smoothing: param.LinearSmoothing,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.setupParameters(); err != nil {
		// Fixed IDs; only a programming error gets here
		panic(err)
	}

	reg := p.Parameters()
	p.distortionType = reg.Get(ParamDistortionType)
	p.tone = reg.Get(ParamTone)
	p.inputGain = param.NewSmoothedParameter(reg.Get(ParamInputGain), p.smoothing)
	p.outputGain = param.NewSmoothedParameter(reg.Get(ParamOutputGain), p.smoothing)

	return p
}

// Prepare allocates per-channel state for a session and snaps all ramps to
// the current parameter values. Preparing twice with the same arguments
// leaves the processor in the same state.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize, inputChannels, outputChannels int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, maxBlockSize)
	}
	if err := p.layout.Supports(inputChannels, outputChannels); err != nil {
		return err
	}

	slew := distortion.NewSlewRates(sampleRate)
	channels := make([]distortion.ChannelState, inputChannels)
	for i := range channels {
		channels[i] = distortion.NewChannelState(slew)
	}

	filters := filter.NewBank(inputChannels)
	toneGain := p.tone.Mapped()
	if err := filters.UpdateCoefficients(ToneCutoff, toneGain); err != nil {
		return fmt.Errorf("design tone filter: %w", err)
	}

	p.inputGain.Prepare(sampleRate, SmoothingTime)
	p.outputGain.Prepare(sampleRate, SmoothingTime)

	p.sampleRate = sampleRate
	p.maxBlockSize = maxBlockSize
	p.channels = channels
	p.filters = filters
	p.toneGain = toneGain
	p.SetBuses(bus.NewConfiguration(inputChannels, outputChannels))
	p.prepared = true

	return nil
}

// Release drops the session state. It is safe to call on an unprepared processor.
func (p *Processor) Release() {
	p.prepared = false
	p.channels = nil
	p.filters = nil
}

// Prepared reports whether a session is active.
func (p *Processor) Prepared() bool {
	return p.prepared
}

// SampleRate returns the session sample rate, or 0 when unprepared.
func (p *Processor) SampleRate() float64 {
	if !p.prepared {
		return 0
	}
	return p.sampleRate
}

// MaxBlockSize returns the largest block announced to Prepare.
func (p *Processor) MaxBlockSize() int {
	return p.maxBlockSize
}

// Process runs one block in place. Channels from inChannels upwards, and any
// channel the session was not prepared for, are cleared. An unprepared
// processor outputs silence.
func (p *Processor) Process(buf [][]float32, inChannels, numSamples int) {
	if numSamples <= 0 {
		return
	}
	if !p.prepared {
		clearChannels(buf, 0, numSamples)
		return
	}
	if inChannels > len(buf) {
		inChannels = len(buf)
	}
	if inChannels > len(p.channels) {
		inChannels = len(p.channels)
	}
	if inChannels < 0 {
		inChannels = 0
	}

	p.inputGain.Sync()
	p.outputGain.Sync()
	if g := p.tone.Mapped(); g != p.toneGain {
		if err := p.filters.UpdateCoefficients(ToneCutoff, g); err == nil {
			p.toneGain = g
		}
	}

	inStart := p.inputGain.Ramp()
	outStart := p.outputGain.Ramp()
	inRamp, outRamp := inStart, outStart

	for ch := 0; ch < inChannels; ch++ {
		inRamp, outRamp = inStart, outStart
		state := &p.channels[ch]
		shelf := p.filters.Channel(ch)

		data := buf[ch]
		if len(data) > numSamples {
			data = data[:numSamples]
		}
		for i, x := range data {
			alg := distortion.ClampAlgorithm(p.distortionType.Index())
			y := distortion.Shape(alg, float64(x)*inRamp.Next(), state)
			y = shelf.ProcessSample(gain.ReplaceNonFinite(y, OutputCeiling))
			data[i] = float32(gain.Sanitize(y*outRamp.Next(), OutputCeiling))
		}
	}

	if inChannels == 0 {
		inRamp.Skip(numSamples)
		outRamp.Skip(numSamples)
	}
	p.inputGain.SetRamp(inRamp)
	p.outputGain.SetRamp(outRamp)

	clearChannels(buf, inChannels, numSamples)

	if p.observer != nil {
		p.observer.Observe(buf, len(buf), numSamples)
	}
}

func clearChannels(buf [][]float32, from, numSamples int) {
	for ch := from; ch < len(buf); ch++ {
		data := buf[ch]
		if len(data) > numSamples {
			data = data[:numSamples]
		}
		clear(data)
	}
}

// SetObserver replaces the block observer. Call only while audio is stopped.
func (p *Processor) SetObserver(o plugin.Observer) {
	p.observer = o
}

// SetParam sets a parameter in plain units. Values outside the range are clamped.
func (p *Processor) SetParam(id uint32, plain float64) error {
	prm := p.Parameters().Get(id)
	if prm == nil {
		return fmt.Errorf("%w: id %d", param.ErrUnknownParameter, id)
	}
	prm.SetPlainValue(plain)
	return nil
}

// SetParamNormalized sets a parameter from a 0-1 value.
func (p *Processor) SetParamNormalized(id uint32, normalized float64) error {
	prm := p.Parameters().Get(id)
	if prm == nil {
		return fmt.Errorf("%w: id %d", param.ErrUnknownParameter, id)
	}
	prm.SetValue(normalized)
	return nil
}

// Param returns a parameter's target in plain units.
func (p *Processor) Param(id uint32) (float64, error) {
	prm := p.Parameters().Get(id)
	if prm == nil {
		return 0, fmt.Errorf("%w: id %d", param.ErrUnknownParameter, id)
	}
	return prm.GetPlainValue(), nil
}

// SetParamByName sets a parameter by identifier in plain units.
func (p *Processor) SetParamByName(identifier string, plain float64) error {
	prm, err := p.Parameters().Lookup(identifier)
	if err != nil {
		return err
	}
	prm.SetPlainValue(plain)
	return nil
}

// SetAlgorithm selects the waveshaper.
func (p *Processor) SetAlgorithm(a distortion.Algorithm) {
	p.distortionType.SetPlainValue(float64(distortion.ClampAlgorithm(int(a))))
}

// Algorithm returns the selected waveshaper.
func (p *Processor) Algorithm() distortion.Algorithm {
	return distortion.ClampAlgorithm(p.distortionType.Index())
}

// ToneGain returns the linear shelf gain the filters were last designed for.
func (p *Processor) ToneGain() float64 {
	return p.toneGain
}
