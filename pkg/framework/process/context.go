// Package process carries one host block through the processor.
package process

import (
	"errors"
	"fmt"

	"github.com/justyntemme/godistortion/pkg/framework/param"
)

// ErrBlockShape is returned when a block does not match its channel counts.
var ErrBlockShape = errors.New("block shape mismatch")

// Context describes one block of in-place audio. Buffer holds OutputChannels
// slices of at least NumSamples samples; the first InputChannels carry input.
type Context struct {
	Buffer         [][]float32
	InputChannels  int
	OutputChannels int
	NumSamples     int
	SampleRate     float64

	params *param.Registry
}

// NewContext creates a context bound to a parameter registry
func NewContext(sampleRate float64, params *param.Registry) *Context {
	return &Context{
		SampleRate: sampleRate,
		params:     params,
	}
}

// Set points the context at a new block without allocating.
func (c *Context) Set(buffer [][]float32, inputChannels, numSamples int) {
	c.Buffer = buffer
	c.InputChannels = inputChannels
	c.OutputChannels = len(buffer)
	c.NumSamples = numSamples
}

// Validate checks the buffer shape against the channel counts.
func (c *Context) Validate() error {
	if c.OutputChannels != len(c.Buffer) {
		return fmt.Errorf("%w: %d output channels, buffer has %d", ErrBlockShape, c.OutputChannels, len(c.Buffer))
	}
	if c.InputChannels < 0 || c.InputChannels > c.OutputChannels {
		return fmt.Errorf("%w: %d input channels for %d outputs", ErrBlockShape, c.InputChannels, c.OutputChannels)
	}
	if c.NumSamples < 0 {
		return fmt.Errorf("%w: negative sample count %d", ErrBlockShape, c.NumSamples)
	}
	for ch, data := range c.Buffer {
		if len(data) < c.NumSamples {
			return fmt.Errorf("%w: channel %d holds %d samples, want %d", ErrBlockShape, ch, len(data), c.NumSamples)
		}
	}
	return nil
}

// Channel returns the active samples of one channel.
func (c *Context) Channel(ch int) []float32 {
	return c.Buffer[ch][:c.NumSamples]
}

// ClearFrom zeros every channel from ch upwards.
func (c *Context) ClearFrom(ch int) {
	if ch < 0 {
		ch = 0
	}
	for ; ch < len(c.Buffer); ch++ {
		clear(c.Channel(ch))
	}
}

// Clear zeros the whole block
func (c *Context) Clear() {
	c.ClearFrom(0)
}

// Param returns the current value of a parameter (0-1 normalized)
func (c *Context) Param(id uint32) float64 {
	if c.params == nil {
		return 0
	}
	if p := c.params.Get(id); p != nil {
		return p.GetValue()
	}
	return 0
}

// ParamPlain returns the current plain value of a parameter
func (c *Context) ParamPlain(id uint32) float64 {
	if c.params == nil {
		return 0
	}
	if p := c.params.Get(id); p != nil {
		return p.GetPlainValue()
	}
	return 0
}
