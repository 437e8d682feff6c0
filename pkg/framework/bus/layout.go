package bus

import "fmt"

// MaxChannels is the widest output the processor runs with.
const MaxChannels = 2

// Layout holds the channel layout rules.
type Layout struct {
	// AllowWiderOutput accepts fewer input than output channels. The extra
	// outputs are cleared by the processor.
	AllowWiderOutput bool
}

// Strict only accepts mono-to-mono and stereo-to-stereo.
var Strict = Layout{}

// Supports reports whether a channel layout can be processed.
func (l Layout) Supports(inputChannels, outputChannels int) error {
	if outputChannels < 1 || outputChannels > MaxChannels {
		return fmt.Errorf("%w: %d output channels, want mono or stereo", ErrUnsupportedLayout, outputChannels)
	}
	if inputChannels < 1 {
		return fmt.Errorf("%w: no input channels", ErrUnsupportedLayout)
	}
	if inputChannels == outputChannels {
		return nil
	}
	if l.AllowWiderOutput && inputChannels < outputChannels {
		return nil
	}
	return fmt.Errorf("%w: %d in, %d out", ErrUnsupportedLayout, inputChannels, outputChannels)
}

// Supports checks a layout with the Strict rules.
func Supports(inputChannels, outputChannels int) error {
	return Strict.Supports(inputChannels, outputChannels)
}
