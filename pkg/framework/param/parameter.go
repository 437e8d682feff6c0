package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Kind tags how a parameter is presented and quantized.
type Kind int

const (
	// KindContinuous is a ranged slider value
	KindContinuous Kind = iota
	// KindToggle is an on/off switch
	KindToggle
	// KindChoice selects one item from a fixed list
	KindChoice
)

// String returns the kind name used by views and listings.
func (k Kind) String() string {
	switch k {
	case KindContinuous:
		return "continuous"
	case KindToggle:
		return "toggle"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// MappingFunc converts a plain (user facing) value into the value the DSP consumes.
type MappingFunc func(plain float64) float64

// Parameter represents a plugin parameter
type Parameter struct {
	ID           uint32
	Identifier   string // Stable key used for persisted state
	Name         string
	ShortName    string
	Unit         string
	Kind         Kind
	Items        []string // Only for KindChoice
	Min          float64
	Max          float64
	DefaultValue float64 // Normalized
	StepCount    int32
	Flags        uint32

	// Atomic value for lock-free access in audio thread
	value atomic.Uint64

	mapping    MappingFunc
	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Flags for parameters
const (
	CanAutomate uint32 = 1 << 0
	IsReadOnly  uint32 = 1 << 1
	IsList      uint32 = 1 << 3
	IsHidden    uint32 = 1 << 4
)

// GetValue returns the current normalized value (0-1)
func (p *Parameter) GetValue() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue sets the normalized value (0-1). Discrete parameters snap to
// their nearest step.
func (p *Parameter) SetValue(value float64) {
	if math.IsNaN(value) {
		return
	}
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}

	if steps := p.discreteSteps(); steps > 0 {
		value = math.Round(value*float64(steps)) / float64(steps)
	}

	p.value.Store(math.Float64bits(value))
}

// GetPlainValue converts normalized to plain value
func (p *Parameter) GetPlainValue() float64 {
	return p.Denormalize(p.GetValue())
}

// SetPlainValue converts plain to normalized value. Out of range values are clamped.
func (p *Parameter) SetPlainValue(plain float64) {
	p.SetValue(p.Normalize(plain))
}

// Mapped returns the current value after the DSP mapping.
func (p *Parameter) Mapped() float64 {
	plain := p.GetPlainValue()
	if p.mapping != nil {
		return p.mapping(plain)
	}
	return plain
}

// MapPlain applies the DSP mapping to an arbitrary plain value.
func (p *Parameter) MapPlain(plain float64) float64 {
	if p.mapping != nil {
		return p.mapping(plain)
	}
	return plain
}

// Index returns the selected item of a choice parameter.
func (p *Parameter) Index() int {
	return int(math.Round(p.GetPlainValue() - p.Min))
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.SetValue(p.DefaultValue)
}

// DefaultPlain returns the default in plain units.
func (p *Parameter) DefaultPlain() float64 {
	return p.Denormalize(p.DefaultValue)
}

// SetFormatter sets custom value formatting
func (p *Parameter) SetFormatter(format func(float64) string, parse func(string) (float64, error)) {
	p.formatFunc = format
	p.parseFunc = parse
}

// FormatValue returns formatted parameter value
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.Denormalize(normalized)

	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}

	switch p.Kind {
	case KindChoice:
		index := int(math.Round(plain - p.Min))
		if index >= 0 && index < len(p.Items) {
			return p.Items[index]
		}
		return "Unknown"
	case KindToggle:
		if plain >= 0.5 {
			return "On"
		}
		return "Off"
	}

	if p.StepCount > 0 {
		return fmt.Sprintf("%.0f", plain)
	}
	return fmt.Sprintf("%.2f", plain)
}

// ParseValue parses string to normalized value
func (p *Parameter) ParseValue(str string) (float64, error) {
	if p.parseFunc != nil {
		plain, err := p.parseFunc(str)
		if err != nil {
			return 0, err
		}
		return p.Normalize(plain), nil
	}
	plain, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", p.Identifier, err)
	}
	return p.Normalize(plain), nil
}

// Normalize converts plain value to normalized (0-1)
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	normalized := (plain - p.Min) / (p.Max - p.Min)
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

// Denormalize converts normalized (0-1) to plain value
func (p *Parameter) Denormalize(normalized float64) float64 {
	return p.Min + normalized*(p.Max-p.Min)
}

func (p *Parameter) discreteSteps() int32 {
	switch p.Kind {
	case KindToggle:
		return 1
	case KindChoice:
		if len(p.Items) > 1 {
			return int32(len(p.Items) - 1)
		}
		return 0
	}
	if p.StepCount > 1 {
		return p.StepCount - 1
	}
	return 0
}
