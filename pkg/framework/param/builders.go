package param

import (
	"fmt"
	"strings"

	"github.com/justyntemme/godistortion/pkg/dsp/gain"
)

// ChoiceOption represents a single choice in a list parameter
type ChoiceOption struct {
	Name    string
	Aliases []string
}

// Choice creates a parameter builder for a multiple choice parameter.
// The plain value is the option index.
func Choice(id uint32, identifier, name string, options []ChoiceOption) *Builder {
	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.Name
	}

	parser := func(str string) (float64, error) {
		trimmed := strings.TrimSpace(str)

		for i, opt := range options {
			if strings.EqualFold(trimmed, opt.Name) {
				return float64(i), nil
			}
			for _, alias := range opt.Aliases {
				if strings.EqualFold(trimmed, alias) {
					return float64(i), nil
				}
			}
		}

		return 0, fmt.Errorf("unknown option: %s", str)
	}

	return New(id, identifier, name).
		Items(names...).
		Default(0).
		Formatter(nil, parser)
}

// DecibelGainParameter creates a dB parameter whose DSP value is a linear amplitude.
func DecibelGainParameter(id uint32, identifier, name string, minDB, maxDB, defaultDB float64) *Builder {
	return New(id, identifier, name).
		Range(minDB, maxDB).
		Default(defaultDB).
		Unit("dB").
		Mapping(gain.DbToLinear).
		Formatter(DecibelFormatter, DecibelParser)
}
