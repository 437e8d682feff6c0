package param

import (
	"github.com/justyntemme/godistortion/pkg/dsp/distortion"
)

// distortionAliases maps each algorithm to alternate spellings accepted from
// text entry and preset files.
var distortionAliases = map[distortion.Algorithm][]string{
	distortion.HardClipping:      {"hard", "hardclip", "hard clip", "clip"},
	distortion.SoftClipping:      {"soft", "softclip", "soft clip"},
	distortion.Exponential:       {"exp", "saturate"},
	distortion.FullWaveRectifier: {"full", "fullwave", "rectify"},
	distortion.HalfWaveRectifier: {"half", "halfwave"},
	distortion.FoldBack:          {"fold", "foldback"},
	distortion.Squarer:           {"square", "sq"},
	distortion.ChebyshevT4:       {"cheby", "chebyshev", "t4"},
	distortion.BitCrusher:        {"bitcrusher", "crush", "lofi", "lo-fi"},
	distortion.SlewLimiter:       {"slew", "slewlimiter"},
}

// DistortionTypeOptions returns the choice list for the algorithm selector, in
// algorithm order.
func DistortionTypeOptions() []ChoiceOption {
	algorithms := distortion.Algorithms()
	options := make([]ChoiceOption, len(algorithms))
	for i, alg := range algorithms {
		options[i] = ChoiceOption{
			Name:    alg.String(),
			Aliases: distortionAliases[alg],
		}
	}
	return options
}

// DistortionTypeParameter creates the algorithm selector.
func DistortionTypeParameter(id uint32, identifier, name string, def distortion.Algorithm) *Builder {
	return Choice(id, identifier, name, DistortionTypeOptions()).
		Default(float64(def))
}
