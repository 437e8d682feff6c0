package effect

import (
	"math"

	"github.com/justyntemme/godistortion/pkg/dsp/distortion"
	"github.com/justyntemme/godistortion/pkg/framework/param"
	"github.com/justyntemme/godistortion/pkg/midi"
)

// Parameter IDs
const (
	ParamDistortionType uint32 = iota
	ParamInputGain
	ParamOutputGain
	ParamTone
)

// Parameter identifiers used in presets and automation scripts
const (
	IDDistortionType = "distortionType"
	IDInputGain      = "inputGain"
	IDOutputGain     = "outputGain"
	IDTone           = "tone"
)

const (
	// Gain and tone range
	MinGainDB = -24.0
	MaxGainDB = 12.0

	DefaultAlgorithm = distortion.FullWaveRectifier
	DefaultInputDB   = 0.0
	DefaultOutputDB  = -24.0
	DefaultToneDB    = 0.0

	// SmoothingTime is the gain ramp length in seconds.
	SmoothingTime = 1e-3

	// ToneCutoff is the discrete shelf corner, in radians per sample.
	ToneCutoff = 0.01 * math.Pi

	// OutputCeiling bounds every output sample.
	OutputCeiling = 4.0
)

func (p *Processor) setupParameters() error {
	return p.Parameters().Add(
		param.DistortionTypeParameter(ParamDistortionType, IDDistortionType, "Distortion type", DefaultAlgorithm).
			ShortName("Type").
			Build(),
		param.DecibelGainParameter(ParamInputGain, IDInputGain, "Input gain", MinGainDB, MaxGainDB, DefaultInputDB).
			ShortName("In").
			Build(),
		param.DecibelGainParameter(ParamOutputGain, IDOutputGain, "Output gain", MinGainDB, MaxGainDB, DefaultOutputDB).
			ShortName("Out").
			Build(),
		param.DecibelGainParameter(ParamTone, IDTone, "Tone", MinGainDB, MaxGainDB, DefaultToneDB).
			Build(),
	)
}

// DefaultCCMap binds general purpose controllers 20-23 to the parameters and
// program changes to the algorithm selector.
func DefaultCCMap() *midi.CCMap {
	m := midi.NewCCMap()
	m.Bind(midi.CCDistortionType, ParamDistortionType)
	m.Bind(midi.CCInputGain, ParamInputGain)
	m.Bind(midi.CCOutputGain, ParamOutputGain)
	m.Bind(midi.CCTone, ParamTone)
	m.BindProgram(ParamDistortionType)
	return m
}
