package effect

import (
	"math"
	"testing"

	"github.com/justyntemme/godistortion/pkg/dsp/distortion"
	"github.com/justyntemme/godistortion/pkg/midi"
)

func TestDefaultCCMap(t *testing.T) {
	p := New()
	m := DefaultCCMap()

	tests := []struct {
		raw  []byte
		id   uint32
		want float64
	}{
		{[]byte{0xB0, midi.CCInputGain, 127}, ParamInputGain, MaxGainDB},
		{[]byte{0xB0, midi.CCOutputGain, 0}, ParamOutputGain, MinGainDB},
		{[]byte{0xB0, midi.CCTone, 127}, ParamTone, MaxGainDB},
		{[]byte{0xB0, midi.CCDistortionType, 0}, ParamDistortionType, 0},
		{[]byte{0xC0, 9}, ParamDistortionType, float64(distortion.SlewLimiter)},
		{[]byte{0xC0, 100}, ParamDistortionType, float64(distortion.SlewLimiter)},
		{[]byte{0xC0, 2}, ParamDistortionType, float64(distortion.Exponential)},
	}

	for _, tt := range tests {
		ok, err := m.ApplyRaw(tt.raw, p)
		if !ok || err != nil {
			t.Errorf("ApplyRaw(% X) = %v, %v", tt.raw, ok, err)
			continue
		}
		got, _ := p.Param(tt.id)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ApplyRaw(% X): param %d = %f, want %f", tt.raw, tt.id, got, tt.want)
		}
	}
}
