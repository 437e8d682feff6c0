package analysis

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/justyntemme/godistortion/pkg/dsp/gain"
)

// ErrInvalidAnalysis is returned for analysis requests that cannot be measured.
var ErrInvalidAnalysis = errors.New("invalid analysis request")

// HarmonicReport describes the spectral content of a periodic signal.
type HarmonicReport struct {
	Fundamental float64   // Hz
	DC          float64   // linear amplitude
	Levels      []float64 // linear amplitude of harmonic k+1
	THD         float64   // ratio, +Inf when the fundamental is absent
}

// THDdB returns the distortion ratio in decibels.
func (r HarmonicReport) THDdB() float64 {
	if math.IsInf(r.THD, 1) {
		return math.Inf(1)
	}
	return gain.LinearToDb(r.THD)
}

// LevelDB returns the level of harmonic k (1 is the fundamental) in dBFS.
func (r HarmonicReport) LevelDB(k int) float64 {
	if k < 1 || k > len(r.Levels) {
		return gain.MinDB
	}
	return gain.LinearToDb(r.Levels[k-1])
}

// Harmonics measures DC and the first n harmonics of fundamental in signal.
// Levels are sine amplitudes. The signal is Hann windowed and zero padded to a
// power of two; bin-centred fundamentals give exact results.
func Harmonics(signal []float64, sampleRate, fundamental float64, n int) (HarmonicReport, error) {
	switch {
	case len(signal) < 2:
		return HarmonicReport{}, fmt.Errorf("%w: %d samples", ErrInvalidAnalysis, len(signal))
	case sampleRate <= 0:
		return HarmonicReport{}, fmt.Errorf("%w: sample rate %v", ErrInvalidAnalysis, sampleRate)
	case fundamental <= 0 || fundamental >= sampleRate/2:
		return HarmonicReport{}, fmt.Errorf("%w: fundamental %v Hz", ErrInvalidAnalysis, fundamental)
	case n < 1:
		return HarmonicReport{}, fmt.Errorf("%w: %d harmonics", ErrInvalidAnalysis, n)
	}

	size := nextPowerOf2(len(signal))
	win := hann(len(signal))
	windowed := make([]float64, len(signal))
	copy(windowed, signal)
	vecmath.MulBlockInPlace(windowed, win)

	in := make([]complex128, size)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return HarmonicReport{}, fmt.Errorf("fft plan: %w", err)
	}
	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return HarmonicReport{}, fmt.Errorf("fft: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range re {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}
	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	sumW2 := 0.0
	for _, w := range win {
		sumW2 += w * w
	}
	norm := float64(size) * sumW2
	capture := 2 * ((size + len(signal) - 1) / len(signal))
	binHz := sampleRate / float64(size)

	report := HarmonicReport{Fundamental: fundamental}

	// DC lobe is mirrored around bin 0
	dc := power[0]
	for i := 1; i <= capture && i < bins; i++ {
		dc += 2 * power[i]
	}
	report.DC = math.Sqrt(dc / norm)

	for k := 1; k <= n; k++ {
		center := int(math.Round(float64(k) * fundamental / binHz))
		if center+capture >= bins {
			break
		}
		e := 0.0
		for i := center - capture; i <= center+capture; i++ {
			if i > capture {
				e += power[i]
			}
		}
		report.Levels = append(report.Levels, 2*math.Sqrt(e/norm))
	}

	if len(report.Levels) == 0 || report.Levels[0] == 0 {
		report.THD = math.Inf(1)
		return report, nil
	}
	var distortion float64
	for _, l := range report.Levels[1:] {
		distortion += l * l
	}
	report.THD = math.Sqrt(distortion) / report.Levels[0]

	return report, nil
}

// hann returns a periodic Hann window.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
