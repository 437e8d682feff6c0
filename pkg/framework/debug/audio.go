package debug

import (
	"fmt"
	"math"
)

// AudioAnalyzer inspects rendered buffers for level and sanity problems.
type AudioAnalyzer struct {
	ClipThreshold    float32
	DCThreshold      float32
	SilenceThreshold float32
}

// NewAudioAnalyzer creates an analyzer with default thresholds.
func NewAudioAnalyzer() *AudioAnalyzer {
	return &AudioAnalyzer{
		ClipThreshold:    1.0,
		DCThreshold:      0.01,
		SilenceThreshold: 0.0001,
	}
}

// AnalysisResult contains the results of audio buffer analysis.
type AnalysisResult struct {
	Samples        int
	Peak           float32
	RMS            float32
	DC             float32
	ClippedSamples int
	NaNCount       int
	InfCount       int
	ZeroCrossings  int
	Silent         bool
}

// Clipping reports whether any sample reached the clip threshold.
func (r AnalysisResult) Clipping() bool { return r.ClippedSamples > 0 }

// Finite reports whether every sample was a finite number.
func (r AnalysisResult) Finite() bool { return r.NaNCount == 0 && r.InfCount == 0 }

// Analyze measures buffer. Non-finite samples are counted and left out of
// the level figures.
func (a *AudioAnalyzer) Analyze(buffer []float32) AnalysisResult {
	result := AnalysisResult{Samples: len(buffer)}
	if len(buffer) == 0 {
		return result
	}

	var sum, sumSquares float64
	var finite int
	var last float32
	var haveLast bool

	for _, sample := range buffer {
		s := float64(sample)
		if math.IsNaN(s) {
			result.NaNCount++
			continue
		}
		if math.IsInf(s, 0) {
			result.InfCount++
			continue
		}

		abs := float32(math.Abs(s))
		if abs > result.Peak {
			result.Peak = abs
		}
		if abs >= a.ClipThreshold {
			result.ClippedSamples++
		}

		sum += s
		sumSquares += s * s
		finite++

		if haveLast && (last < 0) != (sample < 0) {
			result.ZeroCrossings++
		}
		last, haveLast = sample, true
	}

	if finite > 0 {
		result.RMS = float32(math.Sqrt(sumSquares / float64(finite)))
		result.DC = float32(sum / float64(finite))
	}
	result.Silent = result.RMS < a.SilenceThreshold
	return result
}

// Check returns human readable problems found in buffer.
func (a *AudioAnalyzer) Check(buffer []float32, name string) []string {
	result := a.Analyze(buffer)

	var issues []string
	if result.NaNCount > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d NaN values", name, result.NaNCount))
	}
	if result.InfCount > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d infinite values", name, result.InfCount))
	}
	if result.Clipping() {
		issues = append(issues, fmt.Sprintf("%s: clipping detected (%d samples, peak %.3f)", name, result.ClippedSamples, result.Peak))
	}
	if math.Abs(float64(result.DC)) > float64(a.DCThreshold) {
		issues = append(issues, fmt.Sprintf("%s: DC offset detected (%.3f)", name, result.DC))
	}
	return issues
}

// Diff summarizes the difference between two buffers.
type Diff struct {
	Length       int
	Different    int
	MaxDiff      float32
	MaxDiffIndex int
	AvgDiff      float64
}

// Identical reports whether no sample differed beyond tolerance.
func (d Diff) Identical() bool { return d.Different == 0 }

// String renders the diff for logs.
func (d Diff) String() string {
	if d.Identical() {
		return "Buffers are identical within tolerance"
	}
	return fmt.Sprintf("Buffer differences: %d / %d samples (%.1f%%), max %.6f at %d, avg %.6f",
		d.Different, d.Length, float64(d.Different)/float64(d.Length)*100,
		d.MaxDiff, d.MaxDiffIndex, d.AvgDiff)
}

// CompareBuffers compares a and b sample by sample.
func CompareBuffers(a, b []float32, tolerance float32) (Diff, error) {
	if len(a) != len(b) {
		return Diff{}, fmt.Errorf("buffer length mismatch: %d vs %d", len(a), len(b))
	}

	d := Diff{Length: len(a)}
	var total float64
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		// NaN never compares greater, so test it explicitly
		if diff > tolerance || diff != diff {
			d.Different++
			total += float64(diff)
			if diff > d.MaxDiff {
				d.MaxDiff = diff
				d.MaxDiffIndex = i
			}
		}
	}
	if d.Different > 0 {
		d.AvgDiff = total / float64(d.Different)
	}
	return d, nil
}

// LogBufferStats writes the analysis of buffer to logger.
func LogBufferStats(logger *Logger, name string, result AnalysisResult) {
	logger.Info("%s: %d samples, peak %.3f, rms %.3f, dc %.6f",
		name, result.Samples, result.Peak, result.RMS, result.DC)
	if result.Clipping() {
		logger.Warn("%s: clipping on %d samples", name, result.ClippedSamples)
	}
	if !result.Finite() {
		logger.Error("%s: %d NaN and %d infinite samples", name, result.NaNCount, result.InfCount)
	}
	if result.Silent {
		logger.Debug("%s: silent", name)
	}
}
