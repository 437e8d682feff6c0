package debug

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestAudioAnalyzer(t *testing.T) {
	analyzer := NewAudioAnalyzer()

	tests := []struct {
		name      string
		buffer    []float32
		peak      float32
		clipped   int
		nan, inf  int
		crossings int
		silent    bool
	}{
		{"Empty", nil, 0, 0, 0, 0, 0, false},
		{"Silence", make([]float32, 64), 0, 0, 0, 0, 0, true},
		{"Alternating", []float32{0.5, -0.5, 0.5, -0.5}, 0.5, 0, 0, 0, 3, false},
		{"Clipping", []float32{1.0, -1.5, 0.2}, 1.5, 2, 0, 0, 1, false},
		{"NonFinite", []float32{0.25, float32(math.NaN()), float32(math.Inf(-1)), 0.25}, 0.25, 0, 1, 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyzer.Analyze(tt.buffer)
			if r.Peak != tt.peak {
				t.Errorf("Peak = %v, want %v", r.Peak, tt.peak)
			}
			if r.ClippedSamples != tt.clipped {
				t.Errorf("ClippedSamples = %d, want %d", r.ClippedSamples, tt.clipped)
			}
			if r.NaNCount != tt.nan || r.InfCount != tt.inf {
				t.Errorf("NaN/Inf = %d/%d, want %d/%d", r.NaNCount, r.InfCount, tt.nan, tt.inf)
			}
			if r.ZeroCrossings != tt.crossings {
				t.Errorf("ZeroCrossings = %d, want %d", r.ZeroCrossings, tt.crossings)
			}
			if len(tt.buffer) > 0 && r.Silent != tt.silent {
				t.Errorf("Silent = %v, want %v", r.Silent, tt.silent)
			}
		})
	}

	t.Run("Levels", func(t *testing.T) {
		r := analyzer.Analyze([]float32{0.5, 0.5, 0.5, 0.5})
		if math.Abs(float64(r.RMS)-0.5) > 1e-6 {
			t.Errorf("RMS = %v, want 0.5", r.RMS)
		}
		if math.Abs(float64(r.DC)-0.5) > 1e-6 {
			t.Errorf("DC = %v, want 0.5", r.DC)
		}
	})
}

func TestCheck(t *testing.T) {
	analyzer := NewAudioAnalyzer()

	if issues := analyzer.Check([]float32{0.1, -0.1}, "clean"); len(issues) != 0 {
		t.Errorf("clean buffer issues: %v", issues)
	}

	issues := analyzer.Check([]float32{2, 2, float32(math.NaN())}, "bad")
	joined := strings.Join(issues, "\n")
	for _, want := range []string{"NaN", "clipping", "DC offset"} {
		if !strings.Contains(joined, want) {
			t.Errorf("issues missing %q: %v", want, issues)
		}
	}
}

func TestCompareBuffers(t *testing.T) {
	a := []float32{0, 0.5, 1}

	d, err := CompareBuffers(a, []float32{0, 0.5, 1.00001}, 1e-3)
	if err != nil || !d.Identical() {
		t.Errorf("expected identical, got %v, %v", d, err)
	}

	d, _ = CompareBuffers(a, []float32{0, 0.25, float32(math.NaN())}, 1e-3)
	if d.Different != 2 {
		t.Errorf("Different = %d, want 2", d.Different)
	}
	if d.MaxDiffIndex != 1 || d.MaxDiff != 0.25 {
		t.Errorf("Max = %v at %d", d.MaxDiff, d.MaxDiffIndex)
	}

	if _, err := CompareBuffers(a, a[:2], 0); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestLogBufferStats(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "", FlagLevel)
	logger.SetLevel(LogLevelDebug)

	LogBufferStats(logger, "out", NewAudioAnalyzer().Analyze([]float32{1.2, float32(math.Inf(1))}))

	out := buf.String()
	if !strings.Contains(out, "[WARN] out: clipping on 1 samples") {
		t.Errorf("missing clipping warning: %q", out)
	}
	if !strings.Contains(out, "[ERROR] out: 0 NaN and 1 infinite samples") {
		t.Errorf("missing non-finite error: %q", out)
	}
}
