package distortion

import (
	"math"
	"testing"
)

func TestShapeBounds(t *testing.T) {
	bounds := []struct {
		alg      Algorithm
		min, max float64
	}{
		{HardClipping, -0.25, 0.25},
		{SoftClipping, -0.5, 0.5},
		{Exponential, -0.05 * (1 - math.Exp(-1)), 0.05 * (1 - math.Exp(-1))},
		{FullWaveRectifier, 0, 1},
		{HalfWaveRectifier, 0, 1},
		{FoldBack, -0.3, 0.3},
		{Squarer, 0, 1},
		{ChebyshevT4, -0.3, -0.1},
		{BitCrusher, -1, 1},
		{SlewLimiter, -1, 1},
	}

	if len(bounds) != NumAlgorithms {
		t.Fatalf("bounds table covers %d algorithms, want %d", len(bounds), NumAlgorithms)
	}

	const eps = 1e-12
	for _, b := range bounds {
		t.Run(b.alg.String(), func(t *testing.T) {
			state := NewChannelState(NewSlewRates(48000))
			for i := 0; i <= 2000; i++ {
				x := -1 + float64(i)/1000
				y := Shape(b.alg, x, &state)
				if y < b.min-eps || y > b.max+eps {
					t.Fatalf("Shape(%v, %f) = %f, outside [%f, %f]", b.alg, x, y, b.min, b.max)
				}
			}
		})
	}
}

func TestShapeZeroInput(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		want float64
	}{
		{HardClipping, 0},
		{SoftClipping, 0},
		{Exponential, 0},
		{FullWaveRectifier, 0},
		{HalfWaveRectifier, 0},
		{FoldBack, 0},
		{Squarer, 0},
		{ChebyshevT4, -0.1},
		{BitCrusher, 0},
		{SlewLimiter, 0},
	}

	for _, tt := range tests {
		state := NewChannelState(NewSlewRates(44100))
		for i := 0; i < 16; i++ {
			got := Shape(tt.alg, 0, &state)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("%v: Shape(0) sample %d = %f, want %f", tt.alg, i, got, tt.want)
			}
		}
	}
}

func TestTransferFunctions(t *testing.T) {
	tests := []struct {
		alg   Algorithm
		input float64
		want  float64
	}{
		{HardClipping, 0.2, 0.1},
		{HardClipping, 0.9, 0.25},
		{HardClipping, -0.9, -0.25},
		{SoftClipping, 0.1, 0.1},
		{SoftClipping, 0.5, 0.5 * (1 - 0.25/3)},
		{SoftClipping, -0.5, -0.5 * (1 - 0.25/3)},
		{SoftClipping, 0.9, 0.5},
		{Exponential, 1, 0.05 * (1 - math.Exp(-1))},
		{Exponential, -1, 0.05 * (-1 + math.Exp(-1))},
		{FullWaveRectifier, -0.7, 0.7},
		{HalfWaveRectifier, -0.7, 0},
		{HalfWaveRectifier, 0.7, 0.7},
		{FoldBack, 0.2, 0.2},
		{FoldBack, 0.5, (0.6 - 0.5) * 0.05},
		{FoldBack, -0.5, (-0.6 + 0.5) * 0.05},
		{FoldBack, 1, (0.6 - 1) * 0.05},
		{Squarer, -0.5, 0.25},
		{ChebyshevT4, 1, -0.1},
		{ChebyshevT4, math.Sqrt(0.5), -0.3},
	}

	for _, tt := range tests {
		var state ChannelState
		got := Shape(tt.alg, tt.input, &state)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Shape(%v, %f) = %f, want %f", tt.alg, tt.input, got, tt.want)
		}
	}
}

func TestSoftClipContinuity(t *testing.T) {
	for _, knee := range []float64{1.0 / 3.0, 2.0 / 3.0, -1.0 / 3.0, -2.0 / 3.0} {
		below := SoftClip(knee - 1e-9)
		above := SoftClip(knee + 1e-9)
		if math.Abs(below-above) > 1e-7 {
			t.Errorf("SoftClip discontinuous at %f: %f vs %f", knee, below, above)
		}
	}
}

func TestFoldBackUsesInput(t *testing.T) {
	var state ChannelState

	// A previous large output must not leak into the fold.
	Shape(FullWaveRectifier, 0.9, &state)
	got := Shape(FoldBack, 0.4, &state)
	want := (0.6 - 0.4) * 0.05
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("FoldBack(0.4) after 0.9 = %f, want %f", got, want)
	}
}

func TestBitCrusher(t *testing.T) {
	var state ChannelState
	input := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	want := []float64{1, 0, 0, 0, 5, 0, 0, 0}

	for i, x := range input {
		if got := Shape(BitCrusher, x, &state); got != want[i] {
			t.Errorf("sample %d: got %f, want %f", i, got, want[i])
		}
	}

	t.Run("CounterIsPerState", func(t *testing.T) {
		var left, right ChannelState
		Shape(BitCrusher, 1, &left)
		if got := Shape(BitCrusher, 1, &right); got != 1 {
			t.Errorf("right channel first sample = %f, want 1", got)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		var s ChannelState
		Shape(BitCrusher, 1, &s)
		Shape(BitCrusher, 1, &s)
		s.Reset()
		if got := Shape(BitCrusher, 3, &s); got != 3 {
			t.Errorf("after reset got %f, want 3", got)
		}
	})
}

func TestSlewLimiterStep(t *testing.T) {
	for _, sampleRate := range []float64{44100, 48000, 96000} {
		rates := NewSlewRates(sampleRate)
		wantRise := SlewMax / sampleRate * math.Pow(SlewMin/SlewMax, SlewRise)
		if math.Abs(rates.Rise-wantRise) > 1e-15 {
			t.Fatalf("rise at %.0f = %g, want %g", sampleRate, rates.Rise, wantRise)
		}

		state := NewChannelState(rates)
		steps := int(math.Ceil(1/rates.Rise)) + 10
		prev := 0.0
		for n := 1; n <= steps; n++ {
			got := Shape(SlewLimiter, 1, &state)
			want := math.Min(1, float64(n)*rates.Rise)
			if math.Abs(got-want) > 1e-9 {
				t.Fatalf("%.0f Hz sample %d: got %f, want %f", sampleRate, n, got, want)
			}
			if got-prev > rates.Rise+1e-12 {
				t.Fatalf("%.0f Hz sample %d rose by %g, limit %g", sampleRate, n, got-prev, rates.Rise)
			}
			prev = got
		}

		// Falling edge uses the fall rate.
		got := Shape(SlewLimiter, 0, &state)
		if math.Abs(got-(1-rates.Fall)) > 1e-12 {
			t.Errorf("%.0f Hz fall: got %f, want %f", sampleRate, got, 1-rates.Fall)
		}
	}
}

func TestSlewRatesFollowSampleRate(t *testing.T) {
	// The limit is per second, so doubling the rate halves the per-sample step.
	r48 := NewSlewRates(48000)
	r96 := NewSlewRates(96000)
	if math.Abs(r48.Rise-2*r96.Rise) > 1e-15 {
		t.Errorf("rise at 48k = %g, at 96k = %g; want a 2:1 ratio", r48.Rise, r96.Rise)
	}

	if r := NewSlewRates(0); r.Rise != 0 || r.Fall != 0 {
		t.Errorf("zero sample rate should give zero rates, got %+v", r)
	}
}

func TestInvalidAlgorithmPassesThrough(t *testing.T) {
	var state ChannelState
	if got := Shape(Algorithm(42), 0.3, &state); got != 0.3 {
		t.Errorf("Shape(invalid, 0.3) = %f, want 0.3", got)
	}
}

func TestNonFiniteInputDoesNotLatch(t *testing.T) {
	state := NewChannelState(NewSlewRates(48000))
	Shape(SlewLimiter, 0.01, &state)
	before := state.Last()

	Shape(FullWaveRectifier, math.NaN(), &state)
	Shape(ChebyshevT4, math.Inf(1), &state)
	if state.Last() != before {
		t.Fatalf("Last() = %f after non-finite output, want %f", state.Last(), before)
	}

	got := Shape(SlewLimiter, 0.0, &state)
	if math.IsNaN(got) {
		t.Error("slew limiter latched a NaN")
	}
}

func BenchmarkShape(b *testing.B) {
	state := NewChannelState(NewSlewRates(48000))
	for i := 0; i < b.N; i++ {
		Shape(Algorithm(i%NumAlgorithms), 0.5, &state)
	}
}
