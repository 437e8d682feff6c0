package host

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func sineAudio(sampleRate, channels, frames int, freq, amp float64) *Audio {
	a := NewAudio(sampleRate, channels, frames)
	for ch := range a.Channels {
		for i := range a.Channels[ch] {
			phase := 2*math.Pi*freq*float64(i)/float64(sampleRate) + float64(ch)
			a.Channels[ch][i] = float32(amp * math.Sin(phase))
		}
	}
	return a
}

func TestWAVRoundTrip(t *testing.T) {
	for _, depth := range []int{16, 24, 32} {
		path := filepath.Join(t.TempDir(), "tone.wav")
		in := sineAudio(44100, 2, 1000, 440, 0.8)

		if err := WriteWAVFile(path, in, depth); err != nil {
			t.Fatalf("%d bit: write: %v", depth, err)
		}
		out, err := ReadWAVFile(path)
		if err != nil {
			t.Fatalf("%d bit: read: %v", depth, err)
		}

		if out.SampleRate != 44100 || out.NumChannels() != 2 || out.Frames() != 1000 || out.BitDepth != depth {
			t.Fatalf("%d bit: format %d Hz, %d ch, %d frames, %d bit",
				depth, out.SampleRate, out.NumChannels(), out.Frames(), out.BitDepth)
		}

		tolerance := 1.0 / fullScale(depth)
		if depth == 32 {
			tolerance = 1e-6
		}
		for ch := range in.Channels {
			for i := range in.Channels[ch] {
				if diff := math.Abs(float64(in.Channels[ch][i] - out.Channels[ch][i])); diff > tolerance {
					t.Fatalf("%d bit: ch %d sample %d differs by %g", depth, ch, i, diff)
				}
			}
		}
	}
}

func TestWAVClipsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	in := NewAudio(8000, 1, 4)
	copy(in.Channels[0], []float32{2, -2, float32(math.NaN()), 0.5})

	if err := WriteWAVFile(path, in, 16); err != nil {
		t.Fatal(err)
	}
	out, err := ReadWAVFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := []float32{32767.0 / 32768, -1, 0, 0.5}
	for i, w := range want {
		if math.Abs(float64(out.Channels[0][i]-w)) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, out.Channels[0][i], w)
		}
	}
}

func TestWAVErrors(t *testing.T) {
	if _, err := ReadWAV(bytes.NewReader([]byte("definitely not a wav file"))); !errors.Is(err, ErrInvalidWAV) {
		t.Errorf("garbage input error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "x.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := WriteWAV(f, NewAudio(44100, 1, 8), 12); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("12 bit error = %v", err)
	}
	if err := WriteWAV(f, NewAudio(44100, 0, 0), 16); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("no channel error = %v", err)
	}

	if _, err := ReadWAVFile(filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestAudioDuration(t *testing.T) {
	a := NewAudio(48000, 2, 24000)
	if a.Duration() != 0.5 {
		t.Errorf("Duration = %v, want 0.5", a.Duration())
	}
	if (&Audio{}).Frames() != 0 {
		t.Error("empty audio should have no frames")
	}
}
