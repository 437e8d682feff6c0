package host

import (
	"context"
	"errors"
	"testing"

	"github.com/justyntemme/godistortion/pkg/dsp/distortion"
	"github.com/justyntemme/godistortion/pkg/effect"
	"github.com/justyntemme/godistortion/pkg/framework/bus"
	"github.com/justyntemme/godistortion/pkg/framework/debug"
	"github.com/justyntemme/godistortion/pkg/midi"
)

// processDirect runs proc over a copy of in in blockSize chunks, with an
// optional hook called before each chunk start offset.
func processDirect(t *testing.T, proc *effect.Processor, in *Audio, splits []int, hook func(pos int)) [][]float32 {
	t.Helper()
	channels := in.NumChannels()
	if err := proc.Prepare(float64(in.SampleRate), in.Frames(), channels, channels); err != nil {
		t.Fatal(err)
	}
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = append([]float32(nil), in.Channels[ch]...)
	}

	bounds := append(append([]int{0}, splits...), in.Frames())
	views := make([][]float32, channels)
	for i := 0; i+1 < len(bounds); i++ {
		if hook != nil {
			hook(bounds[i])
		}
		for ch := range views {
			views[ch] = out[ch][bounds[i]:bounds[i+1]]
		}
		proc.Process(views, channels, bounds[i+1]-bounds[i])
	}
	return out
}

func assertSame(t *testing.T, got *Audio, want [][]float32) {
	t.Helper()
	if got.NumChannels() != len(want) {
		t.Fatalf("channels = %d, want %d", got.NumChannels(), len(want))
	}
	for ch := range want {
		for i := range want[ch] {
			if got.Channels[ch][i] != want[ch][i] {
				t.Fatalf("ch %d sample %d = %v, want %v", ch, i, got.Channels[ch][i], want[ch][i])
			}
		}
	}
}

func TestRenderMatchesDirectProcessing(t *testing.T) {
	in := sineAudio(44100, 2, 1000, 220, 0.9)

	proc := effect.New()
	proc.SetAlgorithm(distortion.SoftClipping)
	proc.SetParam(effect.ParamInputGain, 6)
	got, err := Render(context.Background(), proc, in, 128, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Frames() != in.Frames() || got.SampleRate != in.SampleRate {
		t.Fatalf("output %d frames at %d Hz", got.Frames(), got.SampleRate)
	}
	if proc.Prepared() {
		t.Error("Render should release the processor")
	}

	ref := effect.New()
	ref.SetAlgorithm(distortion.SoftClipping)
	ref.SetParam(effect.ParamInputGain, 6)
	splits := []int{128, 256, 384, 512, 640, 768, 896}
	assertSame(t, got, processDirect(t, ref, in, splits, nil))
}

func TestRenderSplitsAtEvents(t *testing.T) {
	in := sineAudio(48000, 1, 600, 300, 0.5)
	ccmap := effect.DefaultCCMap()

	events := midi.NewEventQueue()
	events.Add(
		midi.ControlChangeEvent{BaseEvent: midi.BaseEvent{Offset: 100}, Controller: midi.CCOutputGain, Value: 127},
		midi.ProgramChangeEvent{BaseEvent: midi.BaseEvent{Offset: 300}, Program: uint8(distortion.HardClipping)},
	)

	proc := effect.New()
	r := &Renderer{BlockSize: 256, Events: events, CCMap: ccmap}
	got, err := r.Render(context.Background(), proc, in)
	if err != nil {
		t.Fatal(err)
	}
	if events.Size() != 0 {
		t.Errorf("%d events left in the queue", events.Size())
	}

	ref := effect.New()
	want := processDirect(t, ref, in, []int{100, 256, 300, 512}, func(pos int) {
		switch pos {
		case 100:
			ref.SetParamNormalized(effect.ParamOutputGain, 1)
		case 300:
			ref.SetAlgorithm(distortion.HardClipping)
		}
	})
	assertSame(t, got, want)
}

func TestRenderAutomation(t *testing.T) {
	in := sineAudio(1000, 1, 1000, 10, 0.5)
	a, err := NewAutomation(`
seen = 0
function automate(t)
  seen = seen + 1
  return { tone = 12 * t }
end`)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	proc := effect.New()
	if _, err := Render(context.Background(), proc, in, 100, a); err != nil {
		t.Fatal(err)
	}

	// Last block starts at 0.9 s
	tone, _ := proc.Param(effect.ParamTone)
	if tone < 10.79 || tone > 10.81 {
		t.Errorf("tone = %v, want 10.8", tone)
	}
	if calls := a.L.GetGlobal("seen").String(); calls != "10" {
		t.Errorf("automate called %s times, want 10", calls)
	}
}

func TestRenderProfilesBlocks(t *testing.T) {
	in := sineAudio(44100, 2, 1000, 440, 0.5)
	r := &Renderer{BlockSize: 300, Profiler: debug.NewBlockProfiler(44100)}
	if _, err := r.Render(context.Background(), effect.New(), in); err != nil {
		t.Fatal(err)
	}

	m, ok := r.Profiler.GetMeasurement(debug.ProcessSection)
	if !ok || m.Count() != 4 {
		t.Errorf("profiled blocks = %v", m)
	}
}

func TestRenderErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := Render(ctx, effect.New(), NewAudio(44100, 0, 0), 64, nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty input error = %v", err)
	}

	r := &Renderer{OutputChannels: 2}
	if _, err := r.Render(ctx, effect.New(), NewAudio(44100, 1, 64)); !errors.Is(err, bus.ErrUnsupportedLayout) {
		t.Errorf("mono to stereo error = %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := Render(canceled, effect.New(), NewAudio(44100, 1, 64), 16, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled render error = %v", err)
	}

	a, err := NewAutomation(`function automate(t) return { nope = 1 } end`)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if _, err := Render(ctx, effect.New(), NewAudio(44100, 1, 64), 16, a); err == nil {
		t.Error("expected automation error")
	}
}

func TestRenderWiderOutput(t *testing.T) {
	in := sineAudio(44100, 1, 256, 440, 0.5)
	proc := effect.New(effect.WithLayout(bus.Layout{AllowWiderOutput: true}))
	r := &Renderer{BlockSize: 64, OutputChannels: 2}

	out, err := r.Render(context.Background(), proc, in)
	if err != nil {
		t.Fatal(err)
	}
	if out.NumChannels() != 2 {
		t.Fatalf("channels = %d", out.NumChannels())
	}
	for i, v := range out.Channels[1] {
		if v != 0 {
			t.Fatalf("extra channel sample %d = %v, want silence", i, v)
		}
	}
}
