package host

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/justyntemme/godistortion/pkg/effect"
	"github.com/justyntemme/godistortion/pkg/framework/debug"
)

func writeInput(t *testing.T, dir, name string, a *Audio) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := WriteWAVFile(path, a, 16); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderBatch(t *testing.T) {
	dir := t.TempDir()
	preset := filepath.Join(dir, "loud.xml")
	presetProc := effect.New()
	presetProc.SetParam(effect.ParamOutputGain, 0)
	if err := presetProc.State().SaveFile(preset); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "tone.lua")
	if err := os.WriteFile(script, []byte(`function automate(t) return { tone = -6 } end`), 0644); err != nil {
		t.Fatal(err)
	}

	jobs := []Job{
		{
			Input:  writeInput(t, dir, "a.wav", sineAudio(22050, 1, 2000, 100, 0.5)),
			Output: filepath.Join(dir, "out", "a.wav"),
			Params: map[string]float64{effect.IDOutputGain: 0, effect.IDDistortionType: 0},
		},
		{
			Input:  writeInput(t, dir, "b.wav", sineAudio(44100, 2, 3000, 200, 0.5)),
			Output: filepath.Join(dir, "out", "b.wav"),
			Preset: preset,
			Script: script,
		},
		{
			Input:  writeInput(t, dir, "c.wav", sineAudio(48000, 2, 100, 50, 0.1)),
			Output: filepath.Join(dir, "out", "c.wav"),
		},
	}

	var logs bytes.Buffer
	b := &Batch{Workers: 2, BlockSize: 256, Logger: debug.New(&logs, "batch", debug.FlagPrefix)}
	results, err := b.Run(context.Background(), jobs)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("got %d results", len(results))
	}

	for i, res := range results {
		if res.Job.Input != jobs[i].Input {
			t.Errorf("result %d is for %s", i, res.Job.Input)
		}
		out, err := ReadWAVFile(jobs[i].Output)
		if err != nil {
			t.Fatalf("job %d output: %v", i, err)
		}
		if out.Frames() != res.Frames || len(res.Channels) != out.NumChannels() {
			t.Errorf("job %d: %d frames, %d analyses", i, res.Frames, len(res.Channels))
		}
		for ch, a := range res.Channels {
			if !a.Finite() {
				t.Errorf("job %d ch %d has non-finite output", i, ch)
			}
		}
	}

	// Hard clipping at unity output halves a 0.5 sine peak to 0.25
	if peak := results[0].Channels[0].Peak; math.Abs(float64(peak)-0.25) > 0.01 {
		t.Errorf("job 0 peak = %v, want 0.25", peak)
	}
	if results[1].Channels[0].Peak < 0.05 {
		t.Errorf("job 1 peak = %v, preset output gain not applied", results[1].Channels[0].Peak)
	}
	if !strings.Contains(logs.String(), "[batch] rendered") {
		t.Errorf("missing progress log: %q", logs.String())
	}
}

func TestRenderBatchFailure(t *testing.T) {
	dir := t.TempDir()
	jobs := []Job{
		{Input: filepath.Join(dir, "missing.wav"), Output: filepath.Join(dir, "out.wav")},
	}

	_, err := RenderBatch(context.Background(), jobs, 1)
	if err == nil || !strings.Contains(err.Error(), "missing.wav") {
		t.Errorf("error = %v", err)
	}

	jobs[0] = Job{
		Input:  writeInput(t, dir, "in.wav", sineAudio(8000, 1, 10, 100, 0.5)),
		Output: filepath.Join(dir, "out.wav"),
		Params: map[string]float64{"drive": 1},
	}
	if _, err := RenderBatch(context.Background(), jobs, 1); err == nil {
		t.Error("unknown parameter should fail the job")
	}
}
