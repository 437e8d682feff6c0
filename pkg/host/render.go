package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/justyntemme/godistortion/pkg/effect"
	"github.com/justyntemme/godistortion/pkg/framework/debug"
	"github.com/justyntemme/godistortion/pkg/framework/process"
	"github.com/justyntemme/godistortion/pkg/midi"
)

// DefaultBlockSize is the render block length when none is given.
const DefaultBlockSize = 512

// ErrEmptyInput is returned when there is no audio to render.
var ErrEmptyInput = errors.New("input has no audio")

// Renderer processes whole files offline, block by block.
type Renderer struct {
	BlockSize int

	// Automation is evaluated once at the start of every block.
	Automation *Automation

	// Events are applied through CCMap at their sample offsets. Blocks are
	// split at event positions.
	Events *midi.EventQueue
	CCMap  *midi.CCMap

	// OutputChannels widens the output when the processor layout allows it.
	// Zero renders as many channels as the input has.
	OutputChannels int

	Logger   *debug.Logger
	Profiler *debug.BlockProfiler
}

// Render runs proc over in and returns the processed audio.
func Render(ctx context.Context, proc *effect.Processor, in *Audio, blockSize int, automation *Automation) (*Audio, error) {
	r := &Renderer{BlockSize: blockSize, Automation: automation}
	return r.Render(ctx, proc, in)
}

// Render prepares proc for the input format, processes every block and
// releases the processor.
func (r *Renderer) Render(ctx context.Context, proc *effect.Processor, in *Audio) (*Audio, error) {
	if in == nil || in.NumChannels() == 0 || in.SampleRate <= 0 {
		return nil, ErrEmptyInput
	}

	blockSize := r.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	inChannels := in.NumChannels()
	outChannels := r.OutputChannels
	if outChannels == 0 {
		outChannels = inChannels
	}
	sampleRate := float64(in.SampleRate)

	if err := proc.Prepare(sampleRate, blockSize, inChannels, outChannels); err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	defer proc.Release()

	logger := r.Logger
	if logger == nil {
		logger = debug.Default()
	}
	frames := in.Frames()
	logger.Debug("render %d frames, %d -> %d channels at %d Hz, block %d",
		frames, inChannels, outChannels, in.SampleRate, blockSize)

	out := NewAudio(in.SampleRate, outChannels, frames)
	out.BitDepth = in.BitDepth

	block := make([][]float32, outChannels)
	views := make([][]float32, outChannels)
	for ch := range block {
		block[ch] = make([]float32, blockSize)
	}
	pc := process.NewContext(sampleRate, proc.Parameters())

	for pos := 0; pos < frames; pos += blockSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := min(blockSize, frames-pos)
		for ch := range block {
			if ch < inChannels {
				copy(block[ch], in.Channels[ch][pos:pos+n])
			} else {
				clear(block[ch][:n])
			}
		}

		if r.Automation != nil {
			if err := r.Automation.Apply(float64(pos)/sampleRate, proc.Parameters()); err != nil {
				return nil, err
			}
		}

		var stop func()
		if r.Profiler != nil {
			stop = r.Profiler.StartBlock(n)
		}
		for start := 0; start < n; {
			end := r.applyEvents(proc, logger, int64(pos), start, n)
			for ch := range views {
				views[ch] = block[ch][start:end]
			}
			pc.Set(views, inChannels, end-start)
			if err := pc.Validate(); err != nil {
				return nil, err
			}
			proc.Process(pc.Buffer, pc.InputChannels, pc.NumSamples)
			start = end
		}
		if stop != nil {
			stop()
		}

		for ch := range block {
			copy(out.Channels[ch][pos:pos+n], block[ch][:n])
		}
	}

	logger.Debug("render done: %.2fs of audio", out.Duration())
	return out, nil
}

// applyEvents applies events due at or before pos+start and returns where the
// current sub-block must end.
func (r *Renderer) applyEvents(proc *effect.Processor, logger *debug.Logger, pos int64, start, n int) int {
	if r.Events == nil || r.CCMap == nil {
		return n
	}

	for _, ev := range r.Events.Pop(pos + int64(start) + 1) {
		if _, err := r.CCMap.Apply(ev, proc); err != nil {
			logger.Warn("midi: %v", err)
		}
	}

	if next, ok := r.Events.NextOffset(); ok && next < pos+int64(n) {
		return int(next - pos)
	}
	return n
}
