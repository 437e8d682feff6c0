package host

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/justyntemme/godistortion/pkg/dsp/gain"
	"github.com/justyntemme/godistortion/pkg/effect"
	"github.com/justyntemme/godistortion/pkg/framework/process"
)

const bytesPerSample = 4

// ErrPlayerClosed is returned when starting a closed player.
var ErrPlayerClosed = errors.New("player closed")

// Source streams audio through a processor as interleaved little endian
// float32 frames. Its Read method is the audio thread: it runs the processor
// and must not block. Parameters may be changed from other goroutines.
type Source struct {
	proc      *effect.Processor
	in        *Audio
	loop      bool
	pos       int
	block     [][]float32
	pc        *process.Context
	frame     []float32
	blockSize int
	done      atomic.Bool
	fading    atomic.Bool
}

// NewSource prepares proc for in and returns a reader over the processed audio.
// With loop set the input repeats forever.
func NewSource(proc *effect.Processor, in *Audio, blockSize int, loop bool) (*Source, error) {
	if in == nil || in.NumChannels() == 0 || in.Frames() == 0 {
		return nil, ErrEmptyInput
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	channels := in.NumChannels()
	sampleRate := float64(in.SampleRate)
	if err := proc.Prepare(sampleRate, blockSize, channels, channels); err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}

	s := &Source{
		proc:      proc,
		in:        in,
		loop:      loop,
		block:     make([][]float32, channels),
		pc:        process.NewContext(sampleRate, proc.Parameters()),
		frame:     make([]float32, blockSize*channels),
		blockSize: blockSize,
	}
	for ch := range s.block {
		s.block[ch] = make([]float32, blockSize)
	}
	return s, nil
}

// Channels returns the number of interleaved channels.
func (s *Source) Channels() int {
	return len(s.block)
}

// SampleRate returns the stream rate in Hz.
func (s *Source) SampleRate() int {
	return s.in.SampleRate
}

// Done reports whether a non-looping source has reached the end.
func (s *Source) Done() bool {
	return s.done.Load()
}

// FadeOut asks the source to ramp its next block down to silence and then end
// the stream. It may be called from any goroutine.
func (s *Source) FadeOut() {
	s.fading.Store(true)
}

// Read fills p with whole frames of processed audio.
func (s *Source) Read(p []byte) (int, error) {
	if s.done.Load() {
		return 0, io.EOF
	}

	frameBytes := bytesPerSample * len(s.block)
	frames := len(p) / frameBytes
	if frames == 0 {
		clear(p)
		return len(p), nil
	}

	written := 0
	for written < frames {
		n := s.fill(min(frames-written, s.blockSize))
		if n == 0 {
			s.done.Store(true)
			break
		}

		s.pc.Set(s.block, len(s.block), n)
		s.proc.Process(s.pc.Buffer, s.pc.InputChannels, s.pc.NumSamples)
		if s.fading.Load() {
			for ch := range s.block {
				gain.Fade(s.block[ch][:n], 1, 0)
			}
			s.done.Store(true)
		}

		values := s.pc.Interleave(s.frame)
		out := p[written*frameBytes:]
		for i, v := range s.frame[:values] {
			binary.LittleEndian.PutUint32(out[i*bytesPerSample:], math.Float32bits(v))
		}
		written += n
		if s.done.Load() {
			break
		}
	}

	if written == 0 {
		return 0, io.EOF
	}
	return written * frameBytes, nil
}

// fill copies up to n input frames into the block, wrapping when looping.
func (s *Source) fill(n int) int {
	frames := s.in.Frames()
	filled := 0
	for filled < n {
		if s.pos >= frames {
			if !s.loop {
				break
			}
			s.pos = 0
		}
		chunk := min(n-filled, frames-s.pos)
		for ch := range s.block {
			copy(s.block[ch][filled:filled+chunk], s.in.Channels[ch][s.pos:s.pos+chunk])
		}
		filled += chunk
		s.pos += chunk
	}
	return filled
}

// Player plays a Source on the default audio device.
type Player struct {
	mu      sync.Mutex
	ctx     *oto.Context
	player  *oto.Player
	source  *Source
	started bool
	closed  bool
}

// NewPlayer opens the audio device for src. Only one player may exist per
// process.
func NewPlayer(src *Source) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   src.SampleRate(),
		ChannelCount: src.Channels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return &Player{
		ctx:    ctx,
		player: ctx.NewPlayer(src),
		source: src,
	}, nil
}

// Start begins playback.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPlayerClosed
	}
	if !p.started {
		p.player.Play()
		p.started = true
	}
	return nil
}

// IsPlaying reports whether audio is still being produced.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started && !p.closed && p.player.IsPlaying()
}

// Stop fades the output to silence. Playback ends once the faded block has
// been played; IsPlaying reports when.
func (p *Player) Stop() {
	p.source.FadeOut()
}

// Err returns the playback error, if any.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return nil
	}
	return p.player.Err()
}

// Close stops playback and releases the processor session.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	err := p.player.Close()
	p.source.proc.Release()
	return err
}
