// Package host runs the distortion processor outside a plugin host: offline
// over WAV files, in batches, and in real time through the system audio device.
package host

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	// ErrInvalidWAV is returned for files the decoder cannot read.
	ErrInvalidWAV = errors.New("invalid WAV file")
	// ErrUnsupportedFormat is returned for sample formats other than 16, 24 or 32 bit PCM.
	ErrUnsupportedFormat = errors.New("unsupported WAV format")
)

const (
	pcmFormat        = 1
	extensibleFormat = 0xFFFE
)

// DefaultBitDepth is used when writing audio that has no source depth.
const DefaultBitDepth = 24

// Audio is a deinterleaved float buffer with its format.
type Audio struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float32
}

// NewAudio allocates silent audio.
func NewAudio(sampleRate, channels, frames int) *Audio {
	a := &Audio{
		SampleRate: sampleRate,
		BitDepth:   DefaultBitDepth,
		Channels:   make([][]float32, channels),
	}
	for ch := range a.Channels {
		a.Channels[ch] = make([]float32, frames)
	}
	return a
}

// NumChannels returns the channel count.
func (a *Audio) NumChannels() int {
	return len(a.Channels)
}

// Frames returns the length in samples per channel.
func (a *Audio) Frames() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Duration returns the length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(a.Frames()) / float64(a.SampleRate)
}

func supportedDepth(bitDepth int) bool {
	return bitDepth == 16 || bitDepth == 24 || bitDepth == 32
}

// ReadWAV decodes a PCM WAV stream into float samples in [-1, 1).
func ReadWAV(r io.ReadSeeker) (*Audio, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	if (d.WavAudioFormat != pcmFormat && d.WavAudioFormat != extensibleFormat) || !supportedDepth(int(d.BitDepth)) {
		return nil, fmt.Errorf("%w: format %d, %d bit", ErrUnsupportedFormat, d.WavAudioFormat, d.BitDepth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}

	channels := int(d.NumChans)
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}
	if channels < 1 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidWAV)
	}

	frames := len(buf.Data) / channels
	a := NewAudio(int(d.SampleRate), channels, frames)
	a.BitDepth = int(d.BitDepth)

	scale := 1 / fullScale(a.BitDepth)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			a.Channels[ch][i] = float32(float64(buf.Data[i*channels+ch]) * scale)
		}
	}
	return a, nil
}

// ReadWAVFile opens and decodes path.
func ReadWAVFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return a, nil
}

// WriteWAV encodes a as PCM at bitDepth. A zero bitDepth uses the audio's own depth.
// Samples are clipped to full scale.
func WriteWAV(w io.WriteSeeker, a *Audio, bitDepth int) error {
	if bitDepth == 0 {
		bitDepth = a.BitDepth
	}
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	if !supportedDepth(bitDepth) {
		return fmt.Errorf("%w: %d bit", ErrUnsupportedFormat, bitDepth)
	}
	channels := a.NumChannels()
	if channels < 1 || a.SampleRate <= 0 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedFormat, channels, a.SampleRate)
	}

	frames := a.Frames()
	full := fullScale(bitDepth)
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			data[i*channels+ch] = quantize(a.Channels[ch][i], full)
		}
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: a.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	e := wav.NewEncoder(w, a.SampleRate, bitDepth, channels, pcmFormat)
	if err := e.Write(buf); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := e.Close(); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	return nil
}

// WriteWAVFile encodes a into path, creating parent directories.
func WriteWAVFile(path string, a *Audio, bitDepth int) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := WriteWAV(f, a, bitDepth); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

func quantize(x float32, full float64) int {
	v := float64(x)
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v * full)
	if v > full-1 {
		v = full - 1
	} else if v < -full {
		v = -full
	}
	return int(v)
}
