package main

import (
	"errors"

	"github.com/justyntemme/godistortion/pkg/dsp/signal"
	"github.com/justyntemme/godistortion/pkg/host"
)

func runGenerate(args []string) error {
	fs := newFlagSet("generate")
	var s settings
	fs.StringVar(&s.logLevel, "log", "info", "log level: debug|info|warn|error|off")
	wave := fs.String("wave", "sine", "waveform: sine|saw|square|triangle|noise")
	freq := fs.Float64("freq", 440, "frequency in Hz")
	amp := fs.Float64("amp", 0.5, "amplitude")
	seconds := fs.Float64("seconds", 2, "length in seconds")
	rate := fs.Int("rate", 48000, "sample rate in Hz")
	channels := fs.Int("channels", 2, "channel count: 1 or 2")
	bitDepth := fs.Int("bits", host.DefaultBitDepth, "bit depth: 16|24|32")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("need an output file")
	}
	if *channels < 1 || *channels > 2 || *seconds <= 0 || *rate <= 0 {
		return errors.New("need 1 or 2 channels, a positive length and a positive rate")
	}

	logger, err := s.logger()
	if err != nil {
		return err
	}
	waveform, err := signal.ParseWaveform(*wave)
	if err != nil {
		return err
	}

	out := host.NewAudio(*rate, *channels, int(*seconds*float64(*rate)))
	osc := signal.NewOscillator(float64(*rate))
	osc.SetWaveform(waveform)
	osc.SetFrequency(*freq)
	osc.Fill(out.Channels[0], *amp)
	for ch := 1; ch < *channels; ch++ {
		copy(out.Channels[ch], out.Channels[0])
	}

	if err := host.WriteWAVFile(fs.Arg(0), out, *bitDepth); err != nil {
		return err
	}
	logger.Info("wrote %.2fs of %s at %g Hz to %s", out.Duration(), waveform, *freq, fs.Arg(0))
	return nil
}
