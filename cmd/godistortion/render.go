package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/justyntemme/godistortion/pkg/dsp/analysis"
	"github.com/justyntemme/godistortion/pkg/dsp/gain"
	"github.com/justyntemme/godistortion/pkg/effect"
	"github.com/justyntemme/godistortion/pkg/framework/debug"
	"github.com/justyntemme/godistortion/pkg/host"
	"github.com/justyntemme/godistortion/pkg/midi"
)

// ccEvent is one -cc flag: a controller or program change at a time in seconds.
type ccEvent struct {
	seconds float64
	msg     gomidi.Message
}

// ccEvents collects repeated -cc seconds:controller:value or seconds:pc:program flags.
type ccEvents []ccEvent

func (c *ccEvents) String() string {
	parts := make([]string, len(*c))
	for i, ev := range *c {
		parts[i] = fmt.Sprintf("%g:%s", ev.seconds, ev.msg)
	}
	return strings.Join(parts, ",")
}

func (c *ccEvents) Set(s string) error {
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return fmt.Errorf("want seconds:controller:value or seconds:pc:program, got %q", s)
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || seconds < 0 {
		return fmt.Errorf("bad time %q", fields[0])
	}
	value, err := strconv.ParseUint(fields[2], 10, 7)
	if err != nil {
		return fmt.Errorf("bad value %q: want 0-127", fields[2])
	}

	if strings.EqualFold(fields[1], "pc") {
		*c = append(*c, ccEvent{seconds, gomidi.ProgramChange(0, uint8(value))})
		return nil
	}
	cc, err := strconv.ParseUint(fields[1], 10, 7)
	if err != nil {
		return fmt.Errorf("bad controller %q: want 0-127 or pc", fields[1])
	}
	*c = append(*c, ccEvent{seconds, gomidi.ControlChange(0, uint8(cc), uint8(value))})
	return nil
}

// queue converts the flags into sample-stamped events.
func (c ccEvents) queue(sampleRate int) (*midi.EventQueue, error) {
	q := midi.NewEventQueue()
	for _, ev := range c {
		offset := int64(math.Round(ev.seconds * float64(sampleRate)))
		parsed, err := midi.Parse(ev.msg.Bytes(), offset)
		if err != nil {
			return nil, err
		}
		q.Add(parsed)
	}
	return q, nil
}

func runRender(args []string) error {
	fs := newFlagSet("render")
	var s settings
	s.register(fs)
	blockSize := fs.Int("block", host.DefaultBlockSize, "processing block size in samples")
	bitDepth := fs.Int("bits", 0, "output bit depth: 16|24|32 (0 keeps the input depth)")
	script := fs.String("script", "", "Lua automation script defining automate(t)")
	var events ccEvents
	fs.Var(&events, "cc", "MIDI change at a time, seconds:controller:value or seconds:pc:program (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("need an input and an output file")
	}

	logger, err := s.logger()
	if err != nil {
		return err
	}

	in, err := host.ReadWAVFile(fs.Arg(0))
	if err != nil {
		return err
	}

	meter := analysis.NewLevelMeter(float64(in.SampleRate), in.NumChannels())
	proc, err := s.newProcessor(logger, effect.WithObserver(meter))
	if err != nil {
		return err
	}

	r := &host.Renderer{
		BlockSize: *blockSize,
		CCMap:     effect.DefaultCCMap(),
		Logger:    logger,
		Profiler:  debug.NewBlockProfiler(float64(in.SampleRate)),
	}
	if r.Events, err = events.queue(in.SampleRate); err != nil {
		return err
	}
	if *script != "" {
		a, err := host.LoadAutomation(*script)
		if err != nil {
			return err
		}
		defer a.Close()
		r.Automation = a
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("rendering %s (%.2fs, %d ch, %d Hz) with %s", fs.Arg(0), in.Duration(), in.NumChannels(), in.SampleRate, proc.Algorithm())
	out, err := r.Render(ctx, proc, in)
	if err != nil {
		return err
	}
	if err := host.WriteWAVFile(fs.Arg(1), out, *bitDepth); err != nil {
		return err
	}

	analyzer := debug.NewAudioAnalyzer()
	for ch, data := range out.Channels {
		debug.LogBufferStats(logger, fmt.Sprintf("ch%d", ch), analyzer.Analyze(data))
		logger.Info("ch%d: hold %.1f dBFS, rms %.1f dBFS", ch, gain.LinearToDb(meter.Hold(ch)), meter.RMSDB(ch))
	}
	logger.Debug("%s", r.Profiler.AudioReport())
	logger.Info("wrote %s", fs.Arg(1))
	return nil
}

