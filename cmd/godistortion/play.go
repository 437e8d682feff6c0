package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"golang.org/x/term"

	"github.com/justyntemme/godistortion/pkg/dsp/analysis"
	"github.com/justyntemme/godistortion/pkg/effect"
	"github.com/justyntemme/godistortion/pkg/host"
)

// stopTimeout bounds how long a stop waits for the fade-out to play.
const stopTimeout = 500 * time.Millisecond

const keyHelp = "keys: 1-9,0 algorithm  a/z input  s/x output  d/c tone  q quit"

func runPlay(args []string) error {
	fs := newFlagSet("play")
	var s settings
	s.register(fs)
	loop := fs.Bool("loop", false, "repeat the file until stopped")
	blockSize := fs.Int("block", host.DefaultBlockSize, "processing block size in samples")
	keys := fs.Bool("keys", true, "control parameters from the keyboard when stdin is a terminal")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("need one input file")
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
	src, err := host.NewSource(proc, in, *blockSize, *loop)
	if err != nil {
		return err
	}
	player, err := host.NewPlayer(src)
	if err != nil {
		return err
	}
	defer player.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := player.Start(); err != nil {
		return err
	}
	logger.Info("playing %s at %d Hz", fs.Arg(0), in.SampleRate)

	if *keys && term.IsTerminal(int(os.Stdin.Fd())) {
		kc := host.NewKeyControl(effect.DefaultCCMap(), proc, proc.Parameters())
		kc.OnChange = func(uint32) {
			fmt.Fprintf(os.Stderr, "\r\x1b[K%s", kc.Status())
		}
		fmt.Fprintf(os.Stderr, "%s\r\n%s", keyHelp, kc.Status())

		kctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			waitForEnd(kctx, player)
			cancel()
		}()
		err := kc.Run(kctx, os.Stdin)
		fmt.Fprint(os.Stderr, "\r\n")
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	} else {
		waitForEnd(ctx, player)
	}

	if player.IsPlaying() {
		player.Stop()
		fctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		waitForEnd(fctx, player)
		cancel()
	}

	for ch := 0; ch < meter.Channels(); ch++ {
		logger.Info("ch%d: peak %.1f dBFS, clipped %v", ch, meter.PeakDB(ch), meter.Clipped(ch))
	}
	return player.Err()
}

// waitForEnd blocks until playback finishes or ctx is done.
func waitForEnd(ctx context.Context, player *host.Player) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !player.IsPlaying() {
				return
			}
		}
	}
}
