package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/justyntemme/godistortion/pkg/effect"
	"github.com/justyntemme/godistortion/pkg/host"
)

func runBatch(args []string) error {
	fs := newFlagSet("batch")
	var s settings
	s.register(fs)
	outDir := fs.String("out", "", "output directory (required)")
	workers := fs.Int("workers", 0, "concurrent renders (0 uses every CPU)")
	blockSize := fs.Int("block", host.DefaultBlockSize, "processing block size in samples")
	bitDepth := fs.Int("bits", 0, "output bit depth: 16|24|32 (0 keeps the input depth)")
	script := fs.String("script", "", "Lua automation script applied to every file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outDir == "" || fs.NArg() == 0 {
		fs.Usage()
		return errors.New("need -out and at least one input file")
	}

	logger, err := s.logger()
	if err != nil {
		return err
	}
	preset, err := s.presetPath()
	if err != nil {
		return err
	}
	params, err := s.plainValues(effect.New().Parameters())
	if err != nil {
		return err
	}

	jobs := make([]host.Job, fs.NArg())
	for i, in := range fs.Args() {
		jobs[i] = host.Job{
			Input:  in,
			Output: filepath.Join(*outDir, filepath.Base(in)),
			Preset: preset,
			Params: params,
			Script: *script,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b := &host.Batch{
		Workers:   *workers,
		BlockSize: *blockSize,
		BitDepth:  *bitDepth,
		Logger:    logger,
	}
	results, err := b.Run(ctx, jobs)
	if err != nil {
		return err
	}

	for _, res := range results {
		for ch, a := range res.Channels {
			if a.Clipping() {
				logger.Warn("%s ch%d: %d samples at or above full scale", res.Job.Output, ch, a.ClippedSamples)
			}
		}
	}
	logger.Info("rendered %d files into %s", len(results), *outDir)
	return nil
}
