package host

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/godistortion/pkg/effect"
	"github.com/justyntemme/godistortion/pkg/framework/debug"
)

// Job describes one file to render.
type Job struct {
	Input  string
	Output string

	// Preset is a state file loaded before Params are applied.
	Preset string
	// Params maps identifiers to plain values.
	Params map[string]float64
	// Script is an automation script path.
	Script string
}

// JobResult reports a finished job.
type JobResult struct {
	Job      Job
	Frames   int
	Channels []debug.AnalysisResult
	Load     float64
}

// Batch renders jobs concurrently, each with its own processor.
type Batch struct {
	Workers   int
	BlockSize int
	BitDepth  int
	Logger    *debug.Logger
}

// RenderBatch renders jobs with at most workers running at once.
func RenderBatch(ctx context.Context, jobs []Job, workers int) ([]JobResult, error) {
	b := &Batch{Workers: workers}
	return b.Run(ctx, jobs)
}

// Run renders every job. The first failure cancels the jobs still running.
// Results are in job order.
func (b *Batch) Run(ctx context.Context, jobs []Job) ([]JobResult, error) {
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := b.Logger
	if logger == nil {
		logger = debug.Default()
	}

	results := make([]JobResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			res, err := b.render(gctx, job, logger)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.Input, err)
			}
			results[i] = res
			logger.Info("rendered %s -> %s (%d frames, load %.1f%%)", job.Input, job.Output, res.Frames, res.Load*100)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (b *Batch) render(ctx context.Context, job Job, logger *debug.Logger) (JobResult, error) {
	proc := effect.New()

	if job.Preset != "" {
		if err := proc.State().LoadFile(job.Preset); err != nil {
			return JobResult{}, err
		}
	}

	ids := make([]string, 0, len(job.Params))
	for id := range job.Params {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := proc.SetParamByName(id, job.Params[id]); err != nil {
			return JobResult{}, err
		}
	}

	r := &Renderer{
		BlockSize: b.BlockSize,
		Logger:    logger.Named(job.Input),
	}
	if job.Script != "" {
		a, err := LoadAutomation(job.Script)
		if err != nil {
			return JobResult{}, err
		}
		defer a.Close()
		r.Automation = a
	}

	in, err := ReadWAVFile(job.Input)
	if err != nil {
		return JobResult{}, err
	}
	r.Profiler = debug.NewBlockProfiler(float64(in.SampleRate))

	out, err := r.Render(ctx, proc, in)
	if err != nil {
		return JobResult{}, err
	}
	if err := WriteWAVFile(job.Output, out, b.BitDepth); err != nil {
		return JobResult{}, err
	}

	analyzer := debug.NewAudioAnalyzer()
	res := JobResult{
		Job:      job,
		Frames:   out.Frames(),
		Channels: make([]debug.AnalysisResult, out.NumChannels()),
		Load:     r.Profiler.Load(),
	}
	for ch, data := range out.Channels {
		res.Channels[ch] = analyzer.Analyze(data)
	}
	return res, nil
}
