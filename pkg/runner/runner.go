package runner

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/yaklabco/gocbs/pkg/fsutil"
	"github.com/yaklabco/gocbs/pkg/lint"
)

// Runner processes many files through a lint.Pipeline.
type Runner struct {
	Pipeline *lint.Pipeline
}

// New creates a Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files for opts and processes them.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, files, opts)
}

// RunFiles processes files with a bounded worker pool. Outcomes are
// returned in the order of files regardless of completion order.
func (r *Runner) RunFiles(ctx context.Context, files []string, opts Options) (*Result, error) {
	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config, opts.Mode)
	outcomes := make([]*FileOutcome, len(files))
	work := make(chan int)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				outcome := FileOutcome{Path: files[idx]}
				pr, err := r.Pipeline.ProcessFile(ctx, files[idx], opts.Config, pipelineOpts)
				if err != nil {
					outcome.Error = err
				} else {
					outcome.Result = pr
				}
				outcomes[idx] = &outcome
			}
		}()
	}

feed:
	for idx := range files {
		select {
		case <-ctx.Done():
			break feed
		case work <- idx:
		}
	}
	close(work)
	wg.Wait()

	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// RunReader processes a single document read from in, reported under
// name. Nothing is written back; formatted output stays in the result.
func (r *Runner) RunReader(ctx context.Context, name string, in io.Reader, opts Options) (*Result, error) {
	result := &Result{Stats: newStats()}
	result.Stats.FilesDiscovered = 1

	content, _, err := fsutil.ReadInput(ctx, fsutil.StdinPath, in)
	if err != nil {
		result.accumulate(FileOutcome{Path: name, Error: err})
		return result, nil
	}

	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config, opts.Mode)
	pipelineOpts.Write = false

	outcome := FileOutcome{Path: name}
	pr, err := r.Pipeline.ProcessContent(ctx, name, content, opts.Config, pipelineOpts)
	if err != nil {
		outcome.Error = err
	} else {
		outcome.Result = pr
	}
	result.accumulate(outcome)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}
