package lint

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/fix"
	"github.com/yaklabco/gocbs/pkg/format"
	"github.com/yaklabco/gocbs/pkg/fsutil"
)

// Pipeline error types for categorization.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrParseFailed      = errors.New("parse failed")
	ErrWriteFailure     = errors.New("write failure")
)

// Mode selects what the pipeline does with each file.
type Mode int

const (
	// ModeCheck reports diagnostics only.
	ModeCheck Mode = iota
	// ModeFormat also formats files without parse errors.
	ModeFormat
)

// PipelineOptions controls pipeline behavior.
type PipelineOptions struct {
	Mode Mode

	// Write replaces files in place with their formatted content.
	Write bool

	// Diff computes a unified diff of formatting changes.
	Diff bool

	Format format.Options
}

// PipelineOptionsFromConfig builds options from configuration.
func PipelineOptionsFromConfig(cfg *config.Config, mode Mode) PipelineOptions {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return PipelineOptions{
		Mode:   mode,
		Write:  cfg.Write,
		Diff:   cfg.Diff,
		Format: FormatOptions(cfg),
	}
}

// FormatOptions converts the format section of cfg.
func FormatOptions(cfg *config.Config) format.Options {
	opts := format.DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.Format.IndentSize > 0 {
		opts.IndentSize = cfg.Format.IndentSize
	}
	if cfg.Format.IndentStyle == config.IndentTab {
		opts.IndentStyle = format.IndentTab
	}
	opts.PreserveMarkdown = config.Bool(cfg.Format.PreserveMarkdown, opts.PreserveMarkdown)
	opts.AlignArguments = config.Bool(cfg.Format.AlignArguments, opts.AlignArguments)
	opts.TrimTrailingWhitespace = config.Bool(cfg.Format.TrimTrailingWhitespace, opts.TrimTrailingWhitespace)
	return opts
}

// PipelineResult is the outcome for a single file.
type PipelineResult struct {
	*FileResult

	Path string

	// Content is the original file content.
	Content []byte

	// Formatted is the formatted content; nil when unchanged or not formatted.
	Formatted []byte

	// Changed is true if formatting would change the file.
	Changed bool

	Diff *fix.Diff

	Written bool

	Skipped    bool
	SkipReason string
}

// Summary returns a short human-readable status.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written:
		return "formatted"
	case pr.Changed:
		return "would reformat"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	default:
		return "ok"
	}
}

// Pipeline processes one file at a time.
type Pipeline struct {
	Engine *Engine
}

// NewPipeline creates a pipeline using engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile reads path, checks it and in ModeFormat formats it. Writing
// is refused when the file changed on disk after it was read.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content, cfg, opts)
	if err != nil {
		return nil, err
	}
	if !opts.Write || !result.Changed {
		return result, nil
	}

	written, err := fsutil.Replace(ctx, snap, content, result.Formatted)
	switch {
	case errors.Is(err, fsutil.ErrFileModified):
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = written

	return result, nil
}

// ProcessContent runs the pipeline over in-memory content without writing.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	fileResult, err := p.Engine.CheckFile(ctx, path, content, cfg)
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{FileResult: fileResult, Path: path, Content: content}
	if opts.Mode != ModeFormat {
		return result, nil
	}

	if fileResult.Parse.HasErrors() {
		result.Skipped = true
		result.SkipReason = fmt.Sprintf("%d parse error(s)", len(fileResult.Parse.Errors))
		return result, nil
	}

	formatted, err := format.Format(string(content), opts.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	if formatted == string(content) {
		return result, nil
	}

	result.Changed = true
	result.Formatted = []byte(formatted)
	if opts.Diff {
		result.Diff = fix.Compute(path, string(content), formatted)
	}

	return result, nil
}

// categorizeError wraps an error with the matching pipeline error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailed) ||
		errors.Is(err, ErrWriteFailure)
}
