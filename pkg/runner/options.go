// Package runner discovers CBS template files and processes them
// concurrently through a lint.Pipeline.
package runner

import (
	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/lint"
)

// Options controls multi-file behavior.
type Options struct {
	// Paths are the user-specified files or directories. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths. Defaults to the process directory.
	WorkingDir string

	// Extensions are discovered when walking directories. Defaults to
	// DefaultExtensions().
	Extensions []string

	// ExplicitExtensions are additionally accepted for files named
	// directly on the command line. Defaults to ExplicitOnlyExtensions().
	ExplicitExtensions []string

	// ExcludeGlobs skip files or directories, relative to WorkingDir.
	ExcludeGlobs []string

	// Hidden includes dot-files and dot-directories.
	Hidden bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the maximum number of concurrent workers; 0 means NumCPU.
	Jobs int

	Mode lint.Mode

	Config *config.Config
}

// DefaultExtensions returns the extensions discovered in directories.
func DefaultExtensions() []string {
	return []string{config.ExtCBS, config.ExtRisum}
}

// ExplicitOnlyExtensions returns extensions accepted only when a file is
// named explicitly.
func ExplicitOnlyExtensions() []string {
	return []string{".txt"}
}

// OptionsFromConfig fills discovery settings from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string, mode lint.Mode) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Options{
		Paths:        paths,
		Extensions:   cfg.Files.Extensions,
		ExcludeGlobs: cfg.Files.Ignore,
		Hidden:       config.Bool(cfg.Files.Hidden, false),
		Jobs:         cfg.Jobs,
		Mode:         mode,
		Config:       cfg,
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectiveExplicitExtensions() []string {
	if o.ExplicitExtensions == nil {
		return ExplicitOnlyExtensions()
	}
	return o.ExplicitExtensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
