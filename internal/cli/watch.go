package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/gocbs/internal/logging"
	"github.com/yaklabco/gocbs/pkg/runner"
)

// watchDebounce coalesces bursts of events, such as editors writing a
// temporary file and renaming it.
const watchDebounce = 200 * time.Millisecond

// watchAndCheck runs a check, then re-runs it whenever a watched file
// changes, until ctx is cancelled.
func watchAndCheck(ctx context.Context, session *checkSession) error {
	logger := logging.FromContext(ctx)

	if _, err := session.run(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchDirs(ctx, session.options())
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	logger.Info("watching for changes", logging.FieldPaths, dirs)

	exts := session.options().Extensions
	relevant := func(name string) bool {
		return hasExtension(name, exts)
	}

	err = watchLoop(ctx, watcher.Events, watcher.Errors, relevant, watchDebounce, func(ctx context.Context) {
		if _, err := session.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("check failed", logging.FieldError, err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchLoop calls onChange once per burst of relevant events. It returns
// when ctx is done or the event channel closes.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	relevant func(name string) bool,
	debounce time.Duration,
	onChange func(ctx context.Context),
) error {
	logger := logging.FromContext(ctx)

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				timer.Stop()
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !relevant(event.Name) {
				continue
			}
			logger.Debug("file changed",
				logging.FieldPath, event.Name,
				logging.FieldEvent, event.Op.String())
			timer.Reset(debounce)

		case <-timer.C:
			onChange(ctx)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("file watcher error", logging.FieldError, err)
		}
	}
}

// watchDirs returns the directories to watch: every directory holding a
// discovered file, plus the directories named in the paths. fsnotify
// watches are not recursive.
func watchDirs(ctx context.Context, opts runner.Options) ([]string, error) {
	files, err := runner.Discover(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(opts.WorkingDir, p)
		}
		if info, statErr := os.Stat(p); statErr == nil && info.IsDir() {
			add(filepath.Clean(p))
		}
	}
	for _, f := range files {
		add(filepath.Dir(f))
	}

	slices.Sort(dirs)
	return dirs, nil
}

func hasExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		exts = runner.DefaultExtensions()
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
