// Package watch converts model files dropped into an inbox directory.
//
// A Watcher holds an exclusive lock on the inbox so only one process drains
// it. Files are converted one at a time on the watcher goroutine, in the
// order their create events arrive.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"vrhouse/internal/config"
	"vrhouse/internal/history"
	"vrhouse/internal/logging"
	"vrhouse/internal/pipeline"
	"vrhouse/internal/scene"
	"vrhouse/internal/services"
	"vrhouse/internal/textutil"
)

// LockFileName is created inside the inbox while a watcher runs.
const LockFileName = ".vrhouse-watch.lock"

// ErrLocked reports that another watcher already owns the inbox.
var ErrLocked = errors.New("inbox is already being watched")

// Result describes one conversion attempted by the watcher.
type Result struct {
	SourceFile string
	RunID      string
	Conversion scene.ConversionResult
	Err        error
}

// Options configures a Watcher.
type Options struct {
	InboxDir   string
	OutputDir  string
	Conversion config.Conversion
	Runner     *pipeline.Runner
	History    *history.Store
	Logger     *slog.Logger
	// OnResult is called after every conversion attempt.
	OnResult func(Result)
}

// Watcher converts files created in an inbox directory.
type Watcher struct {
	opts    Options
	logger  *slog.Logger
	lock    *flock.Flock
	fs      *fsnotify.Watcher
	started bool
}

// New validates options. Call Open to acquire the inbox.
func New(opts Options) (*Watcher, error) {
	if strings.TrimSpace(opts.InboxDir) == "" {
		return nil, errors.New("inbox directory is required")
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return nil, errors.New("output directory is required")
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.New(pipeline.WithLogger(opts.Logger))
	}
	return &Watcher{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "watch"),
		lock:   flock.New(filepath.Join(opts.InboxDir, LockFileName)),
	}, nil
}

// Open creates the inbox if needed, takes the inbox lock, and starts
// receiving filesystem events.
func (w *Watcher) Open() error {
	if err := os.MkdirAll(w.opts.InboxDir, 0o755); err != nil {
		return fmt.Errorf("create inbox: %w", err)
	}
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire inbox lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		_ = w.lock.Unlock()
		return fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fsWatch.Add(w.opts.InboxDir); err != nil {
		_ = fsWatch.Close()
		_ = w.lock.Unlock()
		return fmt.Errorf("watch inbox: %w", err)
	}
	w.fs = fsWatch
	w.started = true
	w.logger.Info("watching inbox",
		logging.String("inbox_dir", w.opts.InboxDir),
		logging.String("output_dir", w.opts.OutputDir),
	)
	return nil
}

// Run processes events until ctx is cancelled. Open must have succeeded.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started {
		return errors.New("watcher not opened")
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			w.handle(ctx, event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("inbox watch error", logging.Error(err))
		}
	}
}

// Close stops event delivery and releases the inbox lock.
func (w *Watcher) Close() error {
	if !w.started {
		return nil
	}
	w.started = false
	var errs []error
	if err := w.fs.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close fs watcher: %w", err))
	}
	if err := w.lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("release inbox lock: %w", err))
	}
	return errors.Join(errs...)
}

func (w *Watcher) handle(ctx context.Context, path string) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	if err := w.opts.Runner.Registry().Validate(path); err != nil {
		w.logger.Info("skipping unsupported file",
			logging.String("source_file", path),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
		)
		return
	}

	spec := SpecificationFor(path, w.opts.Conversion)
	runID := uuid.NewString()
	runCtx := services.WithRunID(ctx, runID)
	logger := logging.WithContext(runCtx, w.logger)

	if w.opts.History != nil {
		if _, err := w.opts.History.Begin(runCtx, runID, spec, w.opts.OutputDir); err != nil {
			logger.Warn("history record failed", logging.Error(err))
		}
	}

	result, runErr := w.opts.Runner.Run(runCtx, spec, w.opts.OutputDir, nil)
	if runErr != nil {
		logging.ErrorWithContext(logger, "inbox conversion failed", "conversion_failure", services.Kind(runErr),
			logging.String("source_file", path),
			logging.Error(runErr),
		)
	} else {
		logger.Info("inbox conversion completed",
			logging.String("source_file", path),
			logging.String("package_path", result.PackagePath),
		)
	}

	if w.opts.History != nil {
		var err error
		if runErr != nil {
			err = w.opts.History.Fail(runCtx, runID, runErr)
		} else {
			err = w.opts.History.Complete(runCtx, runID, result)
		}
		if err != nil {
			logger.Warn("history update failed", logging.Error(err))
		}
	}

	if w.opts.OnResult != nil {
		w.opts.OnResult(Result{SourceFile: path, RunID: runID, Conversion: result, Err: runErr})
	}
}

// SpecificationFor builds a request for path using the configured defaults.
// The project name is the file stem.
func SpecificationFor(path string, conv config.Conversion) scene.Specification {
	opts := []scene.Option{
		scene.WithPhysics(conv.EnablePhysics),
		scene.WithAIRealism(conv.EnableAIRealism),
	}
	if len(conv.TargetPlatforms) > 0 {
		opts = append(opts, scene.WithPlatforms(conv.TargetPlatforms...))
	}
	return scene.NewSpecification(ProjectName(path), path, opts...)
}

// ProjectName derives a project name from a source path's stem.
func ProjectName(path string) string {
	return textutil.ProjectNameFromPath(path)
}
