// Package picker shows the native modal folder chooser.
//
// Every platform chooser is wrapped by a modal guard that holds a
// cross-process lock for as long as a dialog is on screen, and that bounds
// the dialog by the configured timeout.
package picker

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"directory-bridge-server/internal/lock"
	"directory-bridge-server/internal/logger"
	"directory-bridge-server/internal/sandbox"
)

// LockName is the name of the lock serialising choosers across processes.
const LockName = "directory-bridge-picker"

var (
	// ErrBusy is returned when another chooser holds the modal lock for longer
	// than the lock timeout.
	ErrBusy = errors.New("another directory picker is already open")
	// ErrUnsupported is returned on platforms without a chooser.
	ErrUnsupported = errors.New("directory picker not supported")
	// ErrNoChooser is returned when no chooser program is installed.
	ErrNoChooser = errors.New("no directory chooser available")
)

// Picker shows a folder chooser and blocks until it is dismissed.
// selected is false when the user cancelled; that is not an error.
type Picker interface {
	SelectDirectory(ctx context.Context) (path string, selected bool, err error)
}

// Options configures New.
type Options struct {
	Title       string
	Command     string // custom chooser command line, tried before the built-in ones
	UsePortal   bool
	LockTimeout time.Duration
	Timeout     time.Duration // 0 waits forever
	LockDir     string        // "" means os.TempDir()
	Env         sandbox.Environment
	Runner      CommandRunner
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Select Directory"
	}
	if o.LockTimeout <= 0 {
		o.LockTimeout = 5 * time.Second
	}
	if o.Env == nil {
		o.Env = sandbox.OSEnvironment{}
	}
	if o.Runner == nil {
		o.Runner = ExecRunner{}
	}
	return o
}

// New returns the chooser for the current platform wrapped in the modal guard.
func New(opts Options) Picker {
	opts = opts.withDefaults()
	return newModalPicker(newNativePicker(opts), lock.NewLockManager(opts.LockDir), opts)
}

type modalPicker struct {
	native      Picker
	locks       lock.LockManagerInterface
	lockTimeout time.Duration
	timeout     time.Duration
}

func newModalPicker(native Picker, locks lock.LockManagerInterface, opts Options) *modalPicker {
	return &modalPicker{
		native:      native,
		locks:       locks,
		lockTimeout: opts.LockTimeout,
		timeout:     opts.Timeout,
	}
}

func (m *modalPicker) SelectDirectory(ctx context.Context) (string, bool, error) {
	held, err := m.locks.AcquireLock(ctx, LockName, m.lockTimeout)
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			return "", false, ErrBusy
		}
		return "", false, errors.Wrap(err, "failed to acquire picker lock")
	}
	defer func() {
		if relErr := m.locks.ReleaseLock(held); relErr != nil {
			logger.Warn("Failed to release picker lock: %v", relErr)
		}
	}()

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	path, selected, err := m.native.SelectDirectory(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, errors.Wrap(ctxErr, "directory picker did not complete")
		}
		return "", false, err
	}
	if !selected {
		logger.Debug("Directory picker cancelled")
		return "", false, nil
	}
	logger.Debug("Directory picker selected %s", path)
	return path, true, nil
}

// dialogCommand describes one external chooser invocation.
type dialogCommand struct {
	Name string
	Args []string
	// Cancelled reports whether a failed run means the user dismissed the dialog.
	Cancelled func(Result) bool
	// Clean post-processes the printed path.
	Clean func(string) string
}

func exitCodeOne(res Result) bool { return res.ExitCode == 1 }

// runDialog runs cmd and interprets its output. The chosen path is the first
// line printed on stdout; empty output is a cancellation.
func runDialog(ctx context.Context, runner CommandRunner, cmd dialogCommand) (string, bool, error) {
	res, err := runner.Run(ctx, cmd.Name, cmd.Args...)
	if err != nil {
		return "", false, err
	}
	if res.ExitCode != 0 {
		if cmd.Cancelled != nil && cmd.Cancelled(res) {
			return "", false, nil
		}
		return "", false, errors.Errorf("%s exited with status %d: %s", cmd.Name, res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	path := strings.TrimRight(res.Stdout, "\r\n")
	if i := strings.IndexAny(path, "\r\n"); i >= 0 {
		path = path[:i]
	}
	if cmd.Clean != nil {
		path = cmd.Clean(path)
	}
	if path == "" {
		return "", false, nil
	}
	return path, true, nil
}
