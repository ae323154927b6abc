package picker

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/pkg/errors"
)

// Result is the outcome of a finished chooser process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner starts chooser processes.
type CommandRunner interface {
	LookPath(name string) (string, error)
	// Run returns an error only when the process could not be run to
	// completion. A non-zero exit status is reported in Result.
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		return res, errors.Wrapf(err, "failed to run %s", name)
	}
	return res, nil
}
