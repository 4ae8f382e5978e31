// Package delegate runs the cached ec binary on behalf of the launcher.
//
// The child's stdout is buffered and written once, after the child has
// exited, so the launcher can refuse output that is not valid UTF-8 instead
// of passing half of it through. stdin and stderr are connected directly.
package delegate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"unicode/utf8"

	"github.com/editorconfig-checker/ec-launcher/internal/logging"
)

// FallbackExitCode is reported when the child ended without an exit code,
// for example because it was killed by a signal.
const FallbackExitCode = 1

var (
	// ErrExecutionFailed is returned when the delegate cannot be started
	// or waited for. A non-zero exit is reported in the Outcome instead.
	ErrExecutionFailed = errors.New("failed to execute delegate")

	// ErrOutputDecodingFailed is returned when captured delegate output is
	// not valid UTF-8.
	ErrOutputDecodingFailed = errors.New("delegate output is not valid UTF-8")
)

// Outcome describes how the child terminated.
type Outcome struct {
	// ExitCode is the child's exit status, or FallbackExitCode when it
	// did not report one.
	ExitCode int

	// Signaled is true when the child was terminated by a signal.
	Signaled bool
}

// Executor spawns the delegate binary. A nil stream is connected to the null
// device, as with exec.Cmd.
type Executor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is the child's environment. nil inherits the launcher's.
	Env []string

	Logger logging.Logger
}

// Run executes binaryPath with args, unmodified and in order, and waits for
// it to exit. A non-zero exit status is not an error: it is reported in the
// Outcome.
func (e *Executor) Run(ctx context.Context, binaryPath string, args []string) (*Outcome, error) {
	logger := e.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, binaryPath, args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = e.Stderr
	cmd.Env = e.Env

	logger.Debug("executing delegate", "path", binaryPath, "args", len(args))

	err := cmd.Run()
	outcome, err := outcomeOf(cmd, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrExecutionFailed, binaryPath, err)
	}

	if !utf8.Valid(stdout.Bytes()) {
		return nil, fmt.Errorf("%w: %d bytes discarded", ErrOutputDecodingFailed, stdout.Len())
	}

	if e.Stdout != nil && stdout.Len() > 0 {
		if _, err := e.Stdout.Write(stdout.Bytes()); err != nil {
			return nil, fmt.Errorf("write delegate output: %w", err)
		}
	}

	logger.Debug("delegate exited", "code", outcome.ExitCode, "signaled", outcome.Signaled)
	return outcome, nil
}

// outcomeOf turns the result of cmd.Run into an Outcome. Only failures to
// start or wait for the child are returned as errors.
func outcomeOf(cmd *exec.Cmd, runErr error) (*Outcome, error) {
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, runErr
		}
	}

	state := cmd.ProcessState
	if state == nil {
		if runErr == nil {
			runErr = errors.New("no process state")
		}
		return nil, runErr
	}

	code := state.ExitCode()
	if code < 0 {
		return &Outcome{ExitCode: FallbackExitCode, Signaled: true}, nil
	}
	return &Outcome{ExitCode: code}, nil
}
