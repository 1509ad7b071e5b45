package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait keeps reading pipes after the process is killed.
const waitDelay = 5 * time.Second

// CommandRunner is the interface for running commands.
type CommandRunner interface {
	// Run starts name and blocks until it exits. Stderr is copied to stderr as it arrives.
	Run(ctx context.Context, name string, args []string, env []string, stderr io.Writer) error
}

// ExecCommandRunner uses os/exec.
type ExecCommandRunner struct{}

// Run runs a command.
func (ExecCommandRunner) Run(ctx context.Context, name string, args []string, env []string, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	return cmd.Run()
}

// Executor runs commands.
type Executor struct {
	runner     CommandRunner
	binaryPath string
	timeout    time.Duration
}

// NewExecutor creates an executor. binary is resolved through PATH.
func NewExecutor(binary string, timeout time.Duration) (*Executor, error) {
	binaryPath, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBinaryNotFound, binary, err)
	}

	return &Executor{
		binaryPath: binaryPath,
		timeout:    timeout,
		runner:     ExecCommandRunner{},
	}, nil
}

// NewExecutorWithRunner creates an executor with a custom runner.
func NewExecutorWithRunner(binaryPath string, timeout time.Duration, runner CommandRunner) *Executor {
	return &Executor{
		binaryPath: binaryPath,
		timeout:    timeout,
		runner:     runner,
	}
}

// BinaryPath returns the resolved command path.
func (e *Executor) BinaryPath() string {
	return e.binaryPath
}

// Timeout returns the per-run timeout. Zero means no timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Execute runs the command to completion and reports how it ended.
// The process is killed when ctx is done or the timeout elapses.
func (e *Executor) Execute(ctx context.Context, args []string, env []string) *Outcome {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	stderr := &stderrBuffer{}
	start := time.Now()

	err := e.runner.Run(ctx, e.binaryPath, args, env, stderr)

	outcome := &Outcome{
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		outcome.Status = StatusSucceeded
		return outcome
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		outcome.Status = StatusTimedOut
	case errors.Is(ctx.Err(), context.Canceled):
		outcome.Status = StatusCanceled
	default:
		outcome.Status = StatusFailed
	}

	outcome.ExitCode = exitCode(err)

	// A process that never started has no diagnostics of its own.
	if outcome.Stderr == "" && outcome.ExitCode < 0 && outcome.Status == StatusFailed {
		outcome.Stderr = err.Error()
	}

	return outcome
}

// exitCode extracts the process exit code from err, or -1 when there is none.
func exitCode(err error) int {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return -1
}

// stderrBuffer accumulates diagnostic output and logs each chunk as it arrives.
// Only the runner's copy goroutine writes; it is read after Run returns.
type stderrBuffer struct {
	buf bytes.Buffer
}

func (b *stderrBuffer) Write(p []byte) (int, error) {
	slog.Debug("Synthesis stderr", "chunk", string(bytes.TrimRight(p, "\n")))
	return b.buf.Write(p)
}

func (b *stderrBuffer) String() string {
	return b.buf.String()
}
