package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

var commandContext = exec.CommandContext

// Output carries everything a finished process reported. A non-zero
// ExitCode is not an error at this layer; callers decide what it means.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// SpawnError indicates the executable could not be started at all
// (missing binary, permission denied).
type SpawnError struct {
	Binary string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Binary, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Runner runs an external executable to completion.
type Runner interface {
	Run(ctx context.Context, name string, args []string, opts ...RunOption) (Output, error)
}

type runConfig struct {
	stderrTail int // 0 means unbounded capture
}

// RunOption customizes a single run.
type RunOption func(*runConfig)

// WithStderrTail bounds stderr capture to the trailing n bytes.
// Long-running invocations use this to keep memory flat.
func WithStderrTail(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.stderrTail = n
		}
	}
}

// CLIRunner executes commands via os/exec.
type CLIRunner struct{}

// NewCLIRunner constructs the default process runner.
func NewCLIRunner() *CLIRunner {
	return &CLIRunner{}
}

// Run starts the process, waits for it, and returns accumulated output.
// The argument list is passed through untouched; the runner never
// inspects argument semantics.
func (r *CLIRunner) Run(ctx context.Context, name string, args []string, opts ...RunOption) (Output, error) {
	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	cmd := commandContext(ctx, name, args...) //nolint:gosec
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderr := newTailBuffer(cfg.stderrTail)
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return Output{}, &SpawnError{Binary: name, Err: err}
	}

	exitCode := 0
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Output{}, fmt.Errorf("wait for %s: %w", name, err)
		}
		exitCode = exitErr.ExitCode()
	}

	return Output{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}, nil
}

var _ Runner = (*CLIRunner)(nil)

// tailBuffer keeps at most limit trailing bytes of what was written.
// A zero limit keeps everything.
type tailBuffer struct {
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if t.limit > 0 && len(t.buf) > t.limit {
		t.buf = t.buf[len(t.buf)-t.limit:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
