// Package runner executes target commands as bounded, blocking subprocess
// calls. Every failure mode (timeout, non-zero exit, launch failure)
// degrades into the returned Outcome; Execute never propagates an error.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single target-program run.
const DefaultTimeout = 10 * time.Second

// Outcome is the structured result of one subprocess invocation.
// A nil Stdout marks the run as unusable: the process timed out, exited
// non-zero, or could not be started. Partial output from such a run is never
// trusted, so Stdout stays nil even when the process wrote something before
// failing.
type Outcome struct {
	Stdout   *string
	Stderr   string
	ExitCode *int
	TimedOut bool
	Duration time.Duration
}

// Usable reports whether the run produced stdout the parser may consume.
func (o Outcome) Usable() bool {
	return o.Stdout != nil
}

// Executor runs an argument vector to completion and reports the outcome.
type Executor interface {
	Execute(ctx context.Context, argv []string) Outcome
}

// ProcessRunner is the os/exec-backed Executor. The subprocess is treated as
// an opaque blocking operation: started, waited on with a deadline, and its
// buffered output collected afterwards. No streaming, no signaling.
type ProcessRunner struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewProcessRunner creates a runner with the given per-run timeout.
// A non-positive timeout falls back to DefaultTimeout. A nil logger
// discards diagnostics.
func NewProcessRunner(timeout time.Duration, logger *slog.Logger) *ProcessRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ProcessRunner{timeout: timeout, logger: logger}
}

// Execute runs argv and blocks until the process exits or the timeout
// expires. It never returns an error: timeouts, non-zero exits, and launch
// failures all surface as an Outcome with absent stdout.
func (r *ProcessRunner) Execute(ctx context.Context, argv []string) Outcome {
	if len(argv) == 0 {
		return Outcome{}
	}

	execCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	out := Outcome{
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if execCtx.Err() == context.DeadlineExceeded {
		out.TimedOut = true
		r.logger.Warn("run timed out", "binary", argv[0], "timeout", r.timeout)
		return out
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			out.ExitCode = &code
			r.logger.Warn("run exited non-zero",
				"binary", argv[0], "exit_code", code, "stderr", stderr.String())
		} else {
			// Launch failure (binary not found, permission denied, ...).
			// Treated identically to a non-zero exit: absence, not a fault.
			r.logger.Warn("run could not be started", "binary", argv[0], "err", err)
		}
		return out
	}

	code := 0
	out.ExitCode = &code
	text := stdout.String()
	out.Stdout = &text
	return out
}
