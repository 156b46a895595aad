package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// stderr kept on an ExecError and in logs
const maxStderr = 8 << 10

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, logger *slog.Logger, args ...string) (stdout, stderr []byte, err error)
}

// ExecError describes a command that could not start or exited non-zero.
// ExitCode is -1 when the process never ran.
type ExecError struct {
	Cmd      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s: exit status %d", e.Cmd, e.ExitCode)
}

func (e *ExecError) Unwrap() error { return e.Err }

// ExecRunner runs real binaries through os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, logger *slog.Logger, args ...string) ([]byte, []byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("cmd", name)
	start := time.Now()

	var out, errb bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errb

	if err := cmd.Run(); err != nil {
		execErr := &ExecError{Cmd: name, ExitCode: -1, Stderr: truncate(errb.String(), maxStderr), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			execErr.Err = errors.Join(err, ctx.Err())
		}
		logger.Error("ocr.exec.failed",
			"exit_code", execErr.ExitCode,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"stderr", execErr.Stderr,
			"error", err,
		)
		return out.Bytes(), errb.Bytes(), execErr
	}

	logger.Debug("ocr.exec.ok",
		"args", len(args),
		"stdout_bytes", out.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out.Bytes(), errb.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
