package ocr

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestExecRunnerMissingBinary(t *testing.T) {
	_, _, err := ExecRunner{}.Run(context.Background(), "medocs-no-such-binary", quietLogger(), "--version")
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("err = %v (%T), want *ExecError", err, err)
	}
	if execErr.ExitCode != -1 || execErr.Cmd != "medocs-no-such-binary" {
		t.Errorf("ExecError = %+v", execErr)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("err = %v, want exec.ErrNotFound in chain", err)
	}
}

func TestExecRunnerExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	stdout, stderr, err := ExecRunner{}.Run(context.Background(), "sh", quietLogger(), "-c", "echo partial; echo bad image >&2; exit 3")
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("err = %v, want *ExecError", err)
	}
	if execErr.ExitCode != 3 || execErr.Error() != "sh: exit status 3" {
		t.Errorf("ExecError = %+v (%q)", execErr, execErr.Error())
	}
	if strings.TrimSpace(execErr.Stderr) != "bad image" || strings.TrimSpace(string(stderr)) != "bad image" {
		t.Errorf("stderr = %q / %q", execErr.Stderr, stderr)
	}
	if strings.TrimSpace(string(stdout)) != "partial" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestTesseractSurfacesExecError(t *testing.T) {
	r := &fakeRunner{err: &ExecError{Cmd: "tesseract", ExitCode: 1, Err: errors.New("exit status 1")}}
	eng := NewTesseract(TesseractConfig{}, r, quietLogger())
	_, err := eng.Recognize(context.Background(), "image/png", pngBytes)

	var execErr *ExecError
	if !errors.As(err, &execErr) || execErr.ExitCode != 1 {
		t.Fatalf("err = %v, want wrapped *ExecError", err)
	}
	if !strings.Contains(err.Error(), "cannot read image") {
		t.Errorf("err %q should carry the command's stderr", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abc", 5); got != "abc" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc...(truncated)" {
		t.Errorf("truncate long = %q", got)
	}
}
