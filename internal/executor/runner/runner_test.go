//go:build linux

package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scriptbox/internal/executor/result"
	"scriptbox/internal/executor/spec"
)

func newShellRunner() Runner {
	return New(Config{ShellBin: "/bin/sh"})
}

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "script.sh")
	if err := os.WriteFile(path, []byte(body), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunCapturesStreamsAndExitCode(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "echo out\necho err 1>&2\nexit 3\n")

	res := newShellRunner().Run(context.Background(), Request{
		ScriptPath: path,
		Kind:       spec.KindShell,
		WorkDir:    dir,
		Timeout:    10 * time.Second,
	})

	if res.ExitCode != 3 {
		t.Fatalf("unexpected exit code: %d", res.ExitCode)
	}
	if res.Stdout != "out\n" {
		t.Fatalf("unexpected stdout: %q", res.Stdout)
	}
	if res.Stderr != "err\n" {
		t.Fatalf("unexpected stderr: %q", res.Stderr)
	}
	if res.TimedOut {
		t.Fatalf("unexpected timeout flag")
	}
}

func TestRunUsesSessionDirAsCwd(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "pwd\n")

	res := newShellRunner().Run(context.Background(), Request{
		ScriptPath: path,
		Kind:       spec.KindShell,
		WorkDir:    dir,
		Timeout:    10 * time.Second,
	})

	if got := strings.TrimSpace(res.Stdout); got != dir {
		t.Fatalf("cwd = %q, want %q", got, dir)
	}
}

func TestRunTimeoutKillsProcess(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "sleep 5\ntouch late.txt\n")

	start := time.Now()
	res := newShellRunner().Run(context.Background(), Request{
		ScriptPath: path,
		Kind:       spec.KindShell,
		WorkDir:    dir,
		Timeout:    300 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if !res.TimedOut {
		t.Fatalf("expected timeout")
	}
	if res.ExitCode != result.TimeoutExitCode {
		t.Fatalf("unexpected exit code: %d", res.ExitCode)
	}
	if res.Stdout != "" {
		t.Fatalf("expected empty stdout, got %q", res.Stdout)
	}
	if res.Stderr != "Script execution timed out" {
		t.Fatalf("unexpected stderr: %q", res.Stderr)
	}
	if elapsed > 3*time.Second {
		t.Fatalf("run did not return promptly after deadline: %s", elapsed)
	}

	// The child was killed before the sleep finished, so the marker
	// file must never appear.
	time.Sleep(time.Second)
	if _, err := os.Stat(filepath.Join(dir, "late.txt")); !os.IsNotExist(err) {
		t.Fatalf("killed script still produced late.txt")
	}
}

func TestRunTimeoutKillsWholeProcessGroup(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "( sleep 1; touch orphan.txt ) &\nsleep 5\n")

	res := newShellRunner().Run(context.Background(), Request{
		ScriptPath: path,
		Kind:       spec.KindShell,
		WorkDir:    dir,
		Timeout:    300 * time.Millisecond,
	})
	if !res.TimedOut {
		t.Fatalf("expected timeout")
	}

	time.Sleep(1500 * time.Millisecond)
	if _, err := os.Stat(filepath.Join(dir, "orphan.txt")); !os.IsNotExist(err) {
		t.Fatalf("background child survived the kill")
	}
}

func TestRunSpawnFailureFoldedIntoResult(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "echo hi\n")

	res := New(Config{PythonBin: "/nonexistent/python3"}).Run(context.Background(), Request{
		ScriptPath: path,
		Kind:       spec.KindPython,
		WorkDir:    dir,
		Timeout:    5 * time.Second,
	})

	if res.ExitCode != result.TimeoutExitCode {
		t.Fatalf("unexpected exit code: %d", res.ExitCode)
	}
	if !strings.HasPrefix(res.Stderr, "Error executing script: ") {
		t.Fatalf("unexpected stderr: %q", res.Stderr)
	}
	if res.TimedOut {
		t.Fatalf("spawn failure must not be reported as timeout")
	}
}

func TestRunReplacesInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "printf '\\377\\376ok'\n")

	res := newShellRunner().Run(context.Background(), Request{
		ScriptPath: path,
		Kind:       spec.KindShell,
		WorkDir:    dir,
		Timeout:    10 * time.Second,
	})

	if !strings.Contains(res.Stdout, "�") {
		t.Fatalf("invalid bytes not replaced: %q", res.Stdout)
	}
	if !strings.Contains(res.Stdout, "ok") {
		t.Fatalf("valid bytes lost: %q", res.Stdout)
	}
}
