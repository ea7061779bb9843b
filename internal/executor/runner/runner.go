// Package runner spawns the materialized script as a child process and
// enforces a hard wall-clock deadline on it.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"scriptbox/internal/executor/result"
	"scriptbox/internal/executor/spec"
	"scriptbox/pkg/utils/logger"

	"go.uber.org/zap"
)

// Config selects the binaries used to invoke scripts.
type Config struct {
	PythonBin string `yaml:"pythonBin"`
	ShellBin  string `yaml:"shellBin"`
}

// Request describes one bounded execution.
type Request struct {
	ScriptPath string
	Kind       spec.ScriptKind
	WorkDir    string
	Timeout    time.Duration
}

// Runner executes a script with a bounded wall-clock duration.
type Runner interface {
	Run(ctx context.Context, req Request) result.RunResult
}

type processRunner struct {
	cfg Config
}

// New creates a process-backed runner.
func New(cfg Config) Runner {
	if cfg.PythonBin == "" {
		cfg.PythonBin = "python3"
	}
	if cfg.ShellBin == "" {
		cfg.ShellBin = "/bin/bash"
	}
	return &processRunner{cfg: cfg}
}

// Run spawns the script with cwd set to the session directory and waits
// for it, bounded by req.Timeout. On deadline expiry the whole process
// group is SIGKILLed and the kill is awaited through cmd.Wait, so no
// child survives the call. Spawn failures are folded into the result
// rather than returned, matching the execution report contract.
func (r *processRunner) Run(ctx context.Context, req Request) result.RunResult {
	bin := r.cfg.PythonBin
	if req.Kind == spec.KindShell {
		bin = r.cfg.ShellBin
	}

	cmd := exec.Command(bin, req.ScriptPath)
	cmd.Dir = req.WorkDir
	cmd.SysProcAttr = sysProcAttr()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return result.RunResult{
			ExitCode: result.TimeoutExitCode,
			Stderr:   "Error executing script: " + err.Error(),
		}
	}

	var timedOut atomic.Bool
	done := make(chan struct{})
	go func() {
		timer := time.NewTimer(req.Timeout)
		defer timer.Stop()
		select {
		case <-timer.C:
			timedOut.Store(true)
			killProcessGroup(cmd.Process.Pid)
		case <-ctx.Done():
			killProcessGroup(cmd.Process.Pid)
		case <-done:
		}
	}()

	waitErr := cmd.Wait()
	close(done)

	if timedOut.Load() {
		logger.Warn(ctx, "script killed at deadline",
			zap.String("work_dir", req.WorkDir),
			zap.Duration("timeout", req.Timeout),
		)
		return result.RunResult{
			ExitCode: result.TimeoutExitCode,
			Stderr:   "Script execution timed out",
			TimedOut: true,
		}
	}

	return result.RunResult{
		ExitCode: exitCodeFromErr(waitErr, cmd.ProcessState),
		Stdout:   sanitizeUTF8(stdout.Bytes()),
		Stderr:   sanitizeUTF8(stderr.Bytes()),
	}
}

func exitCodeFromErr(err error, state *os.ProcessState) int {
	if state != nil {
		return state.ExitCode()
	}
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return result.TimeoutExitCode
}

// sanitizeUTF8 decodes captured bytes as UTF-8 with invalid sequences
// replaced, never rejected.
func sanitizeUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
