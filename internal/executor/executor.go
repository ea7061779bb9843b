// Package executor composes session allocation, script materialization,
// bounded process execution and directory diffing into one execution flow.
package executor

import (
	"context"
	"time"

	"scriptbox/internal/executor/result"
	"scriptbox/internal/executor/runner"
	"scriptbox/internal/executor/snapshot"
	"scriptbox/internal/executor/spec"
	"scriptbox/internal/executor/workspace"
	"scriptbox/pkg/utils/contextkey"
	"scriptbox/pkg/utils/logger"

	"go.uber.org/zap"
)

// Executor runs validated scripts in isolated session directories.
// Concurrent executions are fully disjoint: each owns its own session
// directory and child process, so no locking is needed here.
type Executor struct {
	alloc  *workspace.Allocator
	runner runner.Runner
}

// New wires an executor over the given work root. The work root is fixed
// for the process lifetime and passed explicitly, never read from a
// package global.
func New(workRoot string, runCfg runner.Config) *Executor {
	return &Executor{
		alloc:  workspace.NewAllocator(workRoot),
		runner: runner.New(runCfg),
	}
}

// NewWithRunner is used by tests to substitute the process runner.
func NewWithRunner(workRoot string, r runner.Runner) *Executor {
	return &Executor{
		alloc:  workspace.NewAllocator(workRoot),
		runner: r,
	}
}

// Execute performs one full execution flow for an already validated spec:
// allocate session, write script, snapshot, run bounded, diff, report.
// A returned error means the execution could not be carried out at all;
// script failures and timeouts are reported inside the result.
func (e *Executor) Execute(ctx context.Context, sc spec.ScriptSpec) (result.ExecutionResult, error) {
	session, err := e.alloc.Allocate()
	if err != nil {
		return result.ExecutionResult{}, err
	}
	ctx = context.WithValue(ctx, contextkey.SessionID, session.ID)

	scriptRel, scriptAbs, err := session.Materialize(sc)
	if err != nil {
		return result.ExecutionResult{}, err
	}

	before := snapshot.Take(session.Dir)

	start := time.Now()
	run := e.runner.Run(ctx, runner.Request{
		ScriptPath: scriptAbs,
		Kind:       sc.Kind,
		WorkDir:    session.Dir,
		Timeout:    time.Duration(sc.TimeoutSeconds) * time.Second,
	})

	after := snapshot.Take(session.Dir)
	createdFiles, createdDirs := snapshot.Diff(before, after)

	logger.Info(ctx, "script execution finished",
		zap.String("kind", string(sc.Kind)),
		zap.Int("exit_code", run.ExitCode),
		zap.Bool("timed_out", run.TimedOut),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("created_files", len(createdFiles)),
		zap.Int("created_dirs", len(createdDirs)),
	)

	return result.ExecutionResult{
		SessionDir:   session.Rel,
		ScriptPath:   scriptRel,
		ExitCode:     run.ExitCode,
		Stdout:       run.Stdout,
		Stderr:       run.Stderr,
		TimedOut:     run.TimedOut,
		Message:      result.StatusMessage(run, sc.TimeoutSeconds),
		CreatedFiles: createdFiles,
		CreatedDirs:  createdDirs,
	}, nil
}
