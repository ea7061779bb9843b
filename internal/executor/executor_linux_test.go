//go:build linux

package executor

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"scriptbox/internal/executor/runner"
	"scriptbox/internal/executor/spec"
)

func newShellExecutor(root string) *Executor {
	return New(root, runner.Config{ShellBin: "/bin/sh"})
}

func TestExecuteShellEndToEnd(t *testing.T) {
	root := t.TempDir()
	exec := newShellExecutor(root)

	sc, err := spec.New("echo hi\ntouch out.txt\nmkdir data\n", "shell", 10)
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	res, err := exec.Execute(context.Background(), sc)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if res.ExitCode != 0 || res.TimedOut {
		t.Fatalf("unexpected outcome: %+v", res)
	}
	if res.Stdout != "hi\n" {
		t.Fatalf("unexpected stdout: %q", res.Stdout)
	}
	if len(res.CreatedFiles) != 1 || res.CreatedFiles[0] != "out.txt" {
		t.Fatalf("unexpected created files: %v", res.CreatedFiles)
	}
	if len(res.CreatedDirs) != 1 || res.CreatedDirs[0] != "data" {
		t.Fatalf("unexpected created dirs: %v", res.CreatedDirs)
	}

	if _, err := os.Stat(filepath.Join(root, res.SessionDir, "out.txt")); err != nil {
		t.Fatalf("created file missing on disk: %v", err)
	}
}

func TestConcurrentExecutionsAreDisjoint(t *testing.T) {
	root := t.TempDir()
	exec := newShellExecutor(root)

	scripts := []string{
		"touch first.txt\n",
		"touch second.txt\n",
	}
	results := make([]struct {
		sessionDir string
		files      []string
	}, len(scripts))

	var wg sync.WaitGroup
	for i, body := range scripts {
		wg.Add(1)
		go func(i int, body string) {
			defer wg.Done()
			sc, err := spec.New(body, "shell", 10)
			if err != nil {
				t.Errorf("spec: %v", err)
				return
			}
			res, err := exec.Execute(context.Background(), sc)
			if err != nil {
				t.Errorf("execute: %v", err)
				return
			}
			results[i].sessionDir = res.SessionDir
			results[i].files = res.CreatedFiles
		}(i, body)
	}
	wg.Wait()

	if results[0].sessionDir == results[1].sessionDir {
		t.Fatalf("concurrent executions shared session dir %s", results[0].sessionDir)
	}
	if len(results[0].files) != 1 || results[0].files[0] != "first.txt" {
		t.Fatalf("first execution saw foreign files: %v", results[0].files)
	}
	if len(results[1].files) != 1 || results[1].files[0] != "second.txt" {
		t.Fatalf("second execution saw foreign files: %v", results[1].files)
	}
}
