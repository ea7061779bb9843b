//go:build linux

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRunScriptShellEndToEnd(t *testing.T) {
	router, _ := setupRouter(t)

	rec := postRun(t, router, `{"script":"echo hi\ntouch out.txt\nmkdir sub\nexit 0\n","kind":"shell","timeout":10,"apiKey":"`+testAPIKey+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeRun(t, rec)

	if !resp.Success {
		t.Fatalf("execution failed: %q", resp.Error)
	}
	if resp.ExitCode == nil || *resp.ExitCode != 0 {
		t.Fatalf("unexpected exit code: %v", resp.ExitCode)
	}
	if resp.Stdout != "hi\n" {
		t.Fatalf("unexpected stdout: %q", resp.Stdout)
	}
	if resp.Timeout {
		t.Fatalf("unexpected timeout flag")
	}
	if resp.Message != "Script executed successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if len(resp.CreatedFiles) != 1 || resp.CreatedFiles[0] != "out.txt" {
		t.Fatalf("unexpected createdFiles: %v", resp.CreatedFiles)
	}
	if len(resp.CreatedDirectories) != 1 || resp.CreatedDirectories[0] != "sub" {
		t.Fatalf("unexpected createdDirectories: %v", resp.CreatedDirectories)
	}

	// The artifact reported by the run must be retrievable through the
	// file endpoint under the same session directory.
	req := httptest.NewRequest(http.MethodGet, "/files/"+resp.ScriptDir+"/out.txt", nil)
	fetch := httptest.NewRecorder()
	router.ServeHTTP(fetch, req)
	if fetch.Code != http.StatusOK {
		t.Fatalf("fetch status = %d, want 200", fetch.Code)
	}
}

func TestRunScriptTimeoutReport(t *testing.T) {
	router, _ := setupRouter(t)

	rec := postRun(t, router, `{"script":"sleep 5\n","kind":"shell","timeout":1,"apiKey":"`+testAPIKey+`"}`)
	resp := decodeRun(t, rec)

	if !resp.Success {
		t.Fatalf("timeout must still be a successful report: %q", resp.Error)
	}
	if !resp.Timeout {
		t.Fatalf("timeout flag not set")
	}
	if resp.ExitCode == nil || *resp.ExitCode != -1 {
		t.Fatalf("unexpected exit code: %v", resp.ExitCode)
	}
	if resp.Stdout != "" {
		t.Fatalf("unexpected stdout: %q", resp.Stdout)
	}
	if resp.Stderr != "Script execution timed out" {
		t.Fatalf("unexpected stderr: %q", resp.Stderr)
	}
	if resp.Message != "Script execution timed out after 1 seconds" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}
