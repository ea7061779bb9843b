package spec

import (
	"testing"

	appErr "scriptbox/pkg/errors"
)

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name     string
		script   string
		kind     string
		timeout  int
		wantCode appErr.ErrorCode
	}{
		{name: "valid python default kind", script: "print(1)", kind: "", timeout: 10, wantCode: appErr.Success},
		{name: "valid shell kind", script: "echo hi", kind: "shell", timeout: 5, wantCode: appErr.Success},
		{name: "timeout zero rejected", script: "print(1)", kind: "", timeout: 0, wantCode: appErr.InvalidTimeout},
		{name: "timeout above max rejected", script: "print(1)", kind: "", timeout: 61, wantCode: appErr.InvalidTimeout},
		{name: "timeout at bounds", script: "print(1)", kind: "", timeout: 1, wantCode: appErr.Success},
		{name: "timeout at upper bound", script: "print(1)", kind: "", timeout: 60, wantCode: appErr.Success},
		{name: "empty script rejected", script: "   \n\t", kind: "", timeout: 10, wantCode: appErr.EmptyScript},
		{name: "unknown kind rejected", script: "puts 1", kind: "ruby", timeout: 10, wantCode: appErr.UnknownScriptKind},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sc, err := New(tc.script, tc.kind, tc.timeout)
			if tc.wantCode == appErr.Success {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if sc.TimeoutSeconds != tc.timeout {
					t.Fatalf("timeout not preserved: %d", sc.TimeoutSeconds)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error code %d, got nil", tc.wantCode)
			}
			if got := appErr.GetCode(err); got != tc.wantCode {
				t.Fatalf("expected code %d, got %d", tc.wantCode, got)
			}
		})
	}
}

func TestParseKindAliases(t *testing.T) {
	for _, raw := range []string{"shell", "sh", "bash", "SHELL"} {
		kind, err := ParseKind(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if kind != KindShell {
			t.Fatalf("expected shell kind for %q, got %q", raw, kind)
		}
	}
	kind, err := ParseKind("")
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if kind != KindPython {
		t.Fatalf("empty kind should default to python, got %q", kind)
	}
}

func TestKindFileAttributes(t *testing.T) {
	if name := KindPython.FileName(); name != "script.py" {
		t.Fatalf("unexpected python file name: %s", name)
	}
	if name := KindShell.FileName(); name != "script.sh" {
		t.Fatalf("unexpected shell file name: %s", name)
	}
	if mode := KindPython.FileMode(); mode != 0644 {
		t.Fatalf("unexpected python mode: %o", mode)
	}
	if mode := KindShell.FileMode(); mode != 0755 {
		t.Fatalf("unexpected shell mode: %o", mode)
	}
}
