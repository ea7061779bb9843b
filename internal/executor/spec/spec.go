// Package spec defines the validated description of one script execution.
package spec

import (
	"strings"

	appErr "scriptbox/pkg/errors"
)

// ScriptKind selects how the submitted script is materialized and invoked.
type ScriptKind string

const (
	KindPython ScriptKind = "python"
	KindShell  ScriptKind = "shell"
)

const (
	// DefaultTimeoutSeconds applies when the request omits a timeout.
	DefaultTimeoutSeconds = 10
	MinTimeoutSeconds     = 1
	MaxTimeoutSeconds     = 60
)

// ScriptSpec is an immutable, validated execution request.
type ScriptSpec struct {
	Script         string
	Kind           ScriptKind
	TimeoutSeconds int
}

// FileName returns the script file name for the kind.
func (k ScriptKind) FileName() string {
	if k == KindShell {
		return "script.sh"
	}
	return "script.py"
}

// FileMode returns the permission bits for the materialized script.
// Shell scripts are invoked directly and need the execute bit.
func (k ScriptKind) FileMode() uint32 {
	if k == KindShell {
		return 0755
	}
	return 0644
}

// ParseKind maps the wire value to a ScriptKind. Empty defaults to python.
func ParseKind(raw string) (ScriptKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "python":
		return KindPython, nil
	case "shell", "sh", "bash":
		return KindShell, nil
	default:
		return "", appErr.Newf(appErr.UnknownScriptKind, "unknown script kind: %s", raw)
	}
}

// New validates the raw inputs and builds a ScriptSpec.
// Validation happens before any directory or process work.
func New(script, rawKind string, timeoutSeconds int) (ScriptSpec, error) {
	kind, err := ParseKind(rawKind)
	if err != nil {
		return ScriptSpec{}, err
	}
	// An explicit zero is rejected, not defaulted; the transport layer
	// applies DefaultTimeoutSeconds only when the field is absent.
	if timeoutSeconds < MinTimeoutSeconds || timeoutSeconds > MaxTimeoutSeconds {
		return ScriptSpec{}, appErr.New(appErr.InvalidTimeout)
	}
	if strings.TrimSpace(script) == "" {
		return ScriptSpec{}, appErr.New(appErr.EmptyScript)
	}
	return ScriptSpec{
		Script:         script,
		Kind:           kind,
		TimeoutSeconds: timeoutSeconds,
	}, nil
}
