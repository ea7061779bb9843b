// Package workspace allocates per-execution session directories and
// materializes submitted scripts into them.
package workspace

import (
	"os"
	"path/filepath"
	"time"

	"scriptbox/internal/executor/spec"
	appErr "scriptbox/pkg/errors"

	"github.com/google/uuid"
)

const sessionParent = "tmp"

// Session is one allocated execution directory.
type Session struct {
	ID   string // directory name, e.g. 20260825_153012
	Dir  string // absolute path
	Rel  string // path relative to the work root, e.g. tmp/20260825_153012
	root string
}

// Allocator creates session directories under a fixed work root.
type Allocator struct {
	root string
	now  func() time.Time
}

// NewAllocator returns an allocator rooted at workRoot. workRoot must be
// an absolute, existing directory (the caller resolves it at startup).
func NewAllocator(workRoot string) *Allocator {
	return &Allocator{root: workRoot, now: time.Now}
}

// Allocate creates a fresh session directory named by the current
// timestamp at second granularity. Two requests inside the same second
// would collide on the name, so when the directory already exists a short
// random suffix is appended; allocation never reuses a live session.
func (a *Allocator) Allocate() (Session, error) {
	name := a.now().Format("20060102_150405")
	dir := filepath.Join(a.root, sessionParent, name)

	if _, err := os.Stat(dir); err == nil {
		name = name + "_" + uuid.NewString()[:8]
		dir = filepath.Join(a.root, sessionParent, name)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return Session{}, appErr.Wrapf(err, appErr.SessionAllocFailed, "create session directory failed")
	}

	return Session{
		ID:   name,
		Dir:  dir,
		Rel:  filepath.ToSlash(filepath.Join(sessionParent, name)),
		root: a.root,
	}, nil
}

// Materialize writes the script body into the session directory with the
// file name and mode dictated by the script kind. Re-invoking on the same
// session silently overwrites.
func (s Session) Materialize(sc spec.ScriptSpec) (scriptRel string, scriptAbs string, err error) {
	fileName := sc.Kind.FileName()
	scriptAbs = filepath.Join(s.Dir, fileName)
	if err := os.WriteFile(scriptAbs, []byte(sc.Script), os.FileMode(sc.Kind.FileMode())); err != nil {
		return "", "", appErr.Wrapf(err, appErr.ScriptWriteFailed, "write script file failed")
	}
	if sc.Kind == spec.KindShell {
		// WriteFile masks mode bits with the process umask; force 0755
		// so the script is directly executable.
		if err := os.Chmod(scriptAbs, 0755); err != nil {
			return "", "", appErr.Wrapf(err, appErr.ScriptWriteFailed, "set script executable failed")
		}
	}
	scriptRel = filepath.ToSlash(filepath.Join(s.Rel, fileName))
	return scriptRel, scriptAbs, nil
}

// WithClock overrides the allocator clock, used by tests to force
// timestamp collisions.
func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	a.now = now
	return a
}
