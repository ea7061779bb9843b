// Package fileserve resolves caller-supplied relative paths against a
// fixed root and refuses anything that escapes it. Resolution happens
// before the containment check, so `..` segments and symlink tricks are
// both caught.
package fileserve

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	appErr "scriptbox/pkg/errors"
)

// FileInfo describes a resolved, servable regular file.
type FileInfo struct {
	Path string // absolute, canonicalized
	Size int64
}

// Server confines file access to one root directory.
type Server struct {
	root string
}

// New canonicalizes the root (which must exist) and returns a server
// bound to it for the process lifetime.
func New(workRoot string) (*Server, error) {
	resolved, err := filepath.EvalSymlinks(workRoot)
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.InternalServerError, "resolve work root failed")
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.InternalServerError, "resolve work root failed")
	}
	return &Server{root: abs}, nil
}

// Root returns the canonicalized confinement root.
func (s *Server) Root() string {
	return s.root
}

// Resolve validates rel against the root and returns the target file.
// Rejections: escape of the root (before any filesystem read of the
// target), missing target, target that is not a regular file.
func (s *Server) Resolve(rel string) (FileInfo, error) {
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || filepath.IsAbs(rel) {
		return FileInfo{}, appErr.New(appErr.PathOutsideRoot)
	}

	target := filepath.Join(s.root, filepath.FromSlash(rel))
	if !s.contains(target) {
		return FileInfo{}, appErr.New(appErr.PathOutsideRoot)
	}

	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, appErr.New(appErr.FileNotFound)
		}
		return FileInfo{}, appErr.Wrapf(err, appErr.FileReadFailed, "resolve path failed")
	}
	// Re-check after symlink resolution: a link inside the root may
	// point anywhere.
	if !s.contains(resolved) {
		return FileInfo{}, appErr.New(appErr.PathOutsideRoot)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, appErr.New(appErr.FileNotFound)
		}
		return FileInfo{}, appErr.Wrapf(err, appErr.FileReadFailed, "stat file failed")
	}
	if !info.Mode().IsRegular() {
		return FileInfo{}, appErr.New(appErr.NotRegularFile)
	}

	return FileInfo{Path: resolved, Size: info.Size()}, nil
}

func (s *Server) contains(path string) bool {
	path = filepath.Clean(path)
	return path == s.root || strings.HasPrefix(path, s.root+string(filepath.Separator))
}

// ByteRange is an inclusive byte span.
type ByteRange struct {
	Start int64
	End   int64
}

// ParseRange parses a "bytes=start-end" header against the file size.
// Start defaults to 0 and end to size-1 when omitted. Anything
// unparseable or unsatisfiable reports ok=false, which callers must
// treat as "serve the whole file".
func ParseRange(header string, size int64) (ByteRange, bool) {
	if size <= 0 {
		return ByteRange{}, false
	}
	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return ByteRange{}, false
	}
	value := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if strings.Contains(value, ",") {
		return ByteRange{}, false
	}
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return ByteRange{}, false
	}

	start := int64(0)
	end := size - 1
	var err error

	if strings.TrimSpace(parts[0]) != "" {
		start, err = strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil || start < 0 {
			return ByteRange{}, false
		}
	}
	if strings.TrimSpace(parts[1]) != "" {
		end, err = strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil || end < 0 {
			return ByteRange{}, false
		}
	}
	if end > size-1 {
		end = size - 1
	}
	if start > end || start >= size {
		return ByteRange{}, false
	}
	return ByteRange{Start: start, End: end}, true
}
