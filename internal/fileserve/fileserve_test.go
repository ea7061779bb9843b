package fileserve

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	appErr "scriptbox/pkg/errors"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	srv, err := New(root)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, srv.Root()
}

func TestResolveRegularFile(t *testing.T) {
	srv, root := newTestServer(t)
	sub := filepath.Join(root, "tmp", "20260825_153012")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "out.txt"), []byte("hello"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	info, err := srv.Resolve("tmp/20260825_153012/out.txt")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if info.Size != 5 {
		t.Fatalf("unexpected size: %d", info.Size)
	}
	if info.Path != filepath.Join(sub, "out.txt") {
		t.Fatalf("unexpected path: %s", info.Path)
	}
}

func TestResolveRejections(t *testing.T) {
	srv, root := newTestServer(t)
	if err := os.Mkdir(filepath.Join(root, "dir"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cases := []struct {
		name     string
		rel      string
		wantCode appErr.ErrorCode
	}{
		{name: "parent traversal", rel: "../../etc/passwd", wantCode: appErr.PathOutsideRoot},
		{name: "nested traversal", rel: "tmp/../../../etc/passwd", wantCode: appErr.PathOutsideRoot},
		{name: "absolute path", rel: "//etc/passwd", wantCode: appErr.PathOutsideRoot},
		{name: "empty path", rel: "", wantCode: appErr.PathOutsideRoot},
		{name: "missing file", rel: "tmp/missing.txt", wantCode: appErr.FileNotFound},
		{name: "directory target", rel: "dir", wantCode: appErr.NotRegularFile},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := srv.Resolve(tc.rel)
			if err == nil {
				t.Fatalf("expected rejection for %q", tc.rel)
			}
			if got := appErr.GetCode(err); got != tc.wantCode {
				t.Fatalf("code = %d, want %d", got, tc.wantCode)
			}
		})
	}
}

func TestResolveSymlinkEscapeRejected(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks not reliable on windows")
	}
	srv, root := newTestServer(t)

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(secret, []byte("top"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Symlink(secret, filepath.Join(root, "link.txt")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	_, err := srv.Resolve("link.txt")
	if err == nil {
		t.Fatalf("symlink escape not rejected")
	}
	if got := appErr.GetCode(err); got != appErr.PathOutsideRoot {
		t.Fatalf("code = %d, want %d", got, appErr.PathOutsideRoot)
	}
}

func TestParseRange(t *testing.T) {
	const size = 1000

	cases := []struct {
		name   string
		header string
		want   ByteRange
		ok     bool
	}{
		{name: "explicit span", header: "bytes=0-99", want: ByteRange{0, 99}, ok: true},
		{name: "mid span", header: "bytes=100-199", want: ByteRange{100, 199}, ok: true},
		{name: "open end", header: "bytes=900-", want: ByteRange{900, 999}, ok: true},
		{name: "open start defaults to zero", header: "bytes=-99", want: ByteRange{0, 99}, ok: true},
		{name: "end clamped to size", header: "bytes=0-5000", want: ByteRange{0, 999}, ok: true},
		{name: "single byte", header: "bytes=5-5", want: ByteRange{5, 5}, ok: true},
		{name: "missing unit", header: "0-99", ok: false},
		{name: "multi range", header: "bytes=0-1,5-6", ok: false},
		{name: "inverted span", header: "bytes=9-2", ok: false},
		{name: "start past eof", header: "bytes=1000-", ok: false},
		{name: "garbage", header: "bytes=abc-def", ok: false},
		{name: "empty header", header: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseRange(tc.header, size)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("range = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseRangeHundredByteSpanLength(t *testing.T) {
	r, ok := ParseRange("bytes=0-99", 1000)
	if !ok {
		t.Fatalf("range rejected")
	}
	if length := r.End - r.Start + 1; length != 100 {
		t.Fatalf("span length = %d, want 100", length)
	}
}
