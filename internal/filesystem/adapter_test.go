package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
)

func TestCheckDirectoryIsWritable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"writable temp dir", dir, false},
		{"nonexistent path", filepath.Join(dir, "missing"), true},
		{"regular file", file, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDirectoryIsWritable(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckDirectoryIsWritable(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}

	if err := CheckDirectoryIsWritable(file); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory for a regular file, got %v", err)
	}
}

func TestCheckDirectoryIsWritable_LeavesNoProbeBehind(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		if err := CheckDirectoryIsWritable(dir); err != nil {
			t.Fatalf("probe %d failed: %v", i, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory after probing, found %d entries", len(entries))
	}
}

func TestCheckDirectoryIsWritable_ReadOnlyDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("mode bits do not restrict directory writes on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root bypasses directory permissions")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if err := CheckDirectoryIsWritable(dir); err == nil {
		t.Error("expected read-only directory to fail the probe")
	}
}

func TestDefaultFileSystemAdapter_WriteFileBytesAtomic(t *testing.T) {
	adapter := NewDefaultFileSystemAdapter()
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	tests := []struct {
		name    string
		content []byte
	}{
		{"create", []byte("Hello, World!")},
		{"overwrite keeps crlf", []byte("line1\r\nline2\r")},
		{"empty", []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := adapter.WriteFileBytesAtomic(target, tt.content, 0o644); err != nil {
				t.Fatalf("WriteFileBytesAtomic() error = %v", err)
			}
			got, err := os.ReadFile(target)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if string(got) != string(tt.content) {
				t.Errorf("content = %q, want %q", got, tt.content)
			}
		})
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(target)
		if err != nil {
			t.Fatalf("Stat: %v", err)
		}
		if info.Mode().Perm() != 0o644 {
			t.Errorf("mode = %o, want 644", info.Mode().Perm())
		}
	}
}

func TestDefaultFileSystemAdapter_WriteFileBytesAtomic_MissingDir(t *testing.T) {
	adapter := NewDefaultFileSystemAdapter()
	err := adapter.WriteFileBytesAtomic(filepath.Join(t.TempDir(), "nope", "f.txt"), []byte("x"), 0o644)
	if err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestDefaultFileSystemAdapter_ReadFileBytes(t *testing.T) {
	adapter := NewDefaultFileSystemAdapter()
	dir := t.TempDir()

	if _, err := adapter.ReadFileBytes(filepath.Join(dir, "missing")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
	if _, err := adapter.ReadFileBytes(dir); err == nil {
		t.Error("expected error reading a directory")
	}
}

func TestDefaultFileSystemAdapter_ListDir(t *testing.T) {
	adapter := NewDefaultFileSystemAdapter()
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "sub", "deeper"))
	mustWrite(t, filepath.Join(root, "a.txt"))
	mustWrite(t, filepath.Join(root, "sub", "b.txt"))
	mustWrite(t, filepath.Join(root, "sub", "deeper", "c.txt"))

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"immediate children", ListOptions{}, []string{"a.txt", "sub"}},
		{"recursive", ListOptions{Recursive: true}, []string{"a.txt", "sub", "sub/b.txt", "sub/deeper", "sub/deeper/c.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adapter.ListDir(root, tt.opts)
			if err != nil {
				t.Fatalf("ListDir() error = %v", err)
			}
			sort.Strings(got)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ListDir() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultFileSystemAdapter_ListDir_Empty(t *testing.T) {
	adapter := NewDefaultFileSystemAdapter()
	got, err := adapter.ListDir(t.TempDir(), ListOptions{})
	if err != nil {
		t.Fatalf("ListDir() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected non-nil empty slice, got %#v", got)
	}
}

func TestDefaultFileSystemAdapter_ListDir_Missing(t *testing.T) {
	adapter := NewDefaultFileSystemAdapter()
	if _, err := adapter.ListDir(filepath.Join(t.TempDir(), "missing"), ListOptions{}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestDefaultFileSystemAdapter_StatAndIsDirectory(t *testing.T) {
	adapter := NewDefaultFileSystemAdapter()
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("0123456789abc"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	stats, err := adapter.Stat(file)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if stats.Size != 13 || stats.IsDir || stats.Name != "f.txt" {
		t.Errorf("unexpected stats %+v", stats)
	}
	if !adapter.IsDirectory(dir) {
		t.Error("IsDirectory(dir) = false")
	}
	if adapter.IsDirectory(file) {
		t.Error("IsDirectory(file) = true")
	}
	if adapter.IsDirectory(filepath.Join(dir, "missing")) {
		t.Error("IsDirectory(missing) = true")
	}
}

func mustMkdir(t *testing.T, p string) {
	t.Helper()
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", p, err)
	}
}

func mustWrite(t *testing.T, p string) {
	t.Helper()
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
}
