package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"
)

// FileStats holds basic statistics about a file.
type FileStats struct {
	Name    string
	Size    int64
	IsDir   bool
	ModTime time.Time
	Mode    os.FileMode
}

// ListOptions controls directory enumeration.
type ListOptions struct {
	// Recursive descends into subdirectories. Names are then relative to the
	// listed root and joined with "/".
	Recursive bool
	// SkipUnreadable ignores nested subdirectories that cannot be opened.
	// The root directory must always be readable.
	SkipUnreadable bool
}

// FileSystemAdapter defines an interface for interacting with the file system.
// This allows for easier testing and potential future extensions (e.g., virtual file systems).
type FileSystemAdapter interface {
	Stat(path string) (*FileStats, error)
	IsDirectory(path string) bool
	CheckWritable(dir string) error // Existence and type check, then the native write probe
	ReadFileBytes(filePath string) ([]byte, error)
	WriteFileBytesAtomic(filePath string, content []byte, perm os.FileMode) error
	ListDir(path string, opts ListOptions) ([]string, error) // Platform enumeration order, never sorted
	Abs(path string) (string, error)
}

// ErrNotDirectory is returned by CheckDirectoryIsWritable for regular files.
var ErrNotDirectory = errors.New("path is not a directory")

// CheckDirectoryIsWritable stats path and, when it is a directory, runs the
// native write-capability probe against it.
func CheckDirectoryIsWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s: %w", path, err)
		}
		return fmt.Errorf("could not stat path %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrNotDirectory)
	}
	if err := probeWritable(path); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied to write in directory %s: %w", path, err)
		}
		return fmt.Errorf("error creating probe file in %s: %w", path, err)
	}
	return nil
}

// DefaultFileSystemAdapter is the standard implementation of FileSystemAdapter using the os package.
type DefaultFileSystemAdapter struct{}

// NewDefaultFileSystemAdapter creates a new DefaultFileSystemAdapter.
func NewDefaultFileSystemAdapter() *DefaultFileSystemAdapter {
	return &DefaultFileSystemAdapter{}
}

// Ensure DefaultFileSystemAdapter implements FileSystemAdapter
var _ FileSystemAdapter = (*DefaultFileSystemAdapter)(nil)

// Stat follows symlinks, like stat(2).
func (fs *DefaultFileSystemAdapter) Stat(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	return &FileStats{
		Name:    info.Name(),
		Size:    info.Size(),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
		Mode:    info.Mode().Perm(),
	}, nil
}

// IsDirectory reports whether path exists and is a directory. Any stat
// failure counts as "not a directory".
func (fs *DefaultFileSystemAdapter) IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CheckWritable reports why dir cannot be written to, or nil if it can.
func (fs *DefaultFileSystemAdapter) CheckWritable(dir string) error {
	return CheckDirectoryIsWritable(dir)
}

// ReadFileBytes reads the entire file into a byte slice. The native error is
// returned as is, so callers can match it with errors.Is(err, fs.ErrNotExist).
func (fs *DefaultFileSystemAdapter) ReadFileBytes(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

// WriteFileBytesAtomic writes content to a file atomically.
// It writes to a temporary file in the same directory, renames it over the
// target, and finally sets the desired permissions on the target file.
func (fs *DefaultFileSystemAdapter) WriteFileBytesAtomic(filePath string, content []byte, finalPerm os.FileMode) error {
	dir := filepath.Dir(filePath)

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".tmp.*")
	if err != nil {
		return err
	}
	// Harmless after a successful rename.
	defer os.Remove(tempFile.Name())

	if _, errWrite := tempFile.Write(content); errWrite != nil {
		tempFile.Close()
		return errWrite
	}
	if errClose := tempFile.Close(); errClose != nil {
		return errClose
	}
	if errRename := os.Rename(tempFile.Name(), filePath); errRename != nil {
		return errRename
	}
	// CreateTemp uses 0600; the published file gets finalPerm.
	if errChmod := os.Chmod(filePath, finalPerm); errChmod != nil {
		return fmt.Errorf("file written to %s, but failed to set permissions to %o: %w", filePath, finalPerm, errChmod)
	}
	return nil
}

// ListDir lists the children of a directory in the order the platform
// returns them. "." and ".." are never included.
func (fs *DefaultFileSystemAdapter) ListDir(root string, opts ListOptions) ([]string, error) {
	names := []string{}
	if err := listInto(&names, root, "", opts, true); err != nil {
		return nil, err
	}
	return names, nil
}

func listInto(names *[]string, dir, prefix string, opts ListOptions, isRoot bool) error {
	f, err := os.Open(dir)
	if err != nil {
		if !isRoot && opts.SkipUnreadable {
			return nil
		}
		return err
	}
	entries, err := f.ReadDir(-1)
	f.Close()
	if err != nil && (isRoot || !opts.SkipUnreadable) {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if prefix != "" {
			name = path.Join(prefix, name)
		}
		*names = append(*names, name)
		// DirEntry.IsDir does not follow symlinks, so symlink loops are never walked.
		if opts.Recursive && entry.IsDir() {
			if err := listInto(names, filepath.Join(dir, entry.Name()), name, opts, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// Abs returns an absolute representation of path.
func (fs *DefaultFileSystemAdapter) Abs(path string) (string, error) {
	return filepath.Abs(path)
}
