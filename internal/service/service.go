package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"directory-bridge-server/internal/config"
	"directory-bridge-server/internal/errors"
	"directory-bridge-server/internal/filesystem"
	"directory-bridge-server/internal/logger"
	"directory-bridge-server/internal/models"
	"directory-bridge-server/internal/picker"
	"directory-bridge-server/internal/platform"
)

// writtenFileMode is the mode of files created by WriteFile.
const writtenFileMode = 0o644

// DirectoryService is the platform capability behind every bridge method.
// Methods returning a bool "found" use false to mean the result is null.
type DirectoryService interface {
	PlatformVersion() string
	SelectDirectory(ctx context.Context) (path string, selected bool, errDetail *models.ErrorDetail)
	HasPermission(req models.DirectoryRequest) bool
	RequestPermission(req models.DirectoryRequest) bool
	WriteFile(req models.WriteFileRequest) *models.ErrorDetail
	ListDirectory(req models.DirectoryRequest) (names []string, found bool, errDetail *models.ErrorDetail)
	ReadFile(req models.ReadFileRequest) (content string, found bool, errDetail *models.ErrorDetail)
	GetDirectoryDetails(req models.DirectoryRequest) (entries []models.DirectoryEntryDetail, found bool, errDetail *models.ErrorDetail)
}

// DefaultDirectoryService implements DirectoryService against the local
// filesystem and the native directory picker.
type DefaultDirectoryService struct {
	fsAdapter     filesystem.FileSystemAdapter
	picker        picker.Picker
	strictDefault bool
	versionFunc   func() string
}

// NewDefaultDirectoryService creates a new DefaultDirectoryService.
func NewDefaultDirectoryService(
	fs filesystem.FileSystemAdapter,
	p picker.Picker,
	cfg *config.Config,
) (*DefaultDirectoryService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if fs == nil {
		return nil, fmt.Errorf("filesystem adapter is required")
	}
	if p == nil {
		return nil, fmt.Errorf("directory picker is required")
	}
	return &DefaultDirectoryService{
		fsAdapter:     fs,
		picker:        p,
		strictDefault: cfg.Enumeration.Strict,
		versionFunc:   platform.Version,
	}, nil
}

// PlatformVersion returns e.g. "Linux #1 SMP ..." or "Windows 10+".
func (s *DefaultDirectoryService) PlatformVersion() string {
	return s.versionFunc()
}

// SelectDirectory blocks until the modal chooser is dismissed. Cancelling is
// reported as selected=false, never as an error.
func (s *DefaultDirectoryService) SelectDirectory(ctx context.Context) (string, bool, *models.ErrorDetail) {
	path, selected, err := s.picker.SelectDirectory(ctx)
	if err != nil {
		if stdErrors.Is(err, picker.ErrBusy) {
			return "", false, errors.NewDialogBusyError()
		}
		logger.Warn("Directory picker failed: %v", err)
		return "", false, errors.NewDialogError(err)
	}
	return path, selected, nil
}

// HasPermission reports whether a file can actually be created in the
// directory. A missing path or a non-directory yields false.
func (s *DefaultDirectoryService) HasPermission(req models.DirectoryRequest) bool {
	if err := s.fsAdapter.CheckWritable(req.DirectoryPath); err != nil {
		logger.Debug("No write permission for %s: %v", req.DirectoryPath, err)
		return false
	}
	return true
}

// RequestPermission is HasPermission: local directories have no interactive
// just-in-time grant on any supported desktop platform.
func (s *DefaultDirectoryService) RequestPermission(req models.DirectoryRequest) bool {
	return s.HasPermission(req)
}

// WriteFile replaces directoryPath/fileName with content. Checks run in a
// fixed order: directory, permission, then file name.
func (s *DefaultDirectoryService) WriteFile(req models.WriteFileRequest) *models.ErrorDetail {
	if !s.fsAdapter.IsDirectory(req.DirectoryPath) {
		return errors.NewInvalidDirectoryError()
	}
	if err := s.fsAdapter.CheckWritable(req.DirectoryPath); err != nil {
		logger.Debug("Write probe failed for %s: %v", req.DirectoryPath, err)
		return errors.NewPermissionDeniedError()
	}
	if !isValidFileName(req.FileName) {
		return errors.NewInvalidFilenameError()
	}

	target := filepath.Join(req.DirectoryPath, req.FileName)
	if err := s.fsAdapter.WriteFileBytesAtomic(target, []byte(req.Content), writtenFileMode); err != nil {
		logger.Warn("Failed to write %s: %v", target, err)
		return errors.NewFileWriteError(err)
	}
	logger.Debug("Wrote %d bytes to %s", len(req.Content), target)
	return nil
}

// isValidFileName accepts only names of direct children of the target
// directory.
func isValidFileName(name string) bool {
	if name == "" || name == "." {
		return false
	}
	return !strings.Contains(name, "..") &&
		!strings.ContainsAny(name, `/\`)
}

// ListDirectory returns child names in platform order. found is false when
// the path is not an existing directory.
func (s *DefaultDirectoryService) ListDirectory(req models.DirectoryRequest) ([]string, bool, *models.ErrorDetail) {
	if !s.fsAdapter.IsDirectory(req.DirectoryPath) {
		return nil, false, nil
	}
	names, err := s.fsAdapter.ListDir(req.DirectoryPath, filesystem.ListOptions{
		Recursive:      req.Recursive,
		SkipUnreadable: true,
	})
	if err != nil {
		return nil, false, errors.NewDirReadError(err)
	}
	return names, true, nil
}

// ReadFile returns the whole file as a string. found is false when the path
// does not exist.
func (s *DefaultDirectoryService) ReadFile(req models.ReadFileRequest) (string, bool, *models.ErrorDetail) {
	if _, err := s.fsAdapter.Stat(req.FilePath); err != nil {
		return "", false, nil
	}
	content, err := s.fsAdapter.ReadFileBytes(req.FilePath)
	if err != nil {
		return "", false, errors.NewFileReadError(err)
	}
	return string(content), true, nil
}

// GetDirectoryDetails stats every child. Unless strict, entries that cannot
// be stat'ed are left out of the result.
func (s *DefaultDirectoryService) GetDirectoryDetails(req models.DirectoryRequest) ([]models.DirectoryEntryDetail, bool, *models.ErrorDetail) {
	if !s.fsAdapter.IsDirectory(req.DirectoryPath) {
		return nil, false, nil
	}
	strict := s.strictDefault
	if req.Strict != nil {
		strict = *req.Strict
	}

	root, err := s.fsAdapter.Abs(req.DirectoryPath)
	if err != nil {
		root = req.DirectoryPath
	}
	names, err := s.fsAdapter.ListDir(root, filesystem.ListOptions{
		Recursive:      req.Recursive,
		SkipUnreadable: !strict,
	})
	if err != nil {
		return nil, false, errors.NewDirReadError(err)
	}

	entries := make([]models.DirectoryEntryDetail, 0, len(names))
	for _, name := range names {
		fullPath := filepath.Join(root, filepath.FromSlash(name))
		stats, err := s.fsAdapter.Stat(fullPath)
		if err != nil {
			if strict {
				return nil, false, errors.NewDirReadError(err)
			}
			logger.Debug("Skipping %s: %v", fullPath, err)
			continue
		}
		entries = append(entries, toEntryDetail(name, fullPath, stats))
	}
	return entries, true, nil
}

func toEntryDetail(name, fullPath string, stats *filesystem.FileStats) models.DirectoryEntryDetail {
	entry := models.DirectoryEntryDetail{
		Name:        name,
		Path:        fullPath,
		IsDirectory: stats.IsDir,
	}
	if !stats.IsDir && stats.Size > 0 {
		entry.Size = stats.Size
	}
	if ms := stats.ModTime.UnixMilli(); ms > 0 {
		entry.LastModified = ms
	}
	return entry
}
